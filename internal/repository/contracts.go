package repository

import (
	"context"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

// BranchRepository reads the canonical branch reference set.
type BranchRepository interface {
	List(ctx context.Context) ([]entity.Branch, error)
	// ListOrFallback degrades to the hardcoded branch list when the hosted
	// store is unreachable or empty, which switches the capture flow into
	// demo mode.
	ListOrFallback(ctx context.Context) []entity.Branch
}

// ProfessionalRepository upserts providers, unique per (name, branch).
type ProfessionalRepository interface {
	Upsert(ctx context.Context, name, branchID string) (*entity.Professional, error)
}

// ReportRepository owns reportes_mensuales and servicios_reporte.
type ReportRepository interface {
	// UpsertByNaturalKey updates the existing row for (professional, date) in
	// place instead of inserting a duplicate. The update path never removes
	// line items written by a prior save.
	UpsertByNaturalKey(ctx context.Context, rep *entity.SalesReport) (id string, updated bool, err error)
	// Insert always creates a new row. Reconciliation uses this path.
	Insert(ctx context.Context, rep *entity.SalesReport) (id string, err error)
	InsertServiceLines(ctx context.Context, reportID string, lines []entity.ServiceLine) error
	// ListByMonth returns reports inside a YYYY-MM window, newest first, with
	// professional, branch and line items populated. Empty month = all.
	ListByMonth(ctx context.Context, yearMonth string) ([]entity.SalesReport, error)
	// Delete removes a report; line items cascade in the schema.
	Delete(ctx context.Context, id string) error
}
