// Package ingest routes extracted reports into the hosted store or the local
// demo cache, depending on which branch set the capture flow is running on.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/extract"
	"github.com/sculptbody/cierre-backend/internal/localcache"
	"github.com/sculptbody/cierre-backend/internal/repository"
	"github.com/sculptbody/cierre-backend/internal/storage"
)

// Router persists one extracted report per call. Demo branches (hardcoded
// fallback set) go to the local cache; real branches go to Postgres with the
// image uploaded first so the report row carries its URL.
type Router struct {
	professionals repository.ProfessionalRepository
	reports       repository.ReportRepository
	objects       storage.ObjectStore
	cache         localcache.Store
	logger        *slog.Logger
}

func NewRouter(
	professionals repository.ProfessionalRepository,
	reports repository.ReportRepository,
	objects storage.ObjectStore,
	cache localcache.Store,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		professionals: professionals,
		reports:       reports,
		objects:       objects,
		cache:         cache,
		logger:        logger,
	}
}

// Persist saves an extracted report for the given branch and month. The month
// is YYYY-MM; when the model extracted no date, the report date defaults to
// the last day of that month.
func (r *Router) Persist(ctx context.Context, extracted *extract.Report, img extract.Image, branch entity.Branch, yearMonth string) (*entity.SalesReport, error) {
	reportDate, err := entity.LastDayOfMonth(yearMonth)
	if err != nil {
		return nil, common.NewAppError("INVALID_MONTH", err.Error(), common.ErrInvalidInput)
	}
	if extracted.ReportDate != "" {
		reportDate = extracted.ReportDate
	}

	rep := buildReport(extracted, branch, reportDate)

	if branch.IsDemo() {
		return r.persistLocal(ctx, rep, extracted.ProfessionalName, branch)
	}
	return r.persistHosted(ctx, rep, extracted.ProfessionalName, img, branch)
}

func buildReport(extracted *extract.Report, branch entity.Branch, reportDate string) *entity.SalesReport {
	lines := make([]entity.ServiceLine, 0, len(extracted.Services))
	for _, s := range extracted.Services {
		subtotal := s.Subtotal
		if subtotal == 0 {
			subtotal = int64(s.Quantity) * s.UnitPrice
		}
		lines = append(lines, entity.ServiceLine{
			ServiceName: s.Name,
			Quantity:    s.Quantity,
			UnitPrice:   s.UnitPrice,
			Subtotal:    subtotal,
		})
	}
	return &entity.SalesReport{
		ReportDate:        reportDate,
		GrossSales:        extracted.TotalSales,
		CommissionPercent: branch.CommissionPercent,
		NetPay:            entity.NetPay(extracted.TotalSales, branch.CommissionPercent),
		Status:            constants.ReportStatusProcessed,
		Services:          lines,
	}
}

func (r *Router) persistHosted(ctx context.Context, rep *entity.SalesReport, professionalName string, img extract.Image, branch entity.Branch) (*entity.SalesReport, error) {
	prof, err := r.professionals.Upsert(ctx, professionalName, branch.ID)
	if err != nil {
		return nil, err
	}
	rep.ProfessionalID = prof.ID
	prof.Branch = &branch
	rep.Professional = prof

	if r.objects != nil && len(img.Data) > 0 {
		url, err := r.objects.Upload(ctx, storage.ObjectKey(img.FileName), img.Data, img.MIMEType)
		if err != nil {
			// the report is worth more than its photo
			r.logger.Warn("ingest.upload.skipped", "file", img.FileName, "error", err)
		} else {
			rep.ImageURL = url
		}
	}

	id, updated, err := r.reports.UpsertByNaturalKey(ctx, rep)
	if err != nil {
		return nil, err
	}
	rep.ID = id

	if err := r.reports.InsertServiceLines(ctx, id, rep.Services); err != nil {
		return nil, err
	}
	for i := range rep.Services {
		rep.Services[i].ReportID = id
	}

	r.logger.Info("ingest.persisted",
		"report_id", id,
		"professional", professionalName,
		"branch", branch.Name,
		"updated", updated,
		"gross", rep.GrossSales,
		"net_pay", rep.NetPay)
	return rep, nil
}

// persistLocal fabricates ids and prepends the report to the single demo
// cache slot, newest first.
func (r *Router) persistLocal(ctx context.Context, rep *entity.SalesReport, professionalName string, branch entity.Branch) (*entity.SalesReport, error) {
	rep.ID = uuid.NewString()
	rep.ProfessionalID = constants.DemoProfessionalPrefix + uuid.NewString()[:8]
	rep.Status = constants.ReportStatusDemo
	rep.Professional = &entity.Professional{
		ID:       rep.ProfessionalID,
		Name:     professionalName,
		BranchID: branch.ID,
		Branch:   &branch,
	}
	for i := range rep.Services {
		rep.Services[i].ReportID = rep.ID
	}

	existing, err := r.cache.Read(ctx)
	if err != nil {
		return nil, common.NewAppError("CACHE_READ", err.Error(), common.ErrStore)
	}
	updated := append([]entity.SalesReport{*rep}, existing...)
	if err := r.cache.Write(ctx, updated); err != nil {
		return nil, common.NewAppError("CACHE_WRITE", err.Error(), common.ErrStore)
	}

	r.logger.Info("ingest.persisted.local",
		"report_id", rep.ID,
		"professional", professionalName,
		"branch", branch.Name,
		"cached", len(updated))
	return rep, nil
}

// ListReports reads from the hosted store, falling back to the local cache
// when the store errors so the dashboard keeps working offline.
func ListReports(ctx context.Context, reports repository.ReportRepository, cache localcache.Store, yearMonth string, logger *slog.Logger) ([]entity.SalesReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if reports != nil {
		list, err := reports.ListByMonth(ctx, yearMonth)
		if err == nil {
			cached, cacheErr := cache.Read(ctx)
			if cacheErr != nil {
				logger.Warn("ingest.cache.read.failed", "error", cacheErr)
				return list, nil
			}
			return mergeWithCache(list, cached, yearMonth), nil
		}
		logger.Warn("ingest.list.store.failed", "error", err)
	}
	cached, err := cache.Read(ctx)
	if err != nil {
		return nil, common.NewAppError("CACHE_READ", err.Error(), common.ErrStore)
	}
	return filterByMonth(cached, yearMonth), nil
}

// mergeWithCache shows demo reports alongside hosted ones, demo entries first
// since they are the most recent captures on this machine.
func mergeWithCache(hosted, cached []entity.SalesReport, yearMonth string) []entity.SalesReport {
	demo := filterByMonth(cached, yearMonth)
	if len(demo) == 0 {
		return hosted
	}
	return append(demo, hosted...)
}

func filterByMonth(reports []entity.SalesReport, yearMonth string) []entity.SalesReport {
	if yearMonth == "" {
		return reports
	}
	prefix := fmt.Sprintf("%s-", yearMonth)
	out := make([]entity.SalesReport, 0, len(reports))
	for _, rep := range reports {
		if len(rep.ReportDate) >= len(prefix) && rep.ReportDate[:len(prefix)] == prefix {
			out = append(out, rep)
		}
	}
	return out
}

// DeleteLocal removes a demo report from the cache slot by id.
func DeleteLocal(ctx context.Context, cache localcache.Store, id string) error {
	reports, err := cache.Read(ctx)
	if err != nil {
		return common.NewAppError("CACHE_READ", err.Error(), common.ErrStore)
	}
	kept := make([]entity.SalesReport, 0, len(reports))
	found := false
	for _, rep := range reports {
		if rep.ID == id {
			found = true
			continue
		}
		kept = append(kept, rep)
	}
	if !found {
		return common.NewAppError("REPORT_NOT_FOUND", "report not found in cache: "+id, common.ErrNotFound)
	}
	if err := cache.Write(ctx, kept); err != nil {
		return common.NewAppError("CACHE_WRITE", err.Error(), common.ErrStore)
	}
	return nil
}
