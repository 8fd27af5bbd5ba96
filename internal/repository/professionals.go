package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/entity"
)

type professionalRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProfessionalRepository(pool *pgxpool.Pool, logger *slog.Logger) ProfessionalRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &professionalRepository{pool: pool, logger: logger}
}

// Upsert creates or finds the professional for (name, branch). Idempotent:
// re-uploading the same professional's report never creates a second row.
func (r *professionalRepository) Upsert(ctx context.Context, name, branchID string) (*entity.Professional, error) {
	var p entity.Professional
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profesionales (nombre, sucursal_id)
		VALUES ($1, $2::uuid)
		ON CONFLICT (nombre, sucursal_id) DO UPDATE SET nombre = EXCLUDED.nombre
		RETURNING id, nombre, sucursal_id`,
		name, branchID,
	).Scan(&p.ID, &p.Name, &p.BranchID)
	if err != nil {
		r.logger.Error("professionals.upsert.failed", "name", name, "branch_id", branchID, "error", err)
		return nil, common.NewAppError("PROFESSIONAL_UPSERT", err.Error(), common.ErrStore)
	}
	return &p, nil
}
