package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

type branchRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewBranchRepository(pool *pgxpool.Pool, logger *slog.Logger) BranchRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &branchRepository{pool: pool, logger: logger}
}

func (r *branchRepository) List(ctx context.Context) ([]entity.Branch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, nombre, comision_porcentaje FROM sucursales ORDER BY nombre`)
	if err != nil {
		r.logger.Error("branches.list.failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.CommissionPercent); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *branchRepository) ListOrFallback(ctx context.Context) []entity.Branch {
	branches, err := r.List(ctx)
	if err != nil || len(branches) == 0 {
		r.logger.Warn("branches.fallback", "error", err, "found", len(branches))
		return entity.FallbackBranches()
	}
	return branches
}
