// Package reconcile moves demo-cached reports into the hosted store once a
// real database is reachable again.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/localcache"
	"github.com/sculptbody/cierre-backend/internal/repository"
)

// Outcome summarizes a reconciliation run.
type Outcome struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MovedCount  int    `json:"moved_count"`
	FailedCount int    `json:"failed_count"`
}

type Service struct {
	branches      repository.BranchRepository
	professionals repository.ProfessionalRepository
	reports       repository.ReportRepository
	cache         localcache.Store
	purgeLocal    bool
	logger        *slog.Logger
}

func NewService(
	branches repository.BranchRepository,
	professionals repository.ProfessionalRepository,
	reports repository.ReportRepository,
	cache localcache.Store,
	purgeLocal bool,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		branches:      branches,
		professionals: professionals,
		reports:       reports,
		cache:         cache,
		purgeLocal:    purgeLocal,
		logger:        logger,
	}
}

// Run migrates every cached demo report whose branch name matches a hosted
// branch. Reports are inserted fresh, never matched against existing rows, so
// running twice can duplicate them. Failed entries stay in the cache.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	cached, err := s.cache.Read(ctx)
	if err != nil {
		return Outcome{}, common.NewAppError("CACHE_READ", err.Error(), common.ErrStore)
	}
	if len(cached) == 0 {
		s.logger.Info("reconcile.noop")
		return Outcome{Success: true, Message: "No hay datos locales para migrar"}, nil
	}

	branches, err := s.branches.List(ctx)
	if err != nil {
		s.logger.Error("reconcile.branches.failed", "error", err)
		return Outcome{}, common.NewAppError("BRANCH_LIST", err.Error(), common.ErrStore)
	}
	byName := make(map[string]entity.Branch, len(branches))
	for _, b := range branches {
		byName[b.Name] = b
	}

	var moved, failed int
	var remaining []entity.SalesReport
	for _, rep := range cached {
		if err := s.migrate(ctx, rep, byName); err != nil {
			s.logger.Warn("reconcile.report.failed",
				"report_id", rep.ID,
				"branch", rep.BranchName(),
				"error", err)
			failed++
			remaining = append(remaining, rep)
			continue
		}
		moved++
	}

	if s.purgeLocal && moved > 0 {
		if err := s.cache.Write(ctx, remaining); err != nil {
			s.logger.Error("reconcile.purge.failed", "error", err)
		}
	}

	s.logger.Info("reconcile.done",
		"moved", moved,
		"failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds())
	return Outcome{
		Success:     failed == 0,
		Message:     fmt.Sprintf("Migración completada: %d reportes migrados, %d fallidos", moved, failed),
		MovedCount:  moved,
		FailedCount: failed,
	}, nil
}

func (s *Service) migrate(ctx context.Context, rep entity.SalesReport, byName map[string]entity.Branch) error {
	name := rep.BranchName()
	branch, ok := byName[name]
	if !ok {
		return common.NewAppError("UNKNOWN_BRANCH",
			fmt.Sprintf("sucursal no encontrada en la base: %q", name),
			common.ErrNotFound)
	}
	if rep.Professional == nil || rep.Professional.Name == "" {
		return common.NewAppError("MISSING_PROFESSIONAL",
			"cached report has no professional name", common.ErrInvalidInput)
	}

	prof, err := s.professionals.Upsert(ctx, rep.Professional.Name, branch.ID)
	if err != nil {
		return err
	}

	hosted := rep
	hosted.ID = ""
	hosted.ProfessionalID = prof.ID
	hosted.Status = constants.ReportStatusProcessed
	id, err := s.reports.Insert(ctx, &hosted)
	if err != nil {
		return err
	}
	if err := s.reports.InsertServiceLines(ctx, id, rep.Services); err != nil {
		return err
	}
	return nil
}
