package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/localcache"
)

type stubBranches struct {
	list []entity.Branch
	err  error
}

func (s *stubBranches) List(_ context.Context) ([]entity.Branch, error) { return s.list, s.err }
func (s *stubBranches) ListOrFallback(_ context.Context) []entity.Branch {
	if s.err != nil || len(s.list) == 0 {
		return entity.FallbackBranches()
	}
	return s.list
}

type stubProfessionals struct{ upserts int }

func (s *stubProfessionals) Upsert(_ context.Context, name, branchID string) (*entity.Professional, error) {
	s.upserts++
	return &entity.Professional{ID: "prof-1", Name: name, BranchID: branchID}, nil
}

type stubReports struct {
	inserted []*entity.SalesReport
	lines    int
}

func (s *stubReports) UpsertByNaturalKey(_ context.Context, rep *entity.SalesReport) (string, bool, error) {
	return "", false, errors.New("not used by reconciliation")
}

func (s *stubReports) Insert(_ context.Context, rep *entity.SalesReport) (string, error) {
	s.inserted = append(s.inserted, rep)
	return "rep-new", nil
}

func (s *stubReports) InsertServiceLines(_ context.Context, _ string, lines []entity.ServiceLine) error {
	s.lines += len(lines)
	return nil
}

func (s *stubReports) ListByMonth(_ context.Context, _ string) ([]entity.SalesReport, error) {
	return nil, nil
}

func (s *stubReports) Delete(_ context.Context, _ string) error { return nil }

func cachedReport(id, branchName string) entity.SalesReport {
	return entity.SalesReport{
		ID:                id,
		ReportDate:        "2025-06-30",
		GrossSales:        60000,
		CommissionPercent: 2.0,
		NetPay:            58800,
		Status:            constants.ReportStatusDemo,
		Professional: &entity.Professional{
			Name:   "Ana Pérez",
			Branch: &entity.Branch{ID: "suc-1", Name: branchName, CommissionPercent: 2.0},
		},
		Services: []entity.ServiceLine{
			{ServiceName: "Masaje", Quantity: 2, UnitPrice: 30000, Subtotal: 60000},
		},
	}
}

func hostedBranches() []entity.Branch {
	return []entity.Branch{
		{ID: "7b0c1f34-0000-0000-0000-000000000001", Name: "San Miguel", CommissionPercent: 2.0},
		{ID: "7b0c1f34-0000-0000-0000-000000000002", Name: "Las Condes", CommissionPercent: 2.0},
	}
}

func TestRunMovesMatchesAndCountsFailures(t *testing.T) {
	cache := localcache.NewMemory(
		cachedReport("a", "San Miguel"),
		cachedReport("b", "Las Condes"),
		cachedReport("c", "Sucursal Fantasma"),
	)
	profs := &stubProfessionals{}
	reps := &stubReports{}
	svc := NewService(&stubBranches{list: hostedBranches()}, profs, reps, cache, false, nil)

	out, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Equal(t, 2, out.MovedCount)
	assert.Equal(t, 1, out.FailedCount)
	assert.Equal(t, 2, profs.upserts)
	require.Len(t, reps.inserted, 2)
	assert.Equal(t, constants.ReportStatusProcessed, reps.inserted[0].Status)
	assert.Equal(t, "prof-1", reps.inserted[0].ProfessionalID)
	assert.Equal(t, 2, reps.lines)

	// purge disabled: cache untouched, failed entry included
	got, err := cache.Read(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRunEmptyCacheIsNoop(t *testing.T) {
	reps := &stubReports{}
	svc := NewService(&stubBranches{list: hostedBranches()}, &stubProfessionals{}, reps, localcache.NewMemory(), false, nil)

	out, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Zero(t, out.MovedCount)
	assert.Empty(t, reps.inserted)
}

func TestRunPurgeKeepsOnlyFailures(t *testing.T) {
	cache := localcache.NewMemory(
		cachedReport("a", "San Miguel"),
		cachedReport("c", "Sucursal Fantasma"),
	)
	svc := NewService(&stubBranches{list: hostedBranches()}, &stubProfessionals{}, &stubReports{}, cache, true, nil)

	out, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, out.MovedCount)
	assert.Equal(t, 1, out.FailedCount)

	got, err := cache.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestRunBranchListErrorAborts(t *testing.T) {
	cache := localcache.NewMemory(cachedReport("a", "San Miguel"))
	svc := NewService(&stubBranches{err: errors.New("timeout")}, &stubProfessionals{}, &stubReports{}, cache, false, nil)

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}

func TestRunAlwaysInsertsEvenWhenRowExists(t *testing.T) {
	// running twice on the same cache inserts twice; dedup is deliberately
	// not attempted here
	cache := localcache.NewMemory(cachedReport("a", "San Miguel"))
	reps := &stubReports{}
	svc := NewService(&stubBranches{list: hostedBranches()}, &stubProfessionals{}, reps, cache, false, nil)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	_, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, reps.inserted, 2)
}
