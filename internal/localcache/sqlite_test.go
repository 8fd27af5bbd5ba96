package localcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sculptbody/cierre-backend/constants"
	"github.com/sculptbody/cierre-backend/internal/entity"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.db")
	s, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()

	// empty slot reads as an empty list, not an error
	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	reports := []entity.SalesReport{
		{
			ID:                "abc123xyz",
			ProfessionalID:    constants.DemoProfessionalPrefix + "a1b2c",
			ReportDate:        "2025-06-30",
			GrossSales:        60000,
			CommissionPercent: 2.0,
			NetPay:            58800,
			Status:            constants.ReportStatusDemo,
			Professional: &entity.Professional{
				Name:   "Ana Pérez",
				Branch: &entity.Branch{ID: "suc-1", Name: "San Miguel", CommissionPercent: 2.0},
			},
			Services: []entity.ServiceLine{
				{ServiceName: "Masaje", Quantity: 2, UnitPrice: 30000, Subtotal: 60000},
			},
		},
	}
	require.NoError(t, s.Write(ctx, reports))

	got, err = s.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, reports[0].ID, got[0].ID)
	assert.Equal(t, "San Miguel", got[0].BranchName())
	assert.Equal(t, int64(58800), got[0].NetPay)

	// wholesale overwrite, not append
	require.NoError(t, s.Write(ctx, nil))
	got, err = s.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
