package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

func report(profID, branch string, gross, net int64, lines ...entity.ServiceLine) entity.SalesReport {
	return entity.SalesReport{
		ProfessionalID: profID,
		GrossSales:     gross,
		NetPay:         net,
		Professional: &entity.Professional{
			Name:   "P " + profID,
			Branch: &entity.Branch{Name: branch},
		},
		Services: lines,
	}
}

func TestComputeTotals(t *testing.T) {
	reports := []entity.SalesReport{
		report("p1", "San Miguel", 60000, 58800,
			entity.ServiceLine{ServiceName: "Masaje", Quantity: 2, UnitPrice: 30000, Subtotal: 60000}),
		report("p2", "Las Condes", 100000, 98000,
			entity.ServiceLine{ServiceName: "Limpieza facial", Quantity: 1, UnitPrice: 100000, Subtotal: 100000}),
		report("p1", "San Miguel", 40000, 39200,
			entity.ServiceLine{ServiceName: "Masaje", Quantity: 1, UnitPrice: 40000, Subtotal: 40000}),
	}

	sum := Compute(reports)
	assert.Equal(t, int64(200000), sum.TotalSales)
	assert.Equal(t, int64(196000), sum.TotalNetPay)
	assert.Equal(t, int64(4000), sum.TotalCommissions)
	assert.Equal(t, 3, sum.ReportCount)
	assert.Equal(t, 2, sum.ProfessionalCount)

	require.Len(t, sum.SalesByBranch, 2)
	assert.Equal(t, "San Miguel", sum.SalesByBranch[0].Branch)
	assert.Equal(t, int64(100000), sum.SalesByBranch[0].Total)
	assert.Equal(t, 2, sum.SalesByBranch[0].Count)

	require.Len(t, sum.TopServices, 2)
	assert.Equal(t, "Masaje", sum.TopServices[0].Name)
	assert.Equal(t, 3, sum.TopServices[0].Quantity)
	assert.Equal(t, int64(100000), sum.TopServices[0].Total)
}

func TestComputeTopServicesCapped(t *testing.T) {
	var reports []entity.SalesReport
	for i := 0; i < 8; i++ {
		reports = append(reports, report("p1", "San Miguel", 1000, 980,
			entity.ServiceLine{
				ServiceName: fmt.Sprintf("Servicio %d", i),
				Quantity:    1,
				Subtotal:    int64(1000 * (i + 1)),
			}))
	}
	sum := Compute(reports)
	require.Len(t, sum.TopServices, 5)
	assert.Equal(t, "Servicio 7", sum.TopServices[0].Name)
	assert.Equal(t, int64(8000), sum.TopServices[0].Total)
}

func TestComputeEmpty(t *testing.T) {
	sum := Compute(nil)
	assert.Zero(t, sum.TotalSales)
	assert.Empty(t, sum.SalesByBranch)
	assert.Empty(t, sum.TopServices)
	assert.Zero(t, sum.ProfessionalCount)
}
