// Package export renders monthly closing reports as plain text and XLSX.
package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sculptbody/cierre-backend/internal/entity"
	"github.com/sculptbody/cierre-backend/internal/stats"
)

var clp = message.NewPrinter(language.Spanish)

// FormatCLP renders an integer peso amount with Chilean thousands separators.
func FormatCLP(amount int64) string {
	return "$" + clp.Sprintf("%d", amount)
}

// RenderTXT produces the printable monthly closing summary handed to branch
// managers.
func RenderTXT(yearMonth string, reports []entity.SalesReport) string {
	sum := stats.Compute(reports)
	var b strings.Builder

	b.WriteString("=====================================\n")
	b.WriteString("    CIERRE MENSUAL DE VENTAS\n")
	fmt.Fprintf(&b, "    Período: %s\n", yearMonth)
	b.WriteString("=====================================\n\n")

	fmt.Fprintf(&b, "Reportes procesados:  %d\n", sum.ReportCount)
	fmt.Fprintf(&b, "Profesionales:        %d\n", sum.ProfessionalCount)
	fmt.Fprintf(&b, "Venta bruta total:    %s\n", FormatCLP(sum.TotalSales))
	fmt.Fprintf(&b, "Comisiones:           %s\n", FormatCLP(sum.TotalCommissions))
	fmt.Fprintf(&b, "Pagos netos:          %s\n\n", FormatCLP(sum.TotalNetPay))

	if len(sum.SalesByBranch) > 0 {
		b.WriteString("VENTAS POR SUCURSAL\n")
		b.WriteString("-------------------------------------\n")
		for _, bs := range sum.SalesByBranch {
			fmt.Fprintf(&b, "%-20s %s (%d reportes)\n", bs.Branch, FormatCLP(bs.Total), bs.Count)
		}
		b.WriteString("\n")
	}

	if len(sum.TopServices) > 0 {
		b.WriteString("SERVICIOS MÁS VENDIDOS\n")
		b.WriteString("-------------------------------------\n")
		for i, srv := range sum.TopServices {
			fmt.Fprintf(&b, "%d. %-25s x%-4d %s\n", i+1, srv.Name, srv.Quantity, FormatCLP(srv.Total))
		}
		b.WriteString("\n")
	}

	b.WriteString("DETALLE POR PROFESIONAL\n")
	b.WriteString("-------------------------------------\n")
	for _, rep := range reports {
		name := ""
		if rep.Professional != nil {
			name = rep.Professional.Name
		}
		fmt.Fprintf(&b, "%s (%s) - %s\n", name, rep.BranchName(), rep.ReportDate)
		fmt.Fprintf(&b, "  Venta bruta: %s | Comisión: %.1f%% | Pago neto: %s\n",
			FormatCLP(rep.GrossSales), rep.CommissionPercent, FormatCLP(rep.NetPay))
		for _, line := range rep.Services {
			fmt.Fprintf(&b, "    - %s x%d @ %s = %s\n",
				line.ServiceName, line.Quantity, FormatCLP(line.UnitPrice), FormatCLP(line.Subtotal))
		}
		b.WriteString("\n")
	}

	return b.String()
}
