package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

// RenderXLSX returns an XLSX workbook with one row per report and the line
// items flattened into a services column.
func RenderXLSX(yearMonth string, reports []entity.SalesReport, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Cierre"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	defaultSheet := "Sheet1"
	if idx, _ := f.GetSheetIndex(defaultSheet); idx != -1 && defaultSheet != sheet {
		_ = f.DeleteSheet(defaultSheet)
	}

	headers := []string{
		"Fecha",
		"Profesional",
		"Sucursal",
		"Venta Bruta",
		"Comisión %",
		"Pago Neto",
		"Estado",
		"Servicios",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range reports {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		name := ""
		if r.Professional != nil {
			name = r.Professional.Name
		}
		services := ""
		for i, line := range r.Services {
			if i > 0 {
				services += "; "
			}
			services += fmt.Sprintf("%s x%d", line.ServiceName, line.Quantity)
		}

		write(1, r.ReportDate)
		write(2, name)
		write(3, r.BranchName())
		write(4, r.GrossSales)
		write(5, r.CommissionPercent)
		write(6, r.NetPay)
		write(7, string(r.Status))
		write(8, services)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "C", 24)
	_ = f.SetColWidth(sheet, "D", "F", 14)
	_ = f.SetColWidth(sheet, "G", "G", 10)
	_ = f.SetColWidth(sheet, "H", "H", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"month", yearMonth,
		"rows", len(reports),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
