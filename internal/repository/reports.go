package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/entity"
)

type reportRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReportRepository(pool *pgxpool.Pool, logger *slog.Logger) ReportRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportRepository{pool: pool, logger: logger}
}

// UpsertByNaturalKey looks the row up by (profesional_id, fecha_reporte) and
// updates the financial fields in place, or inserts when absent. Line items
// from a previous save are left untouched on the update path.
func (r *reportRepository) UpsertByNaturalKey(ctx context.Context, rep *entity.SalesReport) (string, bool, error) {
	var existingID string
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM reportes_mensuales
		WHERE profesional_id = $1::uuid AND fecha_reporte = $2::date`,
		rep.ProfessionalID, rep.ReportDate,
	).Scan(&existingID)

	switch {
	case err == nil:
		_, err = r.pool.Exec(ctx, `
			UPDATE reportes_mensuales
			SET total_venta_bruta = $1,
			    comision_porcentaje = $2,
			    pago_neto = $3,
			    imagen_url = $4,
			    estado = $5
			WHERE id = $6::uuid`,
			rep.GrossSales, rep.CommissionPercent, rep.NetPay, rep.ImageURL, rep.Status, existingID)
		if err != nil {
			r.logger.Error("reports.update.failed", "report_id", existingID, "error", err)
			return "", false, common.NewAppError("REPORT_UPDATE", err.Error(), common.ErrStore)
		}
		return existingID, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		id, err := r.Insert(ctx, rep)
		return id, false, err
	default:
		r.logger.Error("reports.lookup.failed", "professional_id", rep.ProfessionalID, "error", err)
		return "", false, common.NewAppError("REPORT_LOOKUP", err.Error(), common.ErrStore)
	}
}

func (r *reportRepository) Insert(ctx context.Context, rep *entity.SalesReport) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reportes_mensuales
			(profesional_id, fecha_reporte, total_venta_bruta, comision_porcentaje, pago_neto, imagen_url, estado)
		VALUES ($1::uuid, $2::date, $3, $4, $5, $6, $7)
		RETURNING id`,
		rep.ProfessionalID, rep.ReportDate, rep.GrossSales, rep.CommissionPercent,
		rep.NetPay, rep.ImageURL, rep.Status,
	).Scan(&id)
	if err != nil {
		r.logger.Error("reports.insert.failed", "professional_id", rep.ProfessionalID, "error", err)
		return "", common.NewAppError("REPORT_INSERT", err.Error(), common.ErrStore)
	}
	return id, nil
}

func (r *reportRepository) InsertServiceLines(ctx context.Context, reportID string, lines []entity.ServiceLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO servicios_reporte (reporte_id, nombre_servicio, cantidad, precio_unitario, subtotal)
			VALUES ($1::uuid, $2, $3, $4, $5)`,
			reportID, l.ServiceName, l.Quantity, l.UnitPrice, l.Subtotal)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()
	for range lines {
		if _, err := br.Exec(); err != nil {
			r.logger.Error("reports.lines.insert.failed", "report_id", reportID, "error", err)
			return common.NewAppError("SERVICE_LINES_INSERT", err.Error(), common.ErrStore)
		}
	}
	return nil
}

func (r *reportRepository) ListByMonth(ctx context.Context, yearMonth string) ([]entity.SalesReport, error) {
	query := `
		SELECT r.id, r.profesional_id, r.fecha_reporte, r.total_venta_bruta,
		       r.comision_porcentaje, r.pago_neto, COALESCE(r.imagen_url, ''), r.estado,
		       p.nombre, s.id, s.nombre, s.comision_porcentaje
		FROM reportes_mensuales r
		JOIN profesionales p ON p.id = r.profesional_id
		JOIN sucursales s ON s.id = p.sucursal_id`
	args := []any{}
	if yearMonth != "" {
		first, last, err := entity.MonthWindow(yearMonth)
		if err != nil {
			return nil, common.NewAppError("INVALID_MONTH", err.Error(), common.ErrInvalidInput)
		}
		query += ` WHERE r.fecha_reporte >= $1::date AND r.fecha_reporte <= $2::date`
		args = append(args, first, last)
	}
	query += ` ORDER BY r.fecha_reporte DESC, r.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("reports.list.failed", "month", yearMonth, "error", err)
		return nil, common.NewAppError("REPORT_LIST", err.Error(), common.ErrStore)
	}
	defer rows.Close()

	var reports []entity.SalesReport
	index := map[string]int{}
	var ids []string
	for rows.Next() {
		var rep entity.SalesReport
		var date time.Time
		prof := entity.Professional{}
		branch := entity.Branch{}
		if err := rows.Scan(
			&rep.ID, &rep.ProfessionalID, &date, &rep.GrossSales,
			&rep.CommissionPercent, &rep.NetPay, &rep.ImageURL, &rep.Status,
			&prof.Name, &branch.ID, &branch.Name, &branch.CommissionPercent,
		); err != nil {
			return nil, err
		}
		rep.ReportDate = date.Format("2006-01-02")
		prof.ID = rep.ProfessionalID
		prof.BranchID = branch.ID
		prof.Branch = &branch
		rep.Professional = &prof
		rep.Services = []entity.ServiceLine{}
		index[rep.ID] = len(reports)
		ids = append(ids, rep.ID)
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []entity.SalesReport{}, nil
	}

	lineRows, err := r.pool.Query(ctx, `
		SELECT reporte_id, nombre_servicio, cantidad, precio_unitario, subtotal
		FROM servicios_reporte
		WHERE reporte_id = ANY($1)
		ORDER BY id`,
		ids)
	if err != nil {
		r.logger.Error("reports.lines.list.failed", "month", yearMonth, "error", err)
		return nil, common.NewAppError("SERVICE_LINES_LIST", err.Error(), common.ErrStore)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var l entity.ServiceLine
		if err := lineRows.Scan(&l.ReportID, &l.ServiceName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, err
		}
		if i, ok := index[l.ReportID]; ok {
			reports[i].Services = append(reports[i].Services, l)
		}
	}
	return reports, lineRows.Err()
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reportes_mensuales WHERE id = $1::uuid`, id)
	if err != nil {
		r.logger.Error("reports.delete.failed", "report_id", id, "error", err)
		return common.NewAppError("REPORT_DELETE", err.Error(), common.ErrStore)
	}
	if tag.RowsAffected() == 0 {
		return common.NewAppError("REPORT_NOT_FOUND", "report not found: "+id, common.ErrNotFound)
	}
	return nil
}
