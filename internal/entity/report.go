package entity

import "github.com/sculptbody/cierre-backend/constants"

// ServiceLine is one service/treatment row owned by a SalesReport. Subtotal
// is expected to equal Quantity × UnitPrice; the model is instructed to keep
// that invariant but it is not enforced here.
type ServiceLine struct {
	ReportID    string `json:"reporte_id,omitempty"`
	ServiceName string `json:"nombre_servicio"`
	Quantity    int    `json:"cantidad"`
	UnitPrice   int64  `json:"precio_unitario"`
	Subtotal    int64  `json:"subtotal"`
}

// SalesReport is one professional's monthly sales close. Amounts are integer
// CLP. CommissionPercent and NetPay are snapshots taken at capture time, not
// re-derived on read.
//
// A report is either demo-owned (local cache only, fabricated ids, estado
// "demo") or canonical (hosted store, estado "procesado"); never both.
// Promotion from demo to canonical happens only through reconciliation, and
// is a copy, not a move.
type SalesReport struct {
	ID                string                 `json:"id"`
	ProfessionalID    string                 `json:"profesional_id"`
	ReportDate        string                 `json:"fecha_reporte"` // YYYY-MM-DD
	GrossSales        int64                  `json:"total_venta_bruta"`
	CommissionPercent float64                `json:"comision_porcentaje"`
	NetPay            int64                  `json:"pago_neto"`
	ImageURL          string                 `json:"imagen_url,omitempty"`
	Status            constants.ReportStatus `json:"estado"`
	Professional      *Professional          `json:"profesional,omitempty"`
	Services          []ServiceLine          `json:"servicios"`
}

// BranchName resolves the report's branch name through the nested
// professional, or "" when offline data is incomplete.
func (r SalesReport) BranchName() string {
	if r.Professional != nil && r.Professional.Branch != nil {
		return r.Professional.Branch.Name
	}
	return ""
}
