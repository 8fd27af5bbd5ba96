package extract

import "context"

// Image is one photographed monthly sales report, validated before it gets
// here.
type Image struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Service is one extracted service/treatment row. Amounts are integer CLP;
// the prompt instructs the model to resolve thousands-separator ambiguity.
type Service struct {
	Name      string `json:"nombre"`
	Quantity  int    `json:"cantidad"`
	UnitPrice int64  `json:"precio_unitario"`
	Subtotal  int64  `json:"subtotal"`
}

// Report is the normalized shape we want from the model.
type Report struct {
	ProfessionalName string    `json:"nombre_profesional"`
	Services         []Service `json:"servicios"`
	TotalSales       int64     `json:"total_venta"`
	ReportDate       string    `json:"fecha_reporte,omitempty"` // YYYY-MM-DD, may be absent
	Notes            string    `json:"notas,omitempty"`
}

// Channel is one concrete way to reach a multimodal model: a (model id, API
// version) pair on one provider. The client tries channels in order; a
// channel failure is recorded and never surfaced past the fallback loop.
type Channel interface {
	Name() string
	AttemptExtract(ctx context.Context, img Image) (*Report, error)
}

// Extractor is the interface the batch orchestrator depends on.
type Extractor interface {
	Extract(ctx context.Context, img Image) (*Report, error)
}
