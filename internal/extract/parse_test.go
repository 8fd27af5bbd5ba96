package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodReport = `{
	"nombre_profesional": "Ana Pérez",
	"servicios": [
		{"nombre": "Masaje", "cantidad": 2, "precio_unitario": 30000, "subtotal": 60000}
	],
	"total_venta": 60000,
	"fecha_reporte": "2025-06-30",
	"notas": null
}`

func TestParseReportStrict(t *testing.T) {
	rep, err := ParseReport([]byte(goodReport), nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", rep.ProfessionalName)
	assert.Equal(t, int64(60000), rep.TotalSales)
	assert.Equal(t, "2025-06-30", rep.ReportDate)
	require.Len(t, rep.Services, 1)
	assert.Equal(t, "Masaje", rep.Services[0].Name)
	assert.Equal(t, 2, rep.Services[0].Quantity)
	assert.Equal(t, int64(30000), rep.Services[0].UnitPrice)
	assert.Equal(t, int64(60000), rep.Services[0].Subtotal)
}

func TestParseReportMarkdownFenced(t *testing.T) {
	wrapped := "Aquí está el JSON solicitado:\n```json\n" + goodReport + "\n```\ngracias"
	rep, err := ParseReport([]byte(wrapped), nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", rep.ProfessionalName)
	assert.Equal(t, int64(60000), rep.TotalSales)
}

func TestParseReportCoercesFormattedNumbers(t *testing.T) {
	raw := `{
		"nombre_profesional": "Carla Soto",
		"servicios": [
			{"nombre": "Radiofrecuencia", "cantidad": 1, "precio_unitario": "11.930.000", "subtotal": "11.930.000"}
		],
		"total_venta": 11930000.0
	}`
	rep, err := ParseReport([]byte(raw), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(11930000), rep.TotalSales)
	assert.Equal(t, int64(11930000), rep.Services[0].Subtotal)
}

func TestParseReportDropsUnknownKeys(t *testing.T) {
	raw := `{
		"nombre_profesional": "Ana Pérez",
		"servicios": [{"nombre": "Masaje", "cantidad": 1, "precio_unitario": 30000, "subtotal": 30000, "moneda": "CLP"}],
		"total_venta": 30000,
		"confianza": 0.9
	}`
	rep, err := ParseReport([]byte(raw), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), rep.TotalSales)
}

func TestParseReportMissingProfessional(t *testing.T) {
	raw := `{"servicios": [{"nombre": "Masaje", "cantidad": 1, "subtotal": 30000}], "total_venta": 30000}`
	_, err := ParseReport([]byte(raw), nil)
	assert.Error(t, err)
}

func TestParseReportEmptyServices(t *testing.T) {
	raw := `{"nombre_profesional": "Ana", "servicios": [], "total_venta": 0}`
	_, err := ParseReport([]byte(raw), nil)
	assert.Error(t, err)
}

func TestParseReportNoJSON(t *testing.T) {
	_, err := ParseReport([]byte("lo siento, no puedo leer la imagen"), nil)
	assert.Error(t, err)
}
