package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildReportJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We validate sanitized model output against it locally.
func BuildReportJSONSchema() map[string]any {
	serviceProps := map[string]any{
		"nombre":          map[string]any{"type": "string", "minLength": 1},
		"cantidad":        map[string]any{"type": "integer", "minimum": 1},
		"precio_unitario": map[string]any{"type": "integer", "minimum": 0},
		"subtotal":        map[string]any{"type": "integer", "minimum": 0},
	}

	props := map[string]any{
		"nombre_profesional": map[string]any{"type": "string", "minLength": 1},
		"servicios": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           serviceProps,
				"required":             []string{"nombre", "cantidad", "subtotal"},
			},
		},
		"total_venta":   map[string]any{"type": "integer", "minimum": 0},
		"fecha_reporte": map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"notas":         map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"nombre_profesional", "servicios", "total_venta"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
