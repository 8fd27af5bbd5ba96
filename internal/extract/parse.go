package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sculptbody/cierre-backend/internal/common"
)

var reThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseReport turns free-form model output into a Report.
//
// Policy: strict JSON parse first; on failure, locate the first top-level
// object substring (models love wrapping JSON in markdown fences) and retry.
// The document is then leniently sanitized, validated against the schema, and
// minimally checked: a report without a professional name or without service
// lines fails the channel.
func ParseReport(raw []byte, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := decodeObject(raw)
	if err != nil {
		return nil, common.NewAppError("PARSE_NO_JSON", err.Error(), common.ErrParse)
	}

	cleaned, dropped, err := sanitizeReportJSON(doc)
	if err != nil {
		return nil, common.NewAppError("PARSE_SANITIZE", err.Error(), common.ErrParse)
	}
	if len(dropped) > 0 {
		logger.Warn("extract.parse.sanitized", "dropped", dropped)
	}

	if err := ValidateJSONAgainstSchema(BuildReportJSONSchema(), cleaned); err != nil {
		return nil, common.NewAppError("PARSE_SCHEMA", err.Error(), common.ErrParse)
	}

	var rep Report
	if err := json.Unmarshal(cleaned, &rep); err != nil {
		return nil, common.NewAppError("PARSE_UNMARSHAL", err.Error(), common.ErrParse)
	}

	if strings.TrimSpace(rep.ProfessionalName) == "" || len(rep.Services) == 0 {
		return nil, common.NewAppError("PARSE_INCOMPLETE",
			"missing professional name or service lines", common.ErrParse)
	}
	return &rep, nil
}

// decodeObject tries a strict parse of the whole payload, then falls back to
// the first '{' .. last '}' substring.
func decodeObject(raw []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &m); err == nil {
		return m, nil
	}

	i := bytes.IndexByte(raw, '{')
	j := bytes.LastIndexByte(raw, '}')
	if i < 0 || j <= i {
		return nil, fmt.Errorf("no JSON object found in model response")
	}
	if err := json.Unmarshal(raw[i:j+1], &m); err != nil {
		return nil, fmt.Errorf("embedded JSON object does not parse: %w", err)
	}
	return m, nil
}

// sanitizeReportJSON
// - drops nulls and unknown keys
// - coerces money/quantity fields to integers (floats rounded, CLP strings
//   like "11.930.000" de-formatted)
// - trims obvious strings
func sanitizeReportJSON(m map[string]any) ([]byte, []string, error) {
	var dropped []string

	allowed := map[string]struct{}{
		"nombre_profesional": {}, "servicios": {}, "total_venta": {},
		"fecha_reporte": {}, "notas": {},
	}
	for k, v := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if v == nil {
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		}
	}

	if v, ok := m["total_venta"]; ok {
		if n, ok := coerceInt(v); ok {
			m["total_venta"] = n
		} else {
			delete(m, "total_venta")
			dropped = append(dropped, "total_venta(type)")
		}
	}

	for _, k := range []string{"nombre_profesional", "fecha_reporte", "notas"} {
		if v, ok := m[k].(string); ok {
			s := strings.TrimSpace(v)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	if rawServices, ok := m["servicios"].([]any); ok {
		services := make([]any, 0, len(rawServices))
		for idx, sv := range rawServices {
			sm, ok := sv.(map[string]any)
			if !ok {
				dropped = append(dropped, fmt.Sprintf("servicios[%d](type)", idx))
				continue
			}
			svcAllowed := map[string]struct{}{
				"nombre": {}, "cantidad": {}, "precio_unitario": {}, "subtotal": {},
			}
			for k, v := range sm {
				if _, ok := svcAllowed[k]; !ok || v == nil {
					delete(sm, k)
					dropped = append(dropped, fmt.Sprintf("servicios[%d].%s", idx, k))
				}
			}
			for _, k := range []string{"cantidad", "precio_unitario", "subtotal"} {
				if v, ok := sm[k]; ok {
					if n, ok := coerceInt(v); ok {
						sm[k] = n
					} else {
						delete(sm, k)
						dropped = append(dropped, fmt.Sprintf("servicios[%d].%s(type)", idx, k))
					}
				}
			}
			services = append(services, sm)
		}
		m["servicios"] = services
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, dropped, nil
}

// coerceInt accepts JSON numbers and CLP-formatted strings.
func coerceInt(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(math.Round(t)), true
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, " ", "")
		if s == "" {
			return 0, false
		}
		// "11.930.000" is eleven million, not a decimal
		if reThousands.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(math.Round(f)), true
		}
		return 0, false
	default:
		return 0, false
	}
}
