package crud

import (
	"strconv"
	"strings"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
)

// Coerce converts submitted form values to the types the backend expects,
// keyed by each field's backend type name. Values that fail to parse pass
// through unchanged and are left to backend validation.
func Coerce(fields *fieldmeta.FieldMap, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, v := range values {
		out[name] = coerceValue(fields, name, v)
	}
	return out
}

func coerceValue(fields *fieldmeta.FieldMap, name string, v any) any {
	if v == nil || v == "" {
		return v
	}
	info, ok := fields.Get(name)
	if !ok {
		return v
	}
	typeName := info.BackendType()

	// BigDecimal is serialized as a string with at least one decimal place
	// ("12.0"), matching the backend's JSON binding.
	if strings.Contains(typeName, "BigDecimal") {
		if n, ok := toFloat(v); ok {
			if n == float64(int64(n)) {
				return strconv.FormatFloat(n, 'f', 1, 64)
			}
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		return v
	}
	if strings.Contains(typeName, "Integer") || strings.Contains(typeName, "int") {
		if n, ok := toFloat(v); ok {
			return int64(n)
		}
		return v
	}
	if strings.Contains(typeName, "Double") ||
		strings.Contains(typeName, "Float") ||
		strings.Contains(typeName, "Long") {
		if n, ok := toFloat(v); ok {
			return n
		}
		return v
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
