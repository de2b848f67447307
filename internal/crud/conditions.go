package crud

import (
	"strings"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
)

// BuildConditions merges the entity's fixed filter with user-supplied search
// parameters. The filter is applied first and cannot be overridden by user
// input. String-typed fields match fuzzily ($like), known non-string fields
// exactly; fields absent from the metadata default to fuzzy (free-text
// search inputs).
func BuildConditions(fields *fieldmeta.FieldMap, filter, params map[string]any) map[string]any {
	conditions := map[string]any{}
	for key, v := range filter {
		if empty(v) {
			continue
		}
		conditions[key] = v
	}
	for key, v := range params {
		if empty(v) {
			continue
		}
		if _, fixed := conditions[key]; fixed {
			continue
		}
		info, known := fields.Get(key)
		switch {
		case !known:
			conditions[key] = map[string]any{"$like": v}
		case isStringType(info.BackendType()):
			conditions[key] = map[string]any{"$like": v}
		default:
			conditions[key] = v
		}
	}
	return conditions
}

func isStringType(typeName string) bool {
	return strings.Contains(typeName, "String") || typeName == "string"
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
