package descriptor

import "github.com/gencrud-dev/gencrud/internal/fieldmeta"

// defaultSearchFieldCount is the default number of leading eligible fields
// shown in the search form. A policy parameter, not a hard invariant.
const defaultSearchFieldCount = 3

// sensitiveSearchFields are never auto-picked for the search form.
var sensitiveSearchFields = map[string]struct{}{
	"password": {},
	"openid":   {},
	"avatar":   {},
}

// SearchPolicy controls which columns appear in the search form. Zero value
// means "first N eligible fields". All wins over Fields.
type SearchPolicy struct {
	All    bool     `json:"all,omitempty" yaml:"all,omitempty"`
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// searchFields resolves the policy against the metadata.
func searchFields(fields *fieldmeta.FieldMap, exclude map[string]struct{}, pol SearchPolicy) map[string]struct{} {
	out := map[string]struct{}{}
	switch {
	case pol.All:
		for _, name := range fields.Names() {
			out[name] = struct{}{}
		}
	case len(pol.Fields) > 0:
		for _, name := range pol.Fields {
			out[name] = struct{}{}
		}
	default:
		count := 0
		for _, name := range fields.Names() {
			if count >= defaultSearchFieldCount {
				break
			}
			if _, skip := exclude[name]; skip {
				continue
			}
			if name == versionMarkerField {
				continue
			}
			info, _ := fields.Get(name)
			if fieldmeta.IsComplexType(info.BackendType()) {
				continue
			}
			if _, sensitive := sensitiveSearchFields[name]; sensitive {
				continue
			}
			out[name] = struct{}{}
			count++
		}
	}
	return out
}
