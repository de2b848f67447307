package descriptor

import (
	"time"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
	"github.com/gencrud-dev/gencrud/internal/relation"
)

// readOnlyFormFields never appear in create/update forms regardless of the
// exclusion list: the identifier and the backend-managed timestamps.
var readOnlyFormFields = map[string]struct{}{
	"_id":        {},
	"createTime": {},
	"updateTime": {},
}

// requiredByDefault marks fields required unless an override says otherwise.
var requiredByDefault = map[string]struct{}{
	"name":     {},
	"username": {},
	"phone":    {},
}

// FormField is a derived form-field descriptor: the complete render plan for
// one input widget.
type FormField struct {
	Name      string                `json:"name"`
	Label     string                `json:"label"`
	Kind      fieldmeta.ControlKind `json:"valueType"`
	Required  bool                  `json:"required,omitempty"`
	Rules     []Rule                `json:"rules,omitempty"`
	ValueEnum []fieldmeta.Option    `json:"valueEnum,omitempty"`
	Relation  *relation.Config      `json:"relation,omitempty"`
	// Async marks selects whose options load at render time (relations).
	Async    bool   `json:"requestAsync,omitempty"`
	Renderer string `json:"renderer,omitempty"`
	// Passthrough tells the client to emit a hidden input bound to the same
	// path, because custom widgets render outside the controlled-input
	// wiring and would otherwise drop out of submission.
	Passthrough bool `json:"passthrough,omitempty"`
}

// Set bundles both derived descriptor lists for one entity.
type Set struct {
	Columns    []Column    `json:"columns"`
	FormFields []FormField `json:"formFields"`
}

// FormFields derives the form descriptors for the given metadata. Exclusion
// rules match Columns, plus identifier and immutable timestamp fields.
// Override-only fields are appended after all metadata-backed ones.
func FormFields(fields *fieldmeta.FieldMap, opts Options) []FormField {
	exclude := opts.excludeSet()

	out := make([]FormField, 0, fields.Len())
	for _, name := range fields.Names() {
		info, _ := fields.Get(name)
		if _, skip := exclude[name]; skip {
			continue
		}
		if name == versionMarkerField {
			continue
		}
		if _, ro := readOnlyFormFields[name]; ro {
			continue
		}
		_, isRelation := opts.Relations[name]
		if !isRelation && fieldmeta.IsComplexType(info.BackendType()) {
			continue
		}

		label := info.Description
		if label == "" {
			label = opts.title(name)
		}
		_, required := requiredByDefault[name]
		field := FormField{
			Name:     name,
			Label:    label,
			Kind:     fieldmeta.MapType(info.BackendType()),
			Required: required,
		}
		applyFormSpecials(&field, name, info, opts)

		if ov, ok := opts.Overrides[name]; ok {
			if ov.HideInForm != nil && *ov.HideInForm {
				continue
			}
			applyFormOverride(&field, ov)
		}
		finishRules(&field)
		out = append(out, field)
	}

	return append(out, extraFormFields(fields, exclude, opts)...)
}

func applyFormSpecials(field *FormField, name string, info fieldmeta.FieldInfo, opts Options) {
	if _, ok := imageFields[name]; ok {
		field.Kind = fieldmeta.KindImage
		return
	}
	if name == "gender" {
		field.Kind = fieldmeta.KindSelect
		field.ValueEnum = genderOptions
		return
	}
	if enum := fieldmeta.NormalizeEnum(info.EnumValues); enum != nil {
		field.Kind = fieldmeta.KindSelect
		field.ValueEnum = enum
		return
	}
	if rel, ok := opts.Relations[name]; ok {
		relCopy := rel
		field.Kind = fieldmeta.KindSelect
		field.Relation = &relCopy
		field.Async = true
	}
}

// applyFormOverride merges the patch; form overrides win over both automatic
// derivation and special-casing.
func applyFormOverride(field *FormField, ov Override) {
	if ov.Label != "" {
		field.Label = ov.Label
	}
	if ov.Kind != "" {
		field.Kind = ov.Kind
	}
	if ov.Required != nil {
		field.Required = *ov.Required
	}
	if len(ov.Rules) > 0 {
		field.Rules = ov.Rules
	}
	if len(ov.ValueEnum) > 0 {
		field.ValueEnum = ov.ValueEnum
	}
	if ov.FormRenderer != "" {
		field.Renderer = ov.FormRenderer
		field.Passthrough = true
	}
}

// finishRules fills in the default required rule when none was supplied.
func finishRules(field *FormField) {
	if field.Required && len(field.Rules) == 0 {
		field.Rules = []Rule{{Required: true, Message: "请输入" + field.Label}}
	}
}

// extraFormFields appends override-declared fields absent from the metadata.
func extraFormFields(fields *fieldmeta.FieldMap, exclude map[string]struct{}, opts Options) []FormField {
	var extras []FormField
	for _, name := range sortedOverrideNames(opts.Overrides) {
		if _, inMeta := fields.Get(name); inMeta {
			continue
		}
		if _, skip := exclude[name]; skip {
			continue
		}
		ov := opts.Overrides[name]
		if ov.HideInForm != nil && *ov.HideInForm {
			continue
		}
		field := FormField{
			Name:  name,
			Label: opts.title(name),
			Kind:  fieldmeta.KindText,
		}
		applyFormOverride(&field, ov)
		finishRules(&field)
		extras = append(extras, field)
	}
	return extras
}

// backend timestamp layouts seen in the wild, most specific first
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatInitialValues prepares a record for the update form: values for known
// fields are copied through, and date/time fields are normalized to RFC 3339
// so the client-side date widgets can parse them. The inverse conversion on
// submit is the backend contract, not handled here.
func FormatInitialValues(record map[string]any, fields []FormField) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, ok := record[f.Name]
		if !ok || v == nil {
			continue
		}
		if f.Kind == fieldmeta.KindDate || f.Kind == fieldmeta.KindDateTime {
			if s, ok := v.(string); ok {
				for _, layout := range timeLayouts {
					if ts, err := time.Parse(layout, s); err == nil {
						v = ts.Format(time.RFC3339)
						break
					}
				}
			}
		}
		out[f.Name] = v
	}
	return out
}
