// Package descriptor synthesizes table-column and form-field descriptors
// from backend entity field metadata, exclusion lists, per-field overrides
// and relation declarations.
package descriptor

import (
	"fmt"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
	"github.com/gencrud-dev/gencrud/internal/relation"
)

// versionMarkerField is the serialization artifact every Java entity carries;
// it never renders.
const versionMarkerField = "serialVersionUID"

// Built-in renderer IDs understood by the console frontend.
const (
	RendererImage    = "image-thumbnail"
	RendererRelation = "relation-display"
)

// genderOptions is the fixed binary enum for fields literally named "gender",
// regardless of backend metadata.
var genderOptions = []fieldmeta.Option{
	{Value: int64(1), Text: "男"},
	{Value: int64(2), Text: "女"},
}

// imageFields get a thumbnail cell and an upload widget by name alone.
var imageFields = map[string]struct{}{
	"avatar":   {},
	"headImg":  {},
	"imageUrl": {},
}

// TitleFunc resolves a field name to a display label.
type TitleFunc func(string) string

// Options carries everything synthesis needs beyond the metadata itself.
type Options struct {
	Exclude   []string
	Overrides map[string]Override
	Relations map[string]relation.Config
	Search    SearchPolicy
	Titles    TitleFunc
}

func (o Options) title(name string) string {
	if o.Titles != nil {
		return o.Titles(name)
	}
	return fieldmeta.Title(name)
}

func (o Options) excludeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.Exclude))
	for _, name := range o.Exclude {
		set[name] = struct{}{}
	}
	return set
}

// Column is a derived table-column descriptor. Recomputed on every metadata
// fetch; owns no identity of its own.
type Column struct {
	Title        string                `json:"title"`
	DataIndex    string                `json:"dataIndex"`
	Key          string                `json:"key"`
	Kind         fieldmeta.ControlKind `json:"valueType"`
	Sorter       bool                  `json:"sorter"`
	HideInSearch bool                  `json:"hideInSearch"`
	Width        int                   `json:"width,omitempty"`
	ValueEnum    []fieldmeta.Option    `json:"valueEnum,omitempty"`
	Renderer     string                `json:"renderer,omitempty"`
	Relation     *relation.Config      `json:"relation,omitempty"`
}

// Columns derives the table columns for the given metadata. Output order is
// metadata order; override-only fields are appended last.
func Columns(fields *fieldmeta.FieldMap, opts Options) []Column {
	exclude := opts.excludeSet()
	searchable := searchFields(fields, exclude, opts.Search)

	columns := make([]Column, 0, fields.Len())
	for _, name := range fields.Names() {
		info, _ := fields.Get(name)
		if _, skip := exclude[name]; skip {
			continue
		}
		if name == versionMarkerField {
			continue
		}
		_, isRelation := opts.Relations[name]
		if !isRelation && fieldmeta.IsComplexType(info.BackendType()) {
			continue
		}

		col := Column{
			Title:     columnTitle(name, info, opts),
			DataIndex: name,
			Key:       name,
			Kind:      fieldmeta.MapType(info.BackendType()),
			Sorter:    true,
			Width:     columnWidth(name, fieldmeta.MapType(info.BackendType())),
		}
		if _, ok := searchable[name]; !ok {
			col.HideInSearch = true
		}

		if ov, ok := opts.Overrides[name]; ok {
			applyColumnOverride(&col, ov)
		}
		applyColumnSpecials(&col, name, info, opts)

		columns = append(columns, col)
	}

	return append(columns, extraColumns(fields, exclude, opts)...)
}

func columnTitle(name string, info fieldmeta.FieldInfo, opts Options) string {
	title := info.Description
	if title == "" {
		title = opts.title(name)
	}
	if ov, ok := opts.Overrides[name]; ok && ov.Label != "" {
		title = ov.Label
	}
	return title
}

// applyColumnOverride merges the bounded patch. Form-only keys (FormRenderer,
// Rules, Required, HideInForm) never reach the column; TableRenderer is
// promoted to the column's render slot.
func applyColumnOverride(col *Column, ov Override) {
	if ov.Kind != "" {
		col.Kind = ov.Kind
	}
	if len(ov.ValueEnum) > 0 {
		col.ValueEnum = ov.ValueEnum
	}
	if ov.HideInSearch != nil {
		col.HideInSearch = *ov.HideInSearch
	}
	if ov.Width != nil {
		col.Width = *ov.Width
	}
	if ov.TableRenderer != "" {
		col.Renderer = ov.TableRenderer
	}
}

func applyColumnSpecials(col *Column, name string, info fieldmeta.FieldInfo, opts Options) {
	if _, ok := imageFields[name]; ok {
		col.Kind = fieldmeta.KindImage
		col.Width = 80
		col.Renderer = RendererImage
		return
	}
	if name == "gender" {
		col.Kind = fieldmeta.KindSelect
		col.ValueEnum = genderOptions
		return
	}
	if enum := fieldmeta.NormalizeEnum(info.EnumValues); enum != nil {
		col.Kind = fieldmeta.KindSelect
		col.ValueEnum = enum
		return
	}
	if rel, ok := opts.Relations[name]; ok {
		relCopy := rel
		col.Kind = fieldmeta.KindText
		col.Relation = &relCopy
		col.Renderer = RendererRelation
	}
}

// extraColumns appends override-declared fields absent from the metadata, the
// supported way to introduce purely client-side columns.
func extraColumns(fields *fieldmeta.FieldMap, exclude map[string]struct{}, opts Options) []Column {
	var extras []Column
	for _, name := range sortedOverrideNames(opts.Overrides) {
		if _, inMeta := fields.Get(name); inMeta {
			continue
		}
		if _, skip := exclude[name]; skip {
			continue
		}
		ov := opts.Overrides[name]
		col := Column{
			Title:        opts.title(name),
			DataIndex:    name,
			Key:          name,
			Kind:         fieldmeta.KindText,
			HideInSearch: true,
		}
		applyColumnOverride(&col, ov)
		if ov.Label != "" {
			col.Title = ov.Label
		}
		extras = append(extras, col)
	}
	return extras
}

// CellValue renders the record's value for this column. Relation cells prefer
// the nested display-field value over the raw reference; missing values
// render as "-".
func (c Column) CellValue(record map[string]any) any {
	v, ok := record[c.DataIndex]
	if !ok || v == nil {
		return "-"
	}
	if c.Relation != nil {
		if nested, ok := v.(map[string]any); ok {
			if d, ok := nested[c.Relation.Display()]; ok && d != nil {
				return d
			}
			return "-"
		}
		// raw reference value; a nested record may ride along on the row
		// under the related entity's name
		if sibling, ok := record[c.Relation.EntityName].(map[string]any); ok {
			if d, ok := sibling[c.Relation.Display()]; ok && d != nil {
				return d
			}
		}
		return v
	}
	if len(c.ValueEnum) > 0 {
		key := fmt.Sprintf("%v", v)
		for _, opt := range c.ValueEnum {
			if fmt.Sprintf("%v", opt.Value) == key {
				return opt.Text
			}
		}
	}
	return v
}
