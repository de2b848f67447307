package descriptor

import (
	"sort"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
)

// Rule is one form validation rule.
type Rule struct {
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern  string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Override is a caller-supplied partial patch applied after automatic
// derivation. Fields are named and bounded; unknown keys in config files are
// rejected by the YAML decoder rather than merged silently.
type Override struct {
	Label string                `json:"label,omitempty" yaml:"label,omitempty"`
	Kind  fieldmeta.ControlKind `json:"valueType,omitempty" yaml:"valueType,omitempty"`

	Required *bool  `json:"required,omitempty" yaml:"required,omitempty"`
	Rules    []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`

	// ValueEnum replaces the derived option set outright.
	ValueEnum []fieldmeta.Option `json:"valueEnum,omitempty" yaml:"valueEnum,omitempty"`

	HideInSearch *bool `json:"hideInSearch,omitempty" yaml:"hideInSearch,omitempty"`
	HideInForm   *bool `json:"hideInForm,omitempty" yaml:"hideInForm,omitempty"`
	Width        *int  `json:"width,omitempty" yaml:"width,omitempty"`

	// FormRenderer names a client-side custom widget for the form. It never
	// leaks into table columns.
	FormRenderer string `json:"formRenderer,omitempty" yaml:"formRenderer,omitempty"`
	// TableRenderer names a client-side custom cell renderer; column
	// synthesis promotes it to the column's render slot.
	TableRenderer string `json:"tableRenderer,omitempty" yaml:"tableRenderer,omitempty"`
}

// sortedOverrideNames returns override keys in stable order so that appended
// extra fields keep an idempotent position.
func sortedOverrideNames(overrides map[string]Override) []string {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
