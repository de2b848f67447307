package fieldmeta

import "strings"

// controlKinds maps backend primitive type names to control kinds. Lookup is
// exact and case-sensitive, fully-qualified names included.
var controlKinds = map[string]ControlKind{
	"String":           KindText,
	"string":           KindText,
	"java.lang.String": KindText,

	"Integer":           KindDigit,
	"int":               KindDigit,
	"java.lang.Integer": KindDigit,
	"Long":              KindDigit,
	"long":              KindDigit,
	"java.lang.Long":    KindDigit,
	"Double":            KindDigit,
	"double":            KindDigit,
	"Float":             KindDigit,
	"float":             KindDigit,
	"Short":             KindDigit,
	"short":             KindDigit,

	"Boolean":           KindSwitch,
	"boolean":           KindSwitch,
	"java.lang.Boolean": KindSwitch,

	"Date":                    KindDateTime,
	"date":                    KindDate,
	"DateTime":                KindDateTime,
	"dateTime":                KindDateTime,
	"Timestamp":               KindDateTime,
	"timestamp":               KindDateTime,
	"LocalDate":               KindDate,
	"java.time.LocalDate":     KindDate,
	"LocalDateTime":           KindDateTime,
	"java.time.LocalDateTime": KindDateTime,
	"java.sql.Timestamp":      KindDateTime,

	"BigDecimal":           KindMoney,
	"bigDecimal":           KindMoney,
	"java.math.BigDecimal": KindMoney,

	"Text": KindTextarea,
	"text": KindTextarea,
}

// MapType maps a backend type name to a control kind. Unknown types fall back
// to a plain text control.
func MapType(backendType string) ControlKind {
	if k, ok := controlKinds[backendType]; ok {
		return k
	}
	return KindText
}

// complexMarkers are substrings that flag a backend type as a nested object
// rather than a renderable scalar.
var complexMarkers = []string{"Community", "Entity", "Object"}

// IsComplexType reports whether the backend type name looks like a nested
// object type. Relation-declared fields bypass this heuristic.
func IsComplexType(backendType string) bool {
	for _, m := range complexMarkers {
		if strings.Contains(backendType, m) {
			return true
		}
	}
	return strings.HasPrefix(backendType, "com.example.") ||
		strings.HasPrefix(backendType, "org.")
}
