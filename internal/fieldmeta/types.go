package fieldmeta

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ControlKind is the abstract UI widget category a field maps to. The set is
// closed; values outside it never leave this package.
type ControlKind string

const (
	KindText     ControlKind = "text"
	KindPassword ControlKind = "password"
	KindTextarea ControlKind = "textarea"
	KindDigit    ControlKind = "digit"
	KindMoney    ControlKind = "money"
	KindDate     ControlKind = "date"
	KindDateTime ControlKind = "dateTime"
	KindSwitch   ControlKind = "switch"
	KindSelect   ControlKind = "select"
	KindImage    ControlKind = "image"
	KindSlider   ControlKind = "slider"
)

var kinds = map[ControlKind]struct{}{
	KindText: {}, KindPassword: {}, KindTextarea: {}, KindDigit: {},
	KindMoney: {}, KindDate: {}, KindDateTime: {}, KindSwitch: {},
	KindSelect: {}, KindImage: {}, KindSlider: {},
}

// Valid reports whether k is one of the known control kinds.
func (k ControlKind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// ParseControlKind returns the kind named by s, or KindText for anything
// unknown. Absence of a match is the default case, not a failure.
func ParseControlKind(s string) ControlKind {
	k := ControlKind(s)
	if k.Valid() {
		return k
	}
	return KindText
}

// FieldInfo describes one backend entity field as returned by the
// entity-fields metadata endpoint.
type FieldInfo struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	TypeName    string `json:"typeName,omitempty"`
	Description string `json:"description,omitempty"`
	EnumType    string `json:"enumType,omitempty"`
	EnumValues  any    `json:"enumValues,omitempty"`
}

// BackendType returns the effective backend type name, preferring the
// fully-qualified TypeName over the short Type.
func (f FieldInfo) BackendType() string {
	if f.TypeName != "" {
		return f.TypeName
	}
	return f.Type
}

// FieldMap holds the field metadata of one entity class. JSON objects carry
// the backend's field order, which descriptor synthesis must preserve, so the
// map keeps an explicit name slice alongside the lookup index.
type FieldMap struct {
	names  []string
	fields map[string]FieldInfo
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{fields: map[string]FieldInfo{}}
}

// Put inserts or replaces a field, appending to the order on first insert.
func (m *FieldMap) Put(name string, info FieldInfo) *FieldMap {
	if m.fields == nil {
		m.fields = map[string]FieldInfo{}
	}
	if _, ok := m.fields[name]; !ok {
		m.names = append(m.names, name)
	}
	m.fields[name] = info
	return m
}

// Get returns the field info for name.
func (m *FieldMap) Get(name string) (FieldInfo, bool) {
	if m == nil {
		return FieldInfo{}, false
	}
	f, ok := m.fields[name]
	return f, ok
}

// Names returns field names in backend order.
func (m *FieldMap) Names() []string {
	if m == nil {
		return nil
	}
	return m.names
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// UnmarshalJSON decodes an object of name → FieldInfo preserving key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	m.names = nil
	m.fields = map[string]FieldInfo{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fieldmeta: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fieldmeta: non-string key %v", keyTok)
		}
		var info FieldInfo
		if err := dec.Decode(&info); err != nil {
			return fmt.Errorf("fieldmeta: field %s: %w", name, err)
		}
		m.Put(name, info)
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON encodes the map in backend order.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.fields[name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
