package fieldmeta

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldMapPreservesOrder(t *testing.T) {
	raw := `{
		"nickname": {"type": "String", "description": "昵称"},
		"avatar": {"type": "String"},
		"gender": {"type": "Integer"},
		"_id": {"type": "String"},
		"createTime": {"type": "Date"}
	}`
	var m FieldMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"nickname", "avatar", "gender", "_id", "createTime"}
	if diff := cmp.Diff(want, m.Names()); diff != "" {
		t.Fatalf("order diff (-want +got)\n%s", diff)
	}
	info, ok := m.Get("nickname")
	if !ok || info.Description != "昵称" {
		t.Fatalf("nickname info = %+v", info)
	}
}

func TestFieldMapRoundTrip(t *testing.T) {
	m := NewFieldMap().
		Put("zeta", FieldInfo{Type: "String"}).
		Put("alpha", FieldInfo{Type: "Integer"}).
		Put("mid", FieldInfo{Type: "Date"})
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back FieldMap
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(m.Names(), back.Names()); diff != "" {
		t.Fatalf("order lost (-want +got)\n%s", diff)
	}
}

func TestFieldMapPutReplaceKeepsPosition(t *testing.T) {
	m := NewFieldMap().
		Put("a", FieldInfo{Type: "String"}).
		Put("b", FieldInfo{Type: "String"}).
		Put("a", FieldInfo{Type: "Integer"})
	if diff := cmp.Diff([]string{"a", "b"}, m.Names()); diff != "" {
		t.Fatalf("order diff (-want +got)\n%s", diff)
	}
	info, _ := m.Get("a")
	if info.Type != "Integer" {
		t.Fatalf("replace failed: %+v", info)
	}
}

func TestBackendTypePrefersTypeName(t *testing.T) {
	f := FieldInfo{Type: "String", TypeName: "java.lang.String"}
	if got := f.BackendType(); got != "java.lang.String" {
		t.Fatalf("BackendType = %q", got)
	}
	f = FieldInfo{Type: "Integer"}
	if got := f.BackendType(); got != "Integer" {
		t.Fatalf("BackendType = %q", got)
	}
}

func TestParseControlKind(t *testing.T) {
	if k := ParseControlKind("dateTime"); k != KindDateTime {
		t.Fatalf("dateTime -> %s", k)
	}
	if k := ParseControlKind("hologram"); k != KindText {
		t.Fatalf("unknown -> %s, want text", k)
	}
	if KindMoney.Valid() != true || ControlKind("nope").Valid() != false {
		t.Fatal("Valid misclassifies")
	}
}
