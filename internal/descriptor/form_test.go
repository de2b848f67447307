package descriptor

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
	"github.com/gencrud-dev/gencrud/internal/relation"
)

func formNames(fields []FormField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func formFixture() *fieldmeta.FieldMap {
	return fieldmeta.NewFieldMap().
		Put("_id", fieldmeta.FieldInfo{Type: "String"}).
		Put("name", fieldmeta.FieldInfo{Type: "String", Description: "名称"}).
		Put("age", fieldmeta.FieldInfo{Type: "Integer"}).
		Put("balance", fieldmeta.FieldInfo{Type: "BigDecimal"}).
		Put("community", fieldmeta.FieldInfo{TypeName: "com.example.wq.entity.WqCommunity"}).
		Put("createTime", fieldmeta.FieldInfo{Type: "Date"}).
		Put("updateTime", fieldmeta.FieldInfo{Type: "Date"})
}

func TestFormFieldsSkipsReadOnly(t *testing.T) {
	fields := FormFields(formFixture(), Options{})
	want := []string{"name", "age", "balance"}
	if diff := cmp.Diff(want, formNames(fields)); diff != "" {
		t.Fatalf("fields diff (-want +got)\n%s", diff)
	}
}

func TestFormFieldsNameAgeScenario(t *testing.T) {
	fields := FormFields(formFixture(), Options{})
	byName := map[string]FormField{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	name := byName["name"]
	if name.Label != "名称" || name.Kind != fieldmeta.KindText || !name.Required {
		t.Fatalf("name field = %+v", name)
	}
	wantRules := []Rule{{Required: true, Message: "请输入名称"}}
	if diff := cmp.Diff(wantRules, name.Rules); diff != "" {
		t.Fatalf("name rules diff (-want +got)\n%s", diff)
	}

	age := byName["age"]
	if age.Kind != fieldmeta.KindDigit || age.Required || len(age.Rules) != 0 {
		t.Fatalf("age field = %+v", age)
	}

	balance := byName["balance"]
	if balance.Kind != fieldmeta.KindMoney {
		t.Fatalf("balance field = %+v", balance)
	}
}

func TestFormFieldsOverrideWinsOverSpecials(t *testing.T) {
	meta := fieldmeta.NewFieldMap().
		Put("gender", fieldmeta.FieldInfo{Type: "Integer"})
	custom := []fieldmeta.Option{{Value: int64(0), Text: "未知"}}
	fields := FormFields(meta, Options{Overrides: map[string]Override{
		"gender": {ValueEnum: custom, Kind: fieldmeta.KindSlider},
	}})
	if len(fields) != 1 {
		t.Fatalf("fields = %+v", fields)
	}
	g := fields[0]
	if g.Kind != fieldmeta.KindSlider {
		t.Fatalf("override kind lost: %s", g.Kind)
	}
	if diff := cmp.Diff(custom, g.ValueEnum); diff != "" {
		t.Fatalf("override enum lost (-want +got)\n%s", diff)
	}
}

func TestFormFieldsHideInForm(t *testing.T) {
	hide := true
	fields := FormFields(formFixture(), Options{Overrides: map[string]Override{
		"age": {HideInForm: &hide},
	}})
	for _, f := range fields {
		if f.Name == "age" {
			t.Fatal("hidden field rendered")
		}
	}
}

func TestFormFieldsRequiredOverride(t *testing.T) {
	off := false
	on := true
	fields := FormFields(formFixture(), Options{Overrides: map[string]Override{
		"name": {Required: &off},
		"age":  {Required: &on},
	}})
	for _, f := range fields {
		switch f.Name {
		case "name":
			if f.Required {
				t.Error("name should not be required")
			}
		case "age":
			if !f.Required {
				t.Error("age should be required")
			}
			if len(f.Rules) != 1 || f.Rules[0].Message == "" {
				t.Errorf("age rules = %+v", f.Rules)
			}
		}
	}
}

func TestFormFieldsCustomRenderer(t *testing.T) {
	fields := FormFields(formFixture(), Options{Overrides: map[string]Override{
		"balance": {FormRenderer: "money-input"},
	}})
	for _, f := range fields {
		if f.Name != "balance" {
			continue
		}
		if f.Renderer != "money-input" || !f.Passthrough {
			t.Fatalf("balance field = %+v", f)
		}
		return
	}
	t.Fatal("balance field missing")
}

func TestFormFieldsRelationSelect(t *testing.T) {
	rel := relation.Config{EntityClassName: "WqCommunity", EntityName: "community", AutoFill: map[string]string{"communityName": "name"}}
	fields := FormFields(formFixture(), Options{Relations: map[string]relation.Config{"community": rel}})
	for _, f := range fields {
		if f.Name != "community" {
			continue
		}
		if f.Kind != fieldmeta.KindSelect || !f.Async || f.Relation == nil {
			t.Fatalf("community field = %+v", f)
		}
		return
	}
	t.Fatal("relation field missing from form")
}

func TestFormFieldsOverrideOnlyAppended(t *testing.T) {
	fields := FormFields(formFixture(), Options{Overrides: map[string]Override{
		"inviteCode": {Label: "邀请码"},
	}})
	last := fields[len(fields)-1]
	if last.Name != "inviteCode" || last.Label != "邀请码" || last.Kind != fieldmeta.KindText {
		t.Fatalf("extra field = %+v", last)
	}
}

func TestFormatInitialValues(t *testing.T) {
	fields := []FormField{
		{Name: "name", Kind: fieldmeta.KindText},
		{Name: "birthDate", Kind: fieldmeta.KindDate},
		{Name: "createTime", Kind: fieldmeta.KindDateTime},
	}
	record := map[string]any{
		"name":       "张三",
		"birthDate":  "1990-05-01",
		"createTime": "2024-01-02 15:04:05",
		"ignored":    "x",
	}
	got := FormatInitialValues(record, fields)
	if got["name"] != "张三" {
		t.Errorf("name = %v", got["name"])
	}
	if got["birthDate"] != "1990-05-01T00:00:00Z" {
		t.Errorf("birthDate = %v", got["birthDate"])
	}
	if got["createTime"] != "2024-01-02T15:04:05Z" {
		t.Errorf("createTime = %v", got["createTime"])
	}
	if _, ok := got["ignored"]; ok {
		t.Error("unknown field copied")
	}
}
