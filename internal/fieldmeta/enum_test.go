package fieldmeta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeEnumSlice(t *testing.T) {
	raw := []any{
		map[string]any{"value": float64(0), "label": "禁用"},
		map[string]any{"value": float64(1), "text": "启用", "status": "Success"},
		map[string]any{"value": "archived"},
	}
	got := NormalizeEnum(raw)
	want := []Option{
		{Value: float64(0), Text: "禁用"},
		{Value: float64(1), Text: "启用", Status: "Success"},
		{Value: "archived", Text: "archived"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options diff (-want +got)\n%s", diff)
	}
}

func TestNormalizeEnumSliceScalars(t *testing.T) {
	got := NormalizeEnum([]any{"a", "b"})
	want := []Option{{Value: "a", Text: "a"}, {Value: "b", Text: "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options diff (-want +got)\n%s", diff)
	}
}

func TestNormalizeEnumMap(t *testing.T) {
	raw := map[string]any{"10": "ten", "2": "two", "1": "one"}
	got := NormalizeEnum(raw)
	// numeric keys sort numerically, not lexically
	want := []Option{
		{Value: int64(1), Text: "one"},
		{Value: int64(2), Text: "two"},
		{Value: int64(10), Text: "ten"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options diff (-want +got)\n%s", diff)
	}
}

func TestNormalizeEnumMapStringKeys(t *testing.T) {
	raw := map[string]any{"open": "开启", "closed": "关闭"}
	got := NormalizeEnum(raw)
	want := []Option{
		{Value: "closed", Text: "关闭"},
		{Value: "open", Text: "开启"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options diff (-want +got)\n%s", diff)
	}
}

func TestNormalizeEnumDeterministic(t *testing.T) {
	raw := map[string]any{"3": "c", "1": "a", "2": "b"}
	first := NormalizeEnum(raw)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, NormalizeEnum(raw)); diff != "" {
			t.Fatalf("iteration %d differs (-first +now)\n%s", i, diff)
		}
	}
}

func TestNormalizeEnumNil(t *testing.T) {
	if got := NormalizeEnum(nil); got != nil {
		t.Fatalf("nil input -> %v", got)
	}
	if got := NormalizeEnum(42); got != nil {
		t.Fatalf("scalar input -> %v", got)
	}
}
