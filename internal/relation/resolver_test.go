package relation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gencrud-dev/gencrud/internal/entity"
)

type fakeQuerier struct {
	page entity.Page
	err  error
	last entity.Query
}

func (f *fakeQuerier) Query(ctx context.Context, name string, q entity.Query) (entity.Page, error) {
	f.last = q
	if f.err != nil {
		return entity.Page{}, f.err
	}
	return f.page, nil
}

func testResolver(q Querier) *Resolver {
	return NewResolver(q, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOptions(t *testing.T) {
	q := &fakeQuerier{page: entity.Page{Content: []map[string]any{
		{"_id": "c1", "name": "示范社区"},
		{"_id": "c2", "name": ""},
	}}}
	r := testResolver(q)
	opts, err := r.Options(context.Background(), Config{EntityClassName: "WqCommunity", EntityName: "community"})
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	want := []Option{
		{Label: "示范社区", Value: "c1"},
		{Label: "c2", Value: "c2"}, // empty display falls back to the value
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options diff (-want +got)\n%s", diff)
	}
	if q.last.PageSize != 1000 {
		t.Fatalf("page size = %d", q.last.PageSize)
	}
}

func TestOptionsFailureYieldsEmptyList(t *testing.T) {
	q := &fakeQuerier{err: errors.New("down")}
	r := testResolver(q)
	opts, err := r.Options(context.Background(), Config{EntityName: "community"})
	if err == nil {
		t.Fatal("expected error")
	}
	if opts == nil || len(opts) != 0 {
		t.Fatalf("opts = %v, want empty non-nil", opts)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}
	if c.Display() != "name" || c.Value() != "_id" {
		t.Fatalf("defaults = %s/%s", c.Display(), c.Value())
	}
	c = Config{DisplayField: "title", ValueField: "code"}
	if c.Display() != "title" || c.Value() != "code" {
		t.Fatalf("explicit = %s/%s", c.Display(), c.Value())
	}
}

func TestResolveAndAutoFill(t *testing.T) {
	q := &fakeQuerier{page: entity.Page{Content: []map[string]any{
		{"_id": "c1", "name": "示范社区", "region": "华东"},
	}}}
	r := testResolver(q)
	cfg := Config{
		EntityName: "community",
		AutoFill:   map[string]string{"communityName": "name", "communityRegion": "region"},
	}
	rec, patch, err := r.Resolve(context.Background(), cfg, "c1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec["name"] != "示范社区" {
		t.Fatalf("record = %v", rec)
	}
	wantPatch := map[string]any{"communityName": "示范社区", "communityRegion": "华东"}
	if diff := cmp.Diff(wantPatch, patch); diff != "" {
		t.Fatalf("patch diff (-want +got)\n%s", diff)
	}
	wantCond := map[string]any{"_id": "c1"}
	if diff := cmp.Diff(wantCond, q.last.Conditions); diff != "" {
		t.Fatalf("conditions diff (-want +got)\n%s", diff)
	}
}

func TestResolveNotFound(t *testing.T) {
	q := &fakeQuerier{page: entity.Page{}}
	r := testResolver(q)
	rec, patch, err := r.Resolve(context.Background(), Config{EntityName: "community"}, "missing")
	if err != nil || rec != nil || patch != nil {
		t.Fatalf("got %v %v %v", rec, patch, err)
	}
}

func TestAutoFillSkipsMissingSource(t *testing.T) {
	cfg := Config{AutoFill: map[string]string{"a": "x", "b": "name"}}
	patch := AutoFill(cfg, map[string]any{"name": "n"})
	if diff := cmp.Diff(map[string]any{"b": "n"}, patch); diff != "" {
		t.Fatalf("patch diff (-want +got)\n%s", diff)
	}
	if AutoFill(Config{}, map[string]any{"name": "n"}) != nil {
		t.Fatal("no mapping should yield nil")
	}
}
