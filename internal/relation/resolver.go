// Package relation resolves soft foreign-key fields: it loads the referenced
// entity's records and turns them into picker options, and copies values from
// a selected record into sibling form fields.
package relation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gencrud-dev/gencrud/internal/entity"
)

// defaultPageSize caps how many referenced records one picker loads.
const defaultPageSize = 1000

// Config declares one relation-bearing field. It is a UI lookup contract,
// not a referential-integrity constraint.
type Config struct {
	EntityClassName string            `json:"entityClassName" yaml:"entityClassName"`
	EntityName      string            `json:"entityName" yaml:"entityName"`
	DisplayField    string            `json:"displayField,omitempty" yaml:"displayField,omitempty"`
	ValueField      string            `json:"valueField,omitempty" yaml:"valueField,omitempty"`
	Multiple        bool              `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	AutoFill        map[string]string `json:"autoFill,omitempty" yaml:"autoFill,omitempty"`
}

// Display returns the display field name, defaulting to "name".
func (c Config) Display() string {
	if c.DisplayField != "" {
		return c.DisplayField
	}
	return "name"
}

// Value returns the value field name, defaulting to the identifier field.
func (c Config) Value() string {
	if c.ValueField != "" {
		return c.ValueField
	}
	return "_id"
}

// Option is one picker entry.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Querier is the slice of the entity client the resolver needs.
type Querier interface {
	Query(ctx context.Context, entity string, q entity.Query) (entity.Page, error)
}

// Resolver loads relation options and applies auto-fill mappings.
type Resolver struct {
	api      Querier
	pageSize int
	log      *slog.Logger
}

// NewResolver returns a Resolver backed by the given querier.
func NewResolver(api Querier, log *slog.Logger) *Resolver {
	return &Resolver{api: api, pageSize: defaultPageSize, log: log}
}

// Options loads the target entity's records and builds the option list. A
// failed fetch yields an empty list and the error; callers surface "no data"
// without retrying.
func (r *Resolver) Options(ctx context.Context, cfg Config) ([]Option, error) {
	page, err := r.api.Query(ctx, cfg.EntityName, entity.Query{PageNum: 1, PageSize: r.pageSize})
	if err != nil {
		r.log.Warn("load relation options", "entity", cfg.EntityName, "err", err)
		return []Option{}, err
	}
	opts := make([]Option, 0, len(page.Content))
	for _, rec := range page.Content {
		value := rec[cfg.Value()]
		label, _ := rec[cfg.Display()].(string)
		if label == "" {
			label = fmt.Sprintf("%v", value)
		}
		opts = append(opts, Option{Label: label, Value: value})
	}
	return opts, nil
}

// Resolve finds the record whose value field equals value and returns it
// together with the auto-fill patch for sibling fields.
func (r *Resolver) Resolve(ctx context.Context, cfg Config, value any) (map[string]any, map[string]any, error) {
	page, err := r.api.Query(ctx, cfg.EntityName, entity.Query{
		PageNum:    1,
		PageSize:   1,
		Conditions: map[string]any{cfg.Value(): value},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolve relation %s: %w", cfg.EntityName, err)
	}
	if len(page.Content) == 0 {
		return nil, nil, nil
	}
	rec := page.Content[0]
	return rec, AutoFill(cfg, rec), nil
}

// AutoFill copies the configured source fields of a selected record into a
// patch keyed by target field name.
func AutoFill(cfg Config, record map[string]any) map[string]any {
	if len(cfg.AutoFill) == 0 || record == nil {
		return nil
	}
	patch := make(map[string]any, len(cfg.AutoFill))
	for target, source := range cfg.AutoFill {
		if v, ok := record[source]; ok {
			patch[target] = v
		}
	}
	return patch
}
