// Package crud orchestrates the dynamic-entity operations: it derives
// descriptors from cached metadata and wires list/create/update/delete to
// the backend batch API.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gencrud-dev/gencrud/internal/descriptor"
	"github.com/gencrud-dev/gencrud/internal/entity"
	"github.com/gencrud-dev/gencrud/internal/events"
	"github.com/gencrud-dev/gencrud/internal/fieldcache"
	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
	"github.com/gencrud-dev/gencrud/internal/metrics"
	"github.com/gencrud-dev/gencrud/internal/permission"
	"github.com/gencrud-dev/gencrud/internal/relation"
)

// ErrPermissionDenied is returned when a permission value rejects the caller.
var ErrPermissionDenied = errors.New("crud: permission denied")

// Permissions configures per-operation access. Zero value allows everything.
type Permissions struct {
	Create permission.Value `json:"create,omitempty" yaml:"create,omitempty"`
	Update permission.Value `json:"update,omitempty" yaml:"update,omitempty"`
	Delete permission.Value `json:"delete,omitempty" yaml:"delete,omitempty"`
}

// EntityConfig is the declarative configuration of one managed entity — the
// server-side counterpart of a page-level dynamicEntity declaration.
type EntityConfig struct {
	// EntityClassName is the backend class picked up by the metadata
	// endpoint (e.g. WqUser); EntityName is the lowercase batch-API name.
	EntityClassName string `json:"entityClassName" yaml:"entityClassName"`
	EntityName      string `json:"entityName" yaml:"entityName"`

	ExcludeFields []string                       `json:"excludeFields,omitempty" yaml:"excludeFields,omitempty"`
	Overrides     map[string]descriptor.Override `json:"fieldOverrides,omitempty" yaml:"fieldOverrides,omitempty"`
	Relations     map[string]relation.Config     `json:"relations,omitempty" yaml:"relations,omitempty"`
	Search        descriptor.SearchPolicy        `json:"search,omitempty" yaml:"search,omitempty"`

	// Filter is always applied to list queries; user input cannot override
	// its keys.
	Filter map[string]any `json:"filter,omitempty" yaml:"filter,omitempty"`
	// DataField, when set, wraps the whole submit payload under one key
	// for backends expecting a nested envelope.
	DataField string `json:"dataField,omitempty" yaml:"dataField,omitempty"`

	Permissions Permissions `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// API is the slice of the entity client the orchestrator uses.
type API interface {
	Fields(ctx context.Context, className string) (*fieldmeta.FieldMap, error)
	Query(ctx context.Context, entity string, q entity.Query) (entity.Page, error)
	Create(ctx context.Context, entity string, data map[string]any) error
	Update(ctx context.Context, entity, id string, data map[string]any) error
	Delete(ctx context.Context, entity, id string) error
}

// ListParams carries one list request.
type ListParams struct {
	Page     int
	PageSize int
	// Params are the user-supplied search inputs keyed by field name.
	Params map[string]any
	Sort   map[string]string
}

// ListResult is the normalized list response.
type ListResult struct {
	Data    []map[string]any `json:"data"`
	Success bool             `json:"success"`
	Total   int64            `json:"total"`
}

// Orchestrator ties metadata, descriptor synthesis and the batch API
// together for all configured entities.
type Orchestrator struct {
	api    API
	cache  *fieldcache.Cache
	perms  *permission.Checker
	titles descriptor.TitleFunc
	log    *slog.Logger
}

// New returns an Orchestrator. cache may be nil to fetch metadata on every
// call; perms may be nil to accept all permission codes.
func New(api API, cache *fieldcache.Cache, perms *permission.Checker, titles descriptor.TitleFunc, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{api: api, cache: cache, perms: perms, titles: titles, log: log}
}

func (o *Orchestrator) fields(ctx context.Context, className string) (*fieldmeta.FieldMap, error) {
	if o.cache != nil {
		return o.cache.Fields(ctx, className)
	}
	return o.api.Fields(ctx, className)
}

func (o *Orchestrator) options(cfg EntityConfig) descriptor.Options {
	return descriptor.Options{
		Exclude:   cfg.ExcludeFields,
		Overrides: cfg.Overrides,
		Relations: cfg.Relations,
		Search:    cfg.Search,
		Titles:    o.titles,
	}
}

// Descriptors fetches metadata and derives both descriptor lists.
func (o *Orchestrator) Descriptors(ctx context.Context, cfg EntityConfig) (descriptor.Set, error) {
	fields, err := o.fields(ctx, cfg.EntityClassName)
	if err != nil {
		return descriptor.Set{}, fmt.Errorf("descriptors %s: %w", cfg.EntityClassName, err)
	}
	opts := o.options(cfg)
	return descriptor.Set{
		Columns:    descriptor.Columns(fields, opts),
		FormFields: descriptor.FormFields(fields, opts),
	}, nil
}

// List runs a paged query, merging the fixed filter with user conditions.
// Failures yield an empty, unsuccessful result rather than an error page.
func (o *Orchestrator) List(ctx context.Context, cfg EntityConfig, p ListParams) (ListResult, error) {
	fields, err := o.fields(ctx, cfg.EntityClassName)
	if err != nil {
		return ListResult{Data: []map[string]any{}}, fmt.Errorf("list %s: %w", cfg.EntityName, err)
	}
	page, err := o.api.Query(ctx, cfg.EntityName, entity.Query{
		PageNum:    p.Page,
		PageSize:   p.PageSize,
		Conditions: BuildConditions(fields, cfg.Filter, p.Params),
		Sort:       p.Sort,
	})
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(cfg.EntityName, "query").Inc()
		return ListResult{Data: []map[string]any{}}, fmt.Errorf("list %s: %w", cfg.EntityName, err)
	}
	data := page.Content
	if data == nil {
		data = []map[string]any{}
	}
	return ListResult{Data: data, Success: true, Total: page.TotalElements}, nil
}

// Create coerces and submits a new record.
func (o *Orchestrator) Create(ctx context.Context, cfg EntityConfig, subject string, values map[string]any) error {
	if !o.perms.Allowed(subject, "create", cfg.Permissions.Create) {
		return ErrPermissionDenied
	}
	data, err := o.prepare(ctx, cfg, values)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.EntityName, err)
	}
	if err := o.api.Create(ctx, cfg.EntityName, data); err != nil {
		metrics.UpstreamErrors.WithLabelValues(cfg.EntityName, "create").Inc()
		return err
	}
	events.Emit(ctx, events.New(events.RecordCreated, cfg.EntityName, data))
	return nil
}

// Update coerces and submits changes to the record identified by id.
func (o *Orchestrator) Update(ctx context.Context, cfg EntityConfig, subject, id string, values map[string]any) error {
	if !o.perms.Allowed(subject, "update", cfg.Permissions.Update) {
		return ErrPermissionDenied
	}
	data, err := o.prepare(ctx, cfg, values)
	if err != nil {
		return fmt.Errorf("update %s: %w", cfg.EntityName, err)
	}
	if err := o.api.Update(ctx, cfg.EntityName, id, data); err != nil {
		metrics.UpstreamErrors.WithLabelValues(cfg.EntityName, "update").Inc()
		return err
	}
	events.Emit(ctx, events.New(events.RecordUpdated, cfg.EntityName, map[string]any{"id": id}))
	return nil
}

// prepare coerces values against backend types and applies the dataField
// envelope.
func (o *Orchestrator) prepare(ctx context.Context, cfg EntityConfig, values map[string]any) (map[string]any, error) {
	fields, err := o.fields(ctx, cfg.EntityClassName)
	if err != nil {
		return nil, err
	}
	data := Coerce(fields, values)
	if cfg.DataField != "" {
		data = map[string]any{cfg.DataField: data}
	}
	return data, nil
}

// Delete removes one or more records. The batch path is best-effort: each id
// is deleted independently, nothing is rolled back, and the returned error
// joins the per-id failures so callers can tell which subset failed.
func (o *Orchestrator) Delete(ctx context.Context, cfg EntityConfig, subject string, ids ...string) error {
	if !o.perms.Allowed(subject, "delete", cfg.Permissions.Delete) {
		return ErrPermissionDenied
	}
	var errs []error
	for _, id := range ids {
		if err := o.api.Delete(ctx, cfg.EntityName, id); err != nil {
			metrics.UpstreamErrors.WithLabelValues(cfg.EntityName, "delete").Inc()
			errs = append(errs, fmt.Errorf("delete %s id %s: %w", cfg.EntityName, id, err))
			continue
		}
		events.Emit(ctx, events.New(events.RecordDeleted, cfg.EntityName, map[string]any{"id": id}))
	}
	return errors.Join(errs...)
}
