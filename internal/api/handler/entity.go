package handler

import (
	"context"
	"errors"
	"net/http"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/gencrud-dev/gencrud/internal/api/schema"
	"github.com/gencrud-dev/gencrud/internal/config"
	"github.com/gencrud-dev/gencrud/internal/crud"
	huma "github.com/gencrud-dev/gencrud/internal/huma"
	"github.com/gencrud-dev/gencrud/internal/server/middleware"
)

// EntityHandler proxies list, create, update and delete to the backend
// batch API through the orchestrator.
type EntityHandler struct {
	Registry *config.Registry
	Orch     *crud.Orchestrator
}

// RegisterEntities registers the CRUD endpoints.
func RegisterEntities(api humago.API, h *EntityHandler) {
	humago.Register(api, humago.Operation{
		OperationID: "queryRecords",
		Method:      http.MethodPost,
		Path:        "/v1/entities/{className}/query",
		Summary:     "Run a paged query",
		Tags:        []string{"Records"},
	}, h.query)
	humago.Register(api, humago.Operation{
		OperationID: "createRecord",
		Method:      http.MethodPost,
		Path:        "/v1/entities/{className}/records",
		Summary:     "Create a record",
		Tags:        []string{"Records"},
	}, h.create)
	humago.Register(api, humago.Operation{
		OperationID: "updateRecord",
		Method:      http.MethodPut,
		Path:        "/v1/entities/{className}/records/{id}",
		Summary:     "Update a record",
		Tags:        []string{"Records"},
	}, h.update)
	humago.Register(api, humago.Operation{
		OperationID: "deleteRecord",
		Method:      http.MethodDelete,
		Path:        "/v1/entities/{className}/records/{id}",
		Summary:     "Delete a record",
		Tags:        []string{"Records"},
	}, h.delete)
	humago.Register(api, humago.Operation{
		OperationID: "batchDeleteRecords",
		Method:      http.MethodPost,
		Path:        "/v1/entities/{className}/records/batch-delete",
		Summary:     "Delete multiple records",
		Tags:        []string{"Records"},
	}, h.batchDelete)
}

func (h *EntityHandler) entity(className string) (crud.EntityConfig, error) {
	ec, ok := h.Registry.Class(className)
	if !ok {
		return crud.EntityConfig{}, huma.Error404NotFound("unknown entity class")
	}
	return ec, nil
}

type queryInput struct {
	ClassName string `path:"className"`
	Body      schema.QueryRequest
}

type queryOutput struct {
	Body schema.QueryResponse
}

// query runs a paged list. Upstream failures still produce a well-formed
// empty page so tables render instead of erroring.
func (h *EntityHandler) query(ctx context.Context, in *queryInput) (*queryOutput, error) {
	ec, err := h.entity(in.ClassName)
	if err != nil {
		return nil, err
	}
	res, err := h.Orch.List(ctx, ec, crud.ListParams{
		Page:     in.Body.Page,
		PageSize: in.Body.PageSize,
		Params:   in.Body.Params,
		Sort:     in.Body.Sort,
	})
	if err != nil {
		res = crud.ListResult{Data: []map[string]any{}}
	}
	out := &queryOutput{}
	out.Body = schema.QueryResponse{Data: res.Data, Success: res.Success, Total: res.Total}
	return out, nil
}

type recordInput struct {
	ClassName string `path:"className"`
	Body      schema.RecordRequest
}

type statusOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

func successOutput() *statusOutput {
	out := &statusOutput{}
	out.Body.Success = true
	return out
}

func (h *EntityHandler) create(ctx context.Context, in *recordInput) (*statusOutput, error) {
	ec, err := h.entity(in.ClassName)
	if err != nil {
		return nil, err
	}
	if err := h.Orch.Create(ctx, ec, middleware.UserFromContext(ctx), in.Body.Values); err != nil {
		return nil, mapCrudError(err)
	}
	return successOutput(), nil
}

type recordIDInput struct {
	ClassName string `path:"className"`
	ID        string `path:"id"`
	Body      schema.RecordRequest
}

func (h *EntityHandler) update(ctx context.Context, in *recordIDInput) (*statusOutput, error) {
	ec, err := h.entity(in.ClassName)
	if err != nil {
		return nil, err
	}
	if err := h.Orch.Update(ctx, ec, middleware.UserFromContext(ctx), in.ID, in.Body.Values); err != nil {
		return nil, mapCrudError(err)
	}
	return successOutput(), nil
}

type deleteInput struct {
	ClassName string `path:"className"`
	ID        string `path:"id"`
}

func (h *EntityHandler) delete(ctx context.Context, in *deleteInput) (*statusOutput, error) {
	ec, err := h.entity(in.ClassName)
	if err != nil {
		return nil, err
	}
	if err := h.Orch.Delete(ctx, ec, middleware.UserFromContext(ctx), in.ID); err != nil {
		return nil, mapCrudError(err)
	}
	return successOutput(), nil
}

type batchDeleteInput struct {
	ClassName string `path:"className"`
	Body      schema.BatchDeleteRequest
}

// batchDelete removes each id independently; a partial failure reports the
// failed subset while the successful deletions stand.
func (h *EntityHandler) batchDelete(ctx context.Context, in *batchDeleteInput) (*statusOutput, error) {
	ec, err := h.entity(in.ClassName)
	if err != nil {
		return nil, err
	}
	if err := h.Orch.Delete(ctx, ec, middleware.UserFromContext(ctx), in.Body.IDs...); err != nil {
		return nil, mapCrudError(err)
	}
	return successOutput(), nil
}

func mapCrudError(err error) error {
	if errors.Is(err, crud.ErrPermissionDenied) {
		return huma.Error403Forbidden("operation not permitted")
	}
	return huma.Error502BadGateway("backend entity API", err)
}
