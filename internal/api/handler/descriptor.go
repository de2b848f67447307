package handler

import (
	"context"
	"net/http"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/gencrud-dev/gencrud/internal/api/schema"
	"github.com/gencrud-dev/gencrud/internal/config"
	"github.com/gencrud-dev/gencrud/internal/crud"
	huma "github.com/gencrud-dev/gencrud/internal/huma"
	"github.com/gencrud-dev/gencrud/internal/relation"
)

// DescriptorHandler serves derived table and form descriptors.
type DescriptorHandler struct {
	Registry *config.Registry
	Orch     *crud.Orchestrator
	Relation *relation.Resolver
}

// RegisterDescriptors registers the descriptor endpoints.
func RegisterDescriptors(api humago.API, h *DescriptorHandler) {
	humago.Register(api, humago.Operation{
		OperationID: "listEntities",
		Method:      http.MethodGet,
		Path:        "/v1/entities",
		Summary:     "List registered entities",
		Tags:        []string{"Entities"},
	}, h.listEntities)
	humago.Register(api, humago.Operation{
		OperationID: "getDescriptors",
		Method:      http.MethodGet,
		Path:        "/v1/entities/{className}/descriptors",
		Summary:     "Get table and form descriptors",
		Tags:        []string{"Entities"},
	}, h.getDescriptors)
	humago.Register(api, humago.Operation{
		OperationID: "getRelationOptions",
		Method:      http.MethodGet,
		Path:        "/v1/entities/{className}/relations/{field}/options",
		Summary:     "List options for a relation field",
		Tags:        []string{"Entities"},
	}, h.relationOptions)
}

type listEntitiesOutput struct {
	Body struct {
		Items []schema.EntityInfo `json:"items"`
	}
}

func (h *DescriptorHandler) listEntities(ctx context.Context, _ *struct{}) (*listEntitiesOutput, error) {
	out := &listEntitiesOutput{}
	for _, className := range h.Registry.ClassNames() {
		ec, _ := h.Registry.Class(className)
		out.Body.Items = append(out.Body.Items, schema.EntityInfo{ClassName: ec.EntityClassName, EntityName: ec.EntityName})
	}
	return out, nil
}

type classParam struct {
	ClassName string `path:"className"`
}

type descriptorsOutput struct {
	Body schema.Descriptors
}

func (h *DescriptorHandler) getDescriptors(ctx context.Context, p *classParam) (*descriptorsOutput, error) {
	ec, ok := h.Registry.Class(p.ClassName)
	if !ok {
		return nil, huma.Error404NotFound("unknown entity class")
	}
	set, err := h.Orch.Descriptors(ctx, ec)
	if err != nil {
		return nil, huma.Error502BadGateway("fetch field metadata", err)
	}
	out := &descriptorsOutput{}
	out.Body = schema.Descriptors{
		EntityName: ec.EntityName,
		Columns:    set.Columns,
		FormFields: set.FormFields,
	}
	return out, nil
}

type relationOptionsParams struct {
	ClassName string `path:"className"`
	Field     string `path:"field"`
}

type relationOptionsOutput struct {
	Body struct {
		Options []relation.Option `json:"options"`
	}
}

// relationOptions loads the pick list for one relation field. Upstream
// failures return an empty list so selects degrade to "no data".
func (h *DescriptorHandler) relationOptions(ctx context.Context, p *relationOptionsParams) (*relationOptionsOutput, error) {
	ec, ok := h.Registry.Class(p.ClassName)
	if !ok {
		return nil, huma.Error404NotFound("unknown entity class")
	}
	rel, ok := ec.Relations[p.Field]
	if !ok {
		return nil, huma.Error404NotFound("field has no relation")
	}
	opts, _ := h.Relation.Options(ctx, rel)
	out := &relationOptionsOutput{}
	out.Body.Options = opts
	return out, nil
}
