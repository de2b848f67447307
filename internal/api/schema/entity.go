// Package schema holds the request and response bodies shared by the
// console API handlers.
package schema

import (
	"github.com/gencrud-dev/gencrud/internal/descriptor"
)

// Descriptors is the response body of the descriptors endpoint.
type Descriptors struct {
	EntityName string                 `json:"entityName"`
	Columns    []descriptor.Column    `json:"columns"`
	FormFields []descriptor.FormField `json:"formFields"`
}

// QueryRequest is the body of a list query.
type QueryRequest struct {
	Page     int               `json:"page,omitempty"`
	PageSize int               `json:"pageSize,omitempty"`
	Params   map[string]any    `json:"params,omitempty"`
	Sort     map[string]string `json:"sort,omitempty"`
}

// QueryResponse mirrors the list-result contract the console table expects.
type QueryResponse struct {
	Data    []map[string]any `json:"data"`
	Success bool             `json:"success"`
	Total   int64            `json:"total"`
}

// RecordRequest carries the form values of a create or update.
type RecordRequest struct {
	Values map[string]any `json:"values"`
}

// BatchDeleteRequest lists the record ids to remove.
type BatchDeleteRequest struct {
	IDs []string `json:"ids" minItems:"1"`
}

// EntityInfo summarizes one registered entity.
type EntityInfo struct {
	ClassName  string `json:"className"`
	EntityName string `json:"entityName"`
}
