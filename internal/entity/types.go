package entity

import "encoding/json"

// Action is the batch endpoint operation verb.
type Action string

const (
	ActionCreate Action = "create"
	ActionQuery  Action = "query"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// BatchRequest is the payload of the backend's single batch endpoint.
type BatchRequest struct {
	Entity     string            `json:"entity"`
	Action     Action            `json:"action"`
	ID         string            `json:"id,omitempty"`
	Data       map[string]any    `json:"data,omitempty"`
	Conditions map[string]any    `json:"conditions,omitempty"`
	PageNum    int               `json:"pageNum,omitempty"`
	PageSize   int               `json:"pageSize,omitempty"`
	Sort       map[string]string `json:"sort,omitempty"`
}

// BatchResponse is the backend envelope. Data stays raw until the caller
// knows its shape (page object for queries, record or nothing otherwise).
type BatchResponse struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Total     int64           `json:"total,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// Page is the query response shape (Spring Data page object).
type Page struct {
	Content          []map[string]any `json:"content"`
	TotalElements    int64            `json:"totalElements"`
	TotalPages       int              `json:"totalPages"`
	Number           int              `json:"number"`
	Size             int              `json:"size"`
	NumberOfElements int              `json:"numberOfElements"`
	First            bool             `json:"first"`
	Last             bool             `json:"last"`
	Empty            bool             `json:"empty"`
}

// Query carries list-operation parameters.
type Query struct {
	PageNum    int
	PageSize   int
	Conditions map[string]any
	Sort       map[string]string
}
