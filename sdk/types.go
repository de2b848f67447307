// Package sdk defines the public types of the GenCrud console API for use
// by external Go consumers and the crudctl CLI.
package sdk

// EntityInfo summarizes one registered entity.
type EntityInfo struct {
	ClassName  string `json:"className"`
	EntityName string `json:"entityName"`
}

// EnumOption is one choice of an enumerated field.
type EnumOption struct {
	Value  any    `json:"value"`
	Text   string `json:"text"`
	Status string `json:"status,omitempty"`
}

// Rule is a declarative form validation rule.
type Rule struct {
	Required bool     `json:"required,omitempty"`
	Message  string   `json:"message,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// Relation describes a foreign-entity binding on a field.
type Relation struct {
	EntityClassName string            `json:"entityClassName"`
	EntityName      string            `json:"entityName"`
	DisplayField    string            `json:"displayField,omitempty"`
	ValueField      string            `json:"valueField,omitempty"`
	Multiple        bool              `json:"multiple,omitempty"`
	AutoFill        map[string]string `json:"autoFill,omitempty"`
}

// Column is a derived table-column descriptor.
type Column struct {
	Title        string       `json:"title"`
	DataIndex    string       `json:"dataIndex"`
	Key          string       `json:"key"`
	Kind         string       `json:"valueType"`
	Sorter       bool         `json:"sorter"`
	HideInSearch bool         `json:"hideInSearch"`
	Width        int          `json:"width,omitempty"`
	ValueEnum    []EnumOption `json:"valueEnum,omitempty"`
	Renderer     string       `json:"renderer,omitempty"`
	Relation     *Relation    `json:"relation,omitempty"`
}

// FormField is a derived form-field descriptor.
type FormField struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Kind        string       `json:"valueType"`
	Required    bool         `json:"required,omitempty"`
	Rules       []Rule       `json:"rules,omitempty"`
	ValueEnum   []EnumOption `json:"valueEnum,omitempty"`
	Relation    *Relation    `json:"relation,omitempty"`
	Async       bool         `json:"requestAsync,omitempty"`
	Renderer    string       `json:"renderer,omitempty"`
	Passthrough bool         `json:"passthrough,omitempty"`
}

// Descriptors bundles both descriptor lists for one entity.
type Descriptors struct {
	EntityName string      `json:"entityName"`
	Columns    []Column    `json:"columns"`
	FormFields []FormField `json:"formFields"`
}

// QueryResult is one page of records.
type QueryResult struct {
	Data    []map[string]any `json:"data"`
	Success bool             `json:"success"`
	Total   int64            `json:"total"`
}
