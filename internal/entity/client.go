// Package entity is the client for the backend generic-entity API: one batch
// endpoint for CRUD plus a per-class field-metadata endpoint.
package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
)

// Client provides typed access to the backend entity endpoints.
type Client struct {
	http   *resty.Client
	tokens *TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches bearer-token handling with 401 refresh-and-retry.
func WithTokenSource(ts *TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// New returns a Client for the given base URL.
func New(base string, opts ...Option) *Client {
	c := &Client{http: resty.New().SetBaseURL(base).SetTimeout(15 * time.Second)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fields fetches the field metadata of className, preserving backend order.
func (c *Client) Fields(ctx context.Context, className string) (*fieldmeta.FieldMap, error) {
	var out struct {
		Code    int                 `json:"code"`
		Message string              `json:"message"`
		Data    *fieldmeta.FieldMap `json:"data"`
	}
	resp, err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).Get("/api/entity/fields/" + className)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fields %s: %w", className, err)
	}
	if resp.IsError() || out.Code != 200 {
		return nil, fmt.Errorf("fetch fields %s: %s (code %d)", className, resp.Status(), out.Code)
	}
	if out.Data == nil {
		return fieldmeta.NewFieldMap(), nil
	}
	return out.Data, nil
}

// Query runs a paged list operation.
func (c *Client) Query(ctx context.Context, entity string, q Query) (Page, error) {
	req := BatchRequest{
		Entity:     entity,
		Action:     ActionQuery,
		Conditions: q.Conditions,
		Sort:       q.Sort,
	}
	if q.PageNum > 0 && q.PageSize > 0 {
		req.PageNum = q.PageNum
		req.PageSize = q.PageSize
	}
	env, err := c.batch(ctx, req)
	if err != nil {
		return Page{}, err
	}
	var page Page
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return Page{}, fmt.Errorf("query %s: decode page: %w", entity, err)
		}
	}
	return page, nil
}

// Create inserts a record.
func (c *Client) Create(ctx context.Context, entity string, data map[string]any) error {
	_, err := c.batch(ctx, BatchRequest{Entity: entity, Action: ActionCreate, Data: data})
	return err
}

// Update replaces the record identified by id.
func (c *Client) Update(ctx context.Context, entity, id string, data map[string]any) error {
	_, err := c.batch(ctx, BatchRequest{Entity: entity, Action: ActionUpdate, ID: id, Data: data})
	return err
}

// Delete removes a single record.
func (c *Client) Delete(ctx context.Context, entity, id string) error {
	_, err := c.batch(ctx, BatchRequest{Entity: entity, Action: ActionDelete, ID: id})
	return err
}

func (c *Client) batch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	var env BatchResponse
	resp, err := c.do(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(req).SetResult(&env).Post("/api/batch")
	})
	if err != nil {
		return env, fmt.Errorf("%s %s: %w", req.Action, req.Entity, err)
	}
	if resp.IsError() || env.Code != 200 {
		msg := env.Message
		if msg == "" {
			msg = resp.Status()
		}
		return env, fmt.Errorf("%s %s: %s (code %d)", req.Action, req.Entity, msg, env.Code)
	}
	return env, nil
}

// do runs one request with bearer-token handling. A 401 triggers a
// single-flight refresh followed by exactly one retry.
func (c *Client) do(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	var tok string
	if c.tokens != nil {
		var err error
		tok, err = c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.SetAuthToken(tok)
	}
	resp, err := send(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusUnauthorized && c.tokens != nil {
		fresh, err := c.tokens.Refresh(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("unauthorized and refresh failed: %w", err)
		}
		retry := c.http.R().SetContext(ctx).SetAuthToken(fresh)
		return send(retry)
	}
	return resp, nil
}
