// Package client provides REST access to the GenCrud console API.
package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	sdk "github.com/gencrud-dev/gencrud/sdk"
)

// Client provides REST access to the console API.
type Client interface {
	Entities(ctx context.Context) ([]sdk.EntityInfo, error)
	Descriptors(ctx context.Context, className string) (sdk.Descriptors, error)
	Query(ctx context.Context, className string, page, pageSize int, params map[string]any) (sdk.QueryResult, error)
	Create(ctx context.Context, className string, values map[string]any) error
	Update(ctx context.Context, className, id string, values map[string]any) error
	Delete(ctx context.Context, className string, ids ...string) error
}

type httpClient struct {
	base string
	http *resty.Client
}

type Option func(*httpClient)

// WithToken sets the Authorization token
func WithToken(tok string) Option {
	return func(c *httpClient) {
		c.http.SetAuthToken(tok)
	}
}

// NewHTTP returns a new Client for the given base URL.
func NewHTTP(base string, opts ...Option) Client {
	c := &httpClient{base: base, http: resty.New()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Entities(ctx context.Context) ([]sdk.EntityInfo, error) {
	var out struct {
		Items []sdk.EntityInfo `json:"items"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get(c.base + "/v1/entities")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, restyErr(resp)
	}
	return out.Items, nil
}

func (c *httpClient) Descriptors(ctx context.Context, className string) (sdk.Descriptors, error) {
	var out sdk.Descriptors
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get(c.base + "/v1/entities/" + className + "/descriptors")
	if err != nil {
		return out, err
	}
	if resp.IsError() {
		return out, restyErr(resp)
	}
	return out, nil
}

func (c *httpClient) Query(ctx context.Context, className string, page, pageSize int, params map[string]any) (sdk.QueryResult, error) {
	var out sdk.QueryResult
	body := map[string]any{"page": page, "pageSize": pageSize, "params": params}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).
		Post(c.base + "/v1/entities/" + className + "/query")
	if err != nil {
		return out, err
	}
	if resp.IsError() {
		return out, restyErr(resp)
	}
	return out, nil
}

func (c *httpClient) Create(ctx context.Context, className string, values map[string]any) error {
	body := map[string]any{"values": values}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).
		Post(c.base + "/v1/entities/" + className + "/records")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return restyErr(resp)
	}
	return nil
}

func (c *httpClient) Update(ctx context.Context, className, id string, values map[string]any) error {
	body := map[string]any{"values": values}
	resp, err := c.http.R().SetContext(ctx).SetBody(body).
		Put(c.base + "/v1/entities/" + className + "/records/" + id)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return restyErr(resp)
	}
	return nil
}

func (c *httpClient) Delete(ctx context.Context, className string, ids ...string) error {
	var (
		resp *resty.Response
		err  error
	)
	if len(ids) == 1 {
		resp, err = c.http.R().SetContext(ctx).
			Delete(c.base + "/v1/entities/" + className + "/records/" + ids[0])
	} else {
		resp, err = c.http.R().SetContext(ctx).SetBody(map[string]any{"ids": ids}).
			Post(c.base + "/v1/entities/" + className + "/records/batch-delete")
	}
	if err != nil {
		return err
	}
	if resp.IsError() {
		return restyErr(resp)
	}
	return nil
}

func restyErr(resp *resty.Response) error {
	return fmt.Errorf("%s", resp.Status())
}
