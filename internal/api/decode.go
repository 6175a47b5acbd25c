package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bazaarku/internal/models"
)

var jsonNull = []byte("null")

// record decodes either the {success, data} envelope or a bare record.
type record[T any] struct {
	Value   T
	Present bool
}

func (r *record[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	if trimmed[0] == '{' {
		var env struct {
			Success *bool           `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if len(env.Data) > 0 && !bytes.Equal(env.Data, jsonNull) {
				r.Present = true
				return json.Unmarshal(env.Data, &r.Value)
			}
			if env.Success != nil {
				// {success, message} acknowledgement without a record
				return nil
			}
		}
	}
	r.Present = true
	return json.Unmarshal(trimmed, &r.Value)
}

// list decodes a bare array or the {data: [...], pagination} envelope.
type list[T any] struct {
	Items      []T
	Pagination *models.Pagination
}

func (l *list[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	switch trimmed[0] {
	case '[':
		return json.Unmarshal(trimmed, &l.Items)
	case '{':
		var env struct {
			Data       json.RawMessage    `json:"data"`
			Pagination *models.Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return err
		}
		l.Pagination = env.Pagination
		if len(env.Data) == 0 || bytes.Equal(env.Data, jsonNull) {
			return nil
		}
		return json.Unmarshal(env.Data, &l.Items)
	default:
		return fmt.Errorf("expected a list, got %q", firstByte(trimmed))
	}
}

func firstByte(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return string(b[:1])
}

func getRecord[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	var rec record[T]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, &rec); err != nil {
		return nil, err
	}
	return &rec.Value, nil
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, *models.Pagination, error) {
	var l list[T]
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, &l); err != nil {
		return nil, nil, err
	}
	return l.Items, l.Pagination, nil
}

// sendRecord issues a write and decodes the returned record, if any.
func sendRecord[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var rec record[T]
	if err := c.Do(ctx, Request{Method: method, Path: path, Body: body}, &rec); err != nil {
		return nil, err
	}
	return &rec.Value, nil
}

func (c *Client) deletePath(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// withImage picks the body for create/update calls that accept an optional
// upload: plain JSON without a file, multipart with one.
func withImage(in any, image *FormFile) (any, error) {
	if image == nil {
		return in, nil
	}
	form, err := FormFromStruct(in)
	if err != nil {
		return nil, err
	}
	return form.AddFile(image), nil
}

// ListAll walks every page of a paged list endpoint. Endpoints that answer
// without pagination are treated as a single page.
func ListAll[T any](ctx context.Context, fetch func(ctx context.Context, p models.ListParams) ([]T, *models.Pagination, error), limit int) ([]T, error) {
	if limit <= 0 {
		limit = models.DefaultPageSize
	}
	var all []T
	for page := 1; ; page++ {
		items, pg, err := fetch(ctx, models.ListParams{Page: page, Limit: limit})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if !pg.HasNext() || len(items) == 0 {
			return all, nil
		}
	}
}
