package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Resource maps the five CRUD calls of one collection endpoint onto typed
// requests. T is the entity as returned by the API and In the request body.
type Resource[T any, In any] struct {
	client       *Client
	path         string
	updateMethod string
}

func newResource[T any, In any](c *Client, path, updateMethod string) Resource[T, In] {
	return Resource[T, In]{client: c, path: path, updateMethod: updateMethod}
}

// List fetches the whole collection in server order.
func (r Resource[T, In]) List(ctx context.Context) ([]T, error) {
	return r.list(ctx, nil)
}

func (r Resource[T, In]) list(ctx context.Context, query url.Values) ([]T, error) {
	if r.client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: r.path, RawQuery: query.Encode()}
	var items []T
	if err := r.client.do(ctx, http.MethodGet, rel, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one entity by id.
func (r Resource[T, In]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	if r.client == nil {
		return item, fmt.Errorf("client is nil")
	}
	if err := r.client.do(ctx, http.MethodGet, r.itemURL(id), nil, &item); err != nil {
		return item, err
	}
	return item, nil
}

// Create posts in and returns the entity echoed by the server. A server that
// answers with an empty body yields the zero T.
func (r Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var item T
	if r.client == nil {
		return item, fmt.Errorf("client is nil")
	}
	if err := r.client.do(ctx, http.MethodPost, &url.URL{Path: r.path}, in, &item); err != nil {
		return item, err
	}
	return item, nil
}

// Update replaces the entity with the given id.
func (r Resource[T, In]) Update(ctx context.Context, id int64, in In) (T, error) {
	var item T
	if r.client == nil {
		return item, fmt.Errorf("client is nil")
	}
	if err := r.client.do(ctx, r.updateMethod, r.itemURL(id), in, &item); err != nil {
		return item, err
	}
	return item, nil
}

// Delete removes the entity with the given id.
func (r Resource[T, In]) Delete(ctx context.Context, id int64) error {
	if r.client == nil {
		return fmt.Errorf("client is nil")
	}
	return r.client.do(ctx, http.MethodDelete, r.itemURL(id), nil, nil)
}

func (r Resource[T, In]) itemURL(id int64) *url.URL {
	return &url.URL{Path: r.path + "/" + strconv.FormatInt(id, 10)}
}
