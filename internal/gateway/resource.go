// internal/gateway/resource.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// resource implements the CRUD calls shared by the collection endpoints.
type resource[T any] struct {
	c        *Client
	path     string
	listKeys []string
	itemKeys []string
}

func (r resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r resource[T]) List(ctx context.Context, params ListParams) (Page[T], error) {
	body, err := r.c.get(ctx, r.path, params.Values())
	if err != nil {
		return Page[T]{}, fmt.Errorf("list %s: %w", r.path, err)
	}
	return decodeList[T](body, params, r.listKeys...)
}

// Get returns nil without error when the entity does not exist.
func (r resource[T]) Get(ctx context.Context, id string) (*T, error) {
	body, err := r.c.get(ctx, r.itemPath(id), nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.itemPath(id), err)
	}
	item, err := decodeItem[T](body, r.itemKeys...)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r resource[T]) Create(ctx context.Context, payload *Payload) (T, error) {
	return r.write(ctx, http.MethodPost, r.path, payload)
}

func (r resource[T]) Update(ctx context.Context, id string, payload *Payload) (T, error) {
	return r.write(ctx, http.MethodPut, r.itemPath(id), payload)
}

func (r resource[T]) Delete(ctx context.Context, id string) error {
	if _, err := r.c.send(ctx, http.MethodDelete, r.itemPath(id), nil); err != nil {
		return fmt.Errorf("delete %s: %w", r.itemPath(id), err)
	}
	return nil
}

func (r resource[T]) write(ctx context.Context, method, path string, payload *Payload) (T, error) {
	var zero T
	body, err := r.c.send(ctx, method, path, payload)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if len(body) == 0 {
		return zero, nil
	}
	return decodeItem[T](body, r.itemKeys...)
}
