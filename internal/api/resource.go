package api

import (
	"context"
	"net/url"
)

// Resource is the uniform verb set for one backend collection, parameterized
// by the domain entity E, its response DTO G and its request DTO P. The two
// converters are the only entity-specific code involved.
type Resource[E, G, P any] struct {
	Client   *Client
	BasePath string
	FromDTO  func(G) E
	ToDTO    func(E) P
}

// GetAll fetches the whole collection and maps every element to its domain
// shape.
func (r Resource[E, G, P]) GetAll(ctx context.Context) ([]E, error) {
	var dtos []G
	if err := r.Client.Get(ctx, r.BasePath, &dtos); err != nil {
		return nil, err
	}
	out := make([]E, len(dtos))
	for i, dto := range dtos {
		out[i] = r.FromDTO(dto)
	}
	return out, nil
}

// GetByID fetches a single entity. A 404 surfaces as ErrNotFound via the
// client's APIError.
func (r Resource[E, G, P]) GetByID(ctx context.Context, id string) (E, error) {
	var dto G
	if err := r.Client.Get(ctx, r.itemPath(id), &dto); err != nil {
		var zero E
		return zero, err
	}
	return r.FromDTO(dto), nil
}

// Create posts the entity (without id) and returns the persisted entity, now
// carrying the server-assigned id.
func (r Resource[E, G, P]) Create(ctx context.Context, entity E) (E, error) {
	var dto G
	if err := r.Client.Post(ctx, r.BasePath, r.ToDTO(entity), &dto); err != nil {
		var zero E
		return zero, err
	}
	return r.FromDTO(dto), nil
}

// Update puts the entity under its id and returns the backend's view of it.
func (r Resource[E, G, P]) Update(ctx context.Context, id string, entity E) (E, error) {
	var dto G
	if err := r.Client.Put(ctx, r.itemPath(id), r.ToDTO(entity), &dto); err != nil {
		var zero E
		return zero, err
	}
	return r.FromDTO(dto), nil
}

// Delete removes the entity by id.
func (r Resource[E, G, P]) Delete(ctx context.Context, id string) error {
	return r.Client.Delete(ctx, r.itemPath(id))
}

func (r Resource[E, G, P]) itemPath(id string) string {
	return r.BasePath + "/" + url.PathEscape(id)
}
