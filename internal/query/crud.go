package query

import (
	"context"
	"errors"

	"larplaner/internal/api"
)

// ErrNoID marks a disabled single-item read: no id was supplied, so no
// request is issued.
var ErrNoID = errors.New("no id provided")

// Crud is the cache-aware operation set for one entity kind. Reads go through
// the store; mutations hit the backend first and invalidate dependent cache
// entries only after they succeed.
type Crud[E, G, P any] struct {
	Entity   string
	Resource api.Resource[E, G, P]
	Store    *Store
}

// NewCrud assembles the operation set from an entity name, its resource
// config and the shared store.
func NewCrud[E, G, P any](entity string, res api.Resource[E, G, P], store *Store) Crud[E, G, P] {
	return Crud[E, G, P]{Entity: entity, Resource: res, Store: store}
}

func (c Crud[E, G, P]) GetAll(ctx context.Context) ([]E, error) {
	return Fetch(ctx, c.Store, CollectionKey(c.Entity), c.Resource.GetAll)
}

func (c Crud[E, G, P]) GetByID(ctx context.Context, id string) (E, error) {
	if id == "" {
		var zero E
		return zero, ErrNoID
	}
	return Fetch(ctx, c.Store, DetailKey(c.Entity, id), func(ctx context.Context) (E, error) {
		return c.Resource.GetByID(ctx, id)
	})
}

func (c Crud[E, G, P]) Create(ctx context.Context, entity E) (E, error) {
	created, err := c.Resource.Create(ctx, entity)
	if err != nil {
		return created, err
	}
	c.Store.Invalidate(CollectionKey(c.Entity))
	return created, nil
}

func (c Crud[E, G, P]) Update(ctx context.Context, id string, entity E) (E, error) {
	if id == "" {
		var zero E
		return zero, ErrNoID
	}
	updated, err := c.Resource.Update(ctx, id, entity)
	if err != nil {
		return updated, err
	}
	c.Store.Invalidate(CollectionKey(c.Entity))
	c.Store.Invalidate(DetailKey(c.Entity, id))
	return updated, nil
}

func (c Crud[E, G, P]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoID
	}
	if err := c.Resource.Delete(ctx, id); err != nil {
		return err
	}
	c.Store.Invalidate(CollectionKey(c.Entity))
	c.Store.Invalidate(DetailKey(c.Entity, id))
	return nil
}
