package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/client/models"
	"github.com/dmitrijs2005/labagenda/internal/common"
)

// collection is the typed CRUD shared by Subjects and Sessions.
type collection[T any] struct {
	name     string
	store    DocumentStore
	now      func() time.Time
	cmp      func(a, b T) int
	defaults models.Fields
}

func (c *collection[T]) stamp() string {
	return c.now().UTC().Format(time.RFC3339Nano)
}

func (c *collection[T]) query(ctx context.Context, owner string, filter Filter) ([]T, error) {
	if owner == "" {
		return nil, fmt.Errorf("list %s: %w", c.name, common.ErrUnauthenticated)
	}
	f := Filter{common.FieldOwnerID: owner}
	for k, v := range filter {
		f[k] = v
	}

	docs, err := c.store.Query(ctx, c.name, f)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := decode[T](d)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, d.ID, err)
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, c.cmp)
	return out, nil
}

func (c *collection[T]) create(ctx context.Context, owner string, fields models.Fields) (T, error) {
	var zero T
	if owner == "" {
		return zero, fmt.Errorf("create %s: %w", c.name, common.ErrUnauthenticated)
	}

	f := models.Fields{}
	for k, v := range c.defaults {
		f[k] = v
	}
	for k, v := range fields {
		f[k] = v
	}
	delete(f, "id")
	ts := c.stamp()
	f[common.FieldOwnerID] = owner
	f[common.FieldCreatedAt] = ts
	f[common.FieldUpdatedAt] = ts

	id, err := c.store.Add(ctx, c.name, f)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", c.name, err)
	}
	return decode[T](Document{ID: id, Fields: f})
}

// update merges fields into an existing row. Ownership and creation time
// cannot be changed through it.
func (c *collection[T]) update(ctx context.Context, id string, fields models.Fields) error {
	if _, err := c.store.Get(ctx, c.name, id); err != nil {
		return fmt.Errorf("update %s/%s: %w", c.name, id, err)
	}

	f := fields.Clone()
	delete(f, "id")
	delete(f, common.FieldOwnerID)
	delete(f, common.FieldCreatedAt)
	f[common.FieldUpdatedAt] = c.stamp()

	if err := c.store.Set(ctx, c.name, id, f, true); err != nil {
		return fmt.Errorf("update %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, c.name, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return nil
}

func decode[T any](d Document) (T, error) {
	var v T
	f := d.Fields.Clone()
	f["id"] = d.ID
	b, err := json.Marshal(f)
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(b, &v)
	return v, err
}
