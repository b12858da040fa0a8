// Package resource keeps a client-side cache of one REST collection.
//
// Every mutation goes through the server and is followed by a full refetch: the cache is never
// patched locally, it only ever holds what the last applied list response contained.
package resource

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/task"
)

// Transport performs one JSON request against the backend.
// `in` is encoded as the request body when not nil, the response body is decoded into `out` when not nil.
type Transport interface {
	Do(ctx context.Context, method, path string, in, out interface{}) error
}

// Cache holds the current known state of a collection of T.
// N is the create payload and U the partial update payload.
type Cache[T, N, U any] struct {
	path string
	tr   Transport
	log  core.Logger

	mu      sync.RWMutex
	items   []T
	loading bool
	issued  uint64 // generation of the most recently issued fetch
	applied uint64 // generation of the last response written to items

	// generation of the most recent FetchAll, the only one allowed to clear loading.
	loadingGen uint64
}

func New[T, N, U any](path string, tr Transport, logger core.Logger) *Cache[T, N, U] {
	return &Cache[T, N, U]{
		path:  path,
		tr:    tr,
		log:   logger,
		items: make([]T, 0),
	}
}

func (c *Cache[T, N, U]) Path() string { return c.path }

func (c *Cache[T, N, U]) itemPath(id string) string { return c.path + "/" + id }

// List returns a snapshot of the cached records. It never blocks on the network.
func (c *Cache[T, N, U]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]T, len(c.items))
	copy(list, c.items)
	return list
}

// IsLoading reports whether the most recent FetchAll has not terminated yet.
func (c *Cache[T, N, U]) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Cache[T, N, U]) nextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// replace stores items unless a response issued later has already been applied.
func (c *Cache[T, N, U]) replace(gen uint64, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen <= c.applied {
		c.log.Debug(fmt.Sprintf("resource %s: dropping stale response", c.path), map[string]interface{}{
			"generation": gen,
			"applied":    c.applied,
		})
		return
	}
	if items == nil {
		items = make([]T, 0)
	}
	c.items = items
	c.applied = gen
}

func (c *Cache[T, N, U]) fetch(ctx context.Context, gen uint64) ([]T, error) {
	var items []T
	if err := c.tr.Do(ctx, http.MethodGet, c.path, nil, &items); err != nil {
		return nil, errors.Wrapf(err, "fetching %s", c.path)
	}
	c.replace(gen, items)
	return items, nil
}

// FetchAll reloads the whole collection in the background.
// The returned channel receives the outcome of the fetch (nil on success) and is then closed,
// callers are free to ignore it. Failures are logged and leave the cached records untouched.
func (c *Cache[T, N, U]) FetchAll(ctx context.Context) <-chan error {
	ctx = context.WithoutCancel(ctx)
	done := make(chan error, 1)

	c.mu.Lock()
	c.issued++
	gen := c.issued
	c.loadingGen = gen
	c.loading = true
	c.mu.Unlock()

	go func() {
		defer close(done)

		_, err := c.fetch(ctx, gen)

		c.mu.Lock()
		if gen == c.loadingGen {
			c.loading = false
		}
		c.mu.Unlock()

		if err != nil {
			c.log.Error(fmt.Sprintf("resource %s: %v", c.path, err), err)
		}
		done <- err
	}()
	return done
}

// FetchAllTask returns a cold task that reloads the collection when run.
// It does not touch the loading flag: whoever coordinates it owns the loading state.
func (c *Cache[T, N, U]) FetchAllTask() task.Task[[]T] {
	return func(ctx context.Context) ([]T, error) {
		return c.fetch(ctx, c.nextGeneration())
	}
}

// refresh chains a FetchAll after a successful mutation and waits for it.
func (c *Cache[T, N, U]) refresh(ctx context.Context) {
	select {
	case <-c.FetchAll(ctx):
	case <-ctx.Done():
	}
}

func (c *Cache[T, N, U]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	if err := c.tr.Do(ctx, http.MethodGet, c.itemPath(id), nil, &rec); err != nil {
		return rec, errors.Wrapf(err, "getting %s/%s", c.path, id)
	}
	return rec, nil
}

func (c *Cache[T, N, U]) Create(ctx context.Context, data N) (T, error) {
	var rec T
	if err := c.tr.Do(ctx, http.MethodPost, c.path, data, &rec); err != nil {
		return rec, errors.Wrapf(err, "creating %s", c.path)
	}
	c.refresh(ctx)
	return rec, nil
}

func (c *Cache[T, N, U]) Update(ctx context.Context, id string, data U) (T, error) {
	var rec T
	if err := c.tr.Do(ctx, http.MethodPatch, c.itemPath(id), data, &rec); err != nil {
		return rec, errors.Wrapf(err, "updating %s/%s", c.path, id)
	}
	c.refresh(ctx)
	return rec, nil
}

func (c *Cache[T, N, U]) Delete(ctx context.Context, id string) error {
	if err := c.tr.Do(ctx, http.MethodDelete, c.itemPath(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting %s/%s", c.path, id)
	}
	c.refresh(ctx)
	return nil
}
