package views

import (
	"context"
	"sync"

	"rateview/internal/apierr"
	"rateview/internal/models"

	"github.com/rs/zerolog"
)

// FetchFunc loads the collection matching a query.
type FetchFunc[T any] func(ctx context.Context, q models.ListQuery) ([]T, error)

// ListController binds mutable filter/sort criteria to a remote fetch and
// keeps one result collection current. Every criteria change issues exactly
// one fetch; a successful fetch replaces the whole collection. Responses are
// sequence-numbered, and a response that arrives after a newer request was
// issued is discarded, so the displayed data always reflects the latest
// criteria (last request wins).
type ListController[T any] struct {
	fetch  FetchFunc[T]
	logger zerolog.Logger

	mu       sync.Mutex
	query    models.ListQuery
	items    []T
	lastErr  string
	seq      uint64
	started  bool
	onUpdate func()
}

func NewListController[T any](fetch FetchFunc[T], logger zerolog.Logger) *ListController[T] {
	return &ListController[T]{fetch: fetch, logger: logger}
}

// OnUpdate registers a callback invoked after each applied collection
// change. The rendering layer hangs off this.
func (c *ListController[T]) OnUpdate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

// SetCriteria replaces the whole criteria value. Criteria equal by value to
// the current one are a no-op: no redundant fetch is issued. Otherwise one
// fetch runs before SetCriteria returns.
func (c *ListController[T]) SetCriteria(ctx context.Context, q models.ListQuery) error {
	c.mu.Lock()
	if c.started && q == c.query {
		c.mu.Unlock()
		return nil
	}
	c.query = q
	c.started = true
	c.seq++
	seq := c.seq
	c.mu.Unlock()
	return c.run(ctx, seq, q)
}

// Refresh re-runs the fetch with the current criteria unconditionally. Used
// for initial loads and after mutations that invalidate the collection.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.started = true
	c.seq++
	seq := c.seq
	q := c.query
	c.mu.Unlock()
	return c.run(ctx, seq, q)
}

func (c *ListController[T]) run(ctx context.Context, seq uint64, q models.ListQuery) error {
	items, err := c.fetch(ctx, q)

	c.mu.Lock()
	if seq < c.seq {
		c.mu.Unlock()
		c.logger.Debug().Uint64("seq", seq).Msg("Stale list response discarded")
		return nil
	}
	if err != nil {
		// The previous collection stays on screen; only the error line moves.
		c.lastErr = apierr.DisplayMessage(err)
		c.mu.Unlock()
		c.logger.Warn().Err(err).Msg("List fetch failed")
		return err
	}
	c.items = items
	c.lastErr = ""
	notify := c.onUpdate
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
	return nil
}

// Items returns the current collection. The slice is shared; callers must
// treat it as read-only.
func (c *ListController[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

func (c *ListController[T]) Criteria() models.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// LastError is the display message of the most recent failed fetch, empty
// after any successful one.
func (c *ListController[T]) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
