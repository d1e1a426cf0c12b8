package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/marquee/internal/catalog"
)

// ErrClosed is returned by operations on a List whose owner has gone away.
var ErrClosed = errors.New("list closed")

// FetchFunc loads the current collection (or page) from the server. total is
// the size of the whole server collection; for unpaged fetches it equals
// len(items).
type FetchFunc[T any] func(ctx context.Context) (items []T, total int, err error)

// Mutator performs the remote half of create, update and delete.
type Mutator[T any, In any] interface {
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, in In) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Snapshot is a copy of the list state safe to hand to a view.
type Snapshot[T any] struct {
	Items               []T
	Total               int
	Loading             bool
	Loaded              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for several refreshes.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// List mirrors one server collection. Mutations are applied locally only after
// the server confirms them; a failed call leaves the collection untouched.
// Operations are serialized, so a refresh issued after a mutation always
// observes that mutation's outcome.
type List[T any, In any] struct {
	fetch   FetchFunc[T]
	mutator Mutator[T, In]
	idOf    func(T) int64
	resync  bool

	ops sync.Mutex

	mu       sync.RWMutex
	snapshot Snapshot[T]
	closed   bool
}

// Option customises a List.
type Option func(*listOptions)

type listOptions struct {
	resync bool
}

// WithResync makes create and update reconcile by refetching instead of
// patching the local collection. Paged lists need this since a new entity may
// belong to another page.
func WithResync() Option {
	return func(o *listOptions) { o.resync = true }
}

// NewList builds a List. idOf must return the server-assigned id of an entity.
func NewList[T any, In any](fetch FetchFunc[T], mutator Mutator[T, In], idOf func(T) int64, opts ...Option) *List[T, In] {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &List[T, In]{
		fetch:   fetch,
		mutator: mutator,
		idOf:    idOf,
		resync:  o.resync,
	}
}

// FetchAll adapts an unpaged List call to a FetchFunc.
func FetchAll[T any](list func(context.Context) ([]T, error)) FetchFunc[T] {
	return func(ctx context.Context) ([]T, int, error) {
		items, err := list(ctx)
		if err != nil {
			return nil, 0, err
		}
		return items, len(items), nil
	}
}

// Refresh replaces the collection with the server's. On failure the previous
// items stay visible and the error is recorded.
func (l *List[T, In]) Refresh(ctx context.Context) error {
	l.ops.Lock()
	defer l.ops.Unlock()
	return l.refreshLocked(ctx)
}

func (l *List[T, In]) refreshLocked(ctx context.Context) error {
	if l.isClosed() {
		return ErrClosed
	}
	if l.fetch == nil {
		return fmt.Errorf("list has no fetch function")
	}

	l.mu.Lock()
	l.snapshot.Loading = true
	l.mu.Unlock()

	items, total, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.snapshot.Loading = false
	l.snapshot.LastUpdated = time.Now()
	if err != nil {
		l.snapshot.LastError = err
		l.snapshot.ConsecutiveFailures++
		return err
	}
	l.snapshot.Items = clone(items)
	l.snapshot.Total = total
	l.snapshot.Loaded = true
	l.snapshot.LastError = nil
	l.snapshot.ConsecutiveFailures = 0
	return nil
}

// Create asks the server to create in and, on success, makes the returned
// entity appear exactly once in the collection.
func (l *List[T, In]) Create(ctx context.Context, in In) (T, error) {
	l.ops.Lock()
	defer l.ops.Unlock()

	var zero T
	if l.isClosed() {
		return zero, ErrClosed
	}
	created, err := l.mutator.Create(ctx, in)
	if err != nil {
		return zero, err
	}

	id := l.idOf(created)
	if l.resync || id == 0 {
		// The server did not echo the entity or its position is unknown.
		// A failed refetch is recorded on the snapshot.
		_ = l.refreshLocked(ctx)
		return created, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return created, nil
	}
	if idx := l.indexLocked(id); idx >= 0 {
		l.snapshot.Items[idx] = created
	} else {
		l.snapshot.Items = append(l.snapshot.Items, created)
		l.snapshot.Total++
	}
	return created, nil
}

// Update asks the server to update the entity with id and replaces it in place.
func (l *List[T, In]) Update(ctx context.Context, id int64, in In) (T, error) {
	l.ops.Lock()
	defer l.ops.Unlock()

	var zero T
	if l.isClosed() {
		return zero, ErrClosed
	}
	updated, err := l.mutator.Update(ctx, id, in)
	if err != nil {
		return zero, err
	}

	if l.resync || l.idOf(updated) != id {
		_ = l.refreshLocked(ctx)
		return updated, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return updated, nil
	}
	if idx := l.indexLocked(id); idx >= 0 {
		l.snapshot.Items[idx] = updated
	}
	return updated, nil
}

// Remove asks the server to delete the entity with id and drops it locally.
// Deleting an id the server no longer knows counts as success.
func (l *List[T, In]) Remove(ctx context.Context, id int64) error {
	l.ops.Lock()
	defer l.ops.Unlock()

	if l.isClosed() {
		return ErrClosed
	}
	if err := l.mutator.Delete(ctx, id); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}

	if l.resync {
		_ = l.refreshLocked(ctx)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	before := len(l.snapshot.Items)
	l.snapshot.Items = slices.DeleteFunc(l.snapshot.Items, func(item T) bool {
		return l.idOf(item) == id
	})
	if removed := before - len(l.snapshot.Items); removed > 0 {
		l.snapshot.Total -= removed
		if l.snapshot.Total < 0 {
			l.snapshot.Total = 0
		}
	}
	return nil
}

// Forget drops the entity with id locally, without a server call. It is used
// when a lookup shows the server no longer has it.
func (l *List[T, In]) Forget(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexLocked(id)
	if l.closed || idx < 0 {
		return false
	}
	l.snapshot.Items = slices.Delete(l.snapshot.Items, idx, idx+1)
	if l.snapshot.Total > 0 {
		l.snapshot.Total--
	}
	return true
}

// Resyncs reports whether mutations end with a refetch of the collection.
func (l *List[T, In]) Resyncs() bool { return l.resync }

// Close detaches the list from its owner. Results of calls still in flight are
// discarded and later calls return ErrClosed.
func (l *List[T, In]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.snapshot.Loading = false
}

// Snapshot returns a copy of the current state.
func (l *List[T, In]) Snapshot() Snapshot[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := l.snapshot
	snap.Items = clone(l.snapshot.Items)
	if l.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", l.snapshot.LastError)
	}
	return snap
}

// Find returns the entity with id, if present.
func (l *List[T, In]) Find(id int64) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if idx := l.indexLocked(id); idx >= 0 {
		return l.snapshot.Items[idx], true
	}
	var zero T
	return zero, false
}

func (l *List[T, In]) isClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

func (l *List[T, In]) indexLocked(id int64) int {
	return slices.IndexFunc(l.snapshot.Items, func(item T) bool {
		return l.idOf(item) == id
	})
}

// Sorted returns a stably sorted copy of items, leaving items untouched.
func Sorted[T any](items []T, cmp func(a, b T) int) []T {
	out := clone(items)
	slices.SortStableFunc(out, cmp)
	return out
}

func clone[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
