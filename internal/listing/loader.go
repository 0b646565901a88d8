// Package listing holds fetched lists together with their loading state.
package listing

import (
	"context"
	"errors"
	"sync"

	"storefront_service/internal/notify"
)

// ErrSuperseded is returned by a Load whose result was dropped because a newer
// Load started before it finished.
var ErrSuperseded = errors.New("load superseded by a newer request")

type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Loader keeps the result of the latest fetch. Only the most recently started
// Load may write items or clear the loading flag.
type Loader[T any] struct {
	op       string
	reporter notify.Reporter

	mu      sync.Mutex
	items   []T
	loading bool
	gen     uint64
	cancel  context.CancelFunc
}

func NewLoader[T any](op string, reporter notify.Reporter) *Loader[T] {
	return &Loader[T]{op: op, reporter: reporter}
}

// Load runs fetch and stores its result. A failed fetch is reported once and
// leaves the list empty.
func (l *Loader[T]) Load(ctx context.Context, fetch FetchFunc[T]) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	l.mu.Unlock()

	items, err := fetch(fetchCtx)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		cancel()
		return ErrSuperseded
	}
	cancel()
	l.cancel = nil
	l.loading = false
	if err != nil {
		l.items = nil
	} else {
		l.items = items
	}
	l.mu.Unlock()

	if err != nil {
		if l.reporter != nil {
			l.reporter.Report(ctx, l.op, err)
		}
		return err
	}
	return nil
}

// Snapshot returns a copy of the items and the loading flag.
func (l *Loader[T]) Snapshot() ([]T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out, l.loading
}

func (l *Loader[T]) Items() []T {
	items, _ := l.Snapshot()
	return items
}

func (l *Loader[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
