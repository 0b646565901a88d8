package listing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront_service/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReporter struct {
	mu      sync.Mutex
	reports []string
}

func (r *countingReporter) Report(ctx context.Context, op string, err error) notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, op)
	return notify.Failure(op, err)
}

func (r *countingReporter) Success(ctx context.Context, op string) notify.Notification {
	return notify.Success(op)
}

func TestLoadStoresItemsAndTogglesLoading(t *testing.T) {
	l := NewLoader[string](notify.OpLoadCategories, &countingReporter{})

	var seenLoading bool
	err := l.Load(context.Background(), func(ctx context.Context) ([]string, error) {
		seenLoading = l.Loading()
		return []string{"Brindes", "Decoração"}, nil
	})
	require.NoError(t, err)
	assert.True(t, seenLoading)

	items, loading := l.Snapshot()
	assert.False(t, loading)
	assert.Equal(t, []string{"Brindes", "Decoração"}, items)
}

func TestLoadFailureReportsOnceAndEmptiesList(t *testing.T) {
	rep := &countingReporter{}
	l := NewLoader[int](notify.OpLoadProducts, rep)
	require.NoError(t, l.Load(context.Background(), func(ctx context.Context) ([]int, error) { return []int{1, 2}, nil }))

	calls := 0
	err := l.Load(context.Background(), func(ctx context.Context) ([]int, error) {
		calls++
		return nil, errors.New("service down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{notify.OpLoadProducts}, rep.reports)

	items, loading := l.Snapshot()
	assert.Empty(t, items)
	assert.False(t, loading)
}

func TestStaleResponseIsDropped(t *testing.T) {
	l := NewLoader[int](notify.OpLoadProducts, &countingReporter{})

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	var firstCtxErr error

	go func() {
		firstDone <- l.Load(context.Background(), func(ctx context.Context) ([]int, error) {
			close(started)
			<-release
			firstCtxErr = ctx.Err()
			return []int{1}, nil
		})
	}()
	<-started

	require.NoError(t, l.Load(context.Background(), func(ctx context.Context) ([]int, error) {
		return []int{2, 3}, nil
	}))
	close(release)

	assert.ErrorIs(t, <-firstDone, ErrSuperseded)
	assert.ErrorIs(t, firstCtxErr, context.Canceled)

	items, loading := l.Snapshot()
	assert.Equal(t, []int{2, 3}, items)
	assert.False(t, loading)
}

func TestStaleResponseDoesNotClearNewerLoading(t *testing.T) {
	l := NewLoader[int](notify.OpLoadProducts, nil)

	firstStarted, releaseFirst := make(chan struct{}), make(chan struct{})
	secondStarted, releaseSecond := make(chan struct{}), make(chan struct{})
	done := make(chan struct{}, 2)

	go func() {
		_ = l.Load(context.Background(), func(ctx context.Context) ([]int, error) {
			close(firstStarted)
			<-releaseFirst
			return []int{1}, nil
		})
		done <- struct{}{}
	}()
	<-firstStarted
	go func() {
		_ = l.Load(context.Background(), func(ctx context.Context) ([]int, error) {
			close(secondStarted)
			<-releaseSecond
			return []int{2}, nil
		})
		done <- struct{}{}
	}()
	<-secondStarted

	close(releaseFirst)
	<-done
	assert.True(t, l.Loading())
	assert.Empty(t, l.Items())

	close(releaseSecond)
	<-done
	assert.False(t, l.Loading())
	assert.Equal(t, []int{2}, l.Items())
}
