package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/singleflight"

	"github.com/abrezinsky/hackjudge/internal/logger"
)

type row struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", []row{{Name: "a", Score: 1.5}}, 0))

	var got []row
	require.NoError(t, m.Get(ctx, "k", &got))
	assert.Equal(t, []row{{Name: "a", Score: 1.5}}, got)

	require.NoError(t, m.Delete(ctx, "k"))
	assert.ErrorIs(t, m.Get(ctx, "k", &got), ErrMiss)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", 1, time.Minute))

	var v int
	require.NoError(t, m.Get(ctx, "k", &v))

	now = now.Add(time.Minute)
	assert.ErrorIs(t, m.Get(ctx, "k", &v), ErrMiss)
}

func TestNoop_AlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Noop
	require.NoError(t, c.Set(ctx, "k", 1, 0))
	var v int
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrMiss)
}

func TestFindAndCache_LoadsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var sf singleflight.Group
	var calls int32

	fetch := func(context.Context) ([]row, error) {
		atomic.AddInt32(&calls, 1)
		return []row{{Name: "a", Score: 2}}, nil
	}

	first, err := FindAndCache(ctx, m, &sf, "board", time.Minute, logger.NewNop(), fetch)
	require.NoError(t, err)
	second, err := FindAndCache(ctx, m, &sf, "board", time.Minute, logger.NewNop(), fetch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFindAndCache_ErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var sf singleflight.Group
	boom := errors.New("boom")

	_, err := FindAndCache(ctx, m, &sf, "k", time.Minute, logger.NewNop(), func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := FindAndCache(ctx, m, &sf, "k", time.Minute, logger.NewNop(), func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFindAndCache_ConcurrentMissesShareLoad(t *testing.T) {
	ctx := context.Background()
	var sf singleflight.Group
	var calls int32
	release := make(chan struct{})

	fetch := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := FindAndCache(ctx, Noop{}, &sf, "k", time.Minute, logger.NewNop(), fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}
