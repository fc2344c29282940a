package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_MarcaUnaSolaVez(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	ctx := context.Background()

	first, err := s.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := s.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.False(t, again)
}

func TestMemoryStore_ReleasePermiteReprocesar(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	ctx := context.Background()

	_, _ = s.MarkProcessed(ctx, "ev-1")
	require.NoError(t, s.Release(ctx, "ev-1"))

	first, err := s.MarkProcessed(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, first)
}

func TestMemoryStore_ConcurrenteUnGanador(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	var winners int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.MarkProcessed(context.Background(), "ev-1"); ok {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners)
}
