package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

var _ inventory.IdempotencyStore = (*MemoryStore)(nil)

// MemoryStore almacén local acotado en tamaño y con expiración (una sola instancia).
type MemoryStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, struct{}]
}

// NewMemoryStore crea el almacén con capacidad size y TTL ttl.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1
	}
	return &MemoryStore{cache: expirable.NewLRU[string, struct{}](size, nil, ttl)}
}

// MarkProcessed marca la clave; false si ya estaba presente y vigente.
func (s *MemoryStore) MarkProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache.Contains(key) {
		return false, nil
	}
	s.cache.Add(key, struct{}{})
	return true, nil
}

// Release elimina la marca.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

// Close no hace nada.
func (s *MemoryStore) Close() error { return nil }
