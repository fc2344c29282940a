// Package idempotency registra los eventos de venta ya procesados para aplicarlos como máximo una vez.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
)

var _ inventory.IdempotencyStore = (*RedisStore)(nil)

const keyPrefix = "stockledger:sale-event:"

// RedisStore almacén compartido entre instancias (SETNX con TTL).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore conecta y verifica Redis.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// MarkProcessed marca el evento de forma atómica; false si ya estaba marcado.
func (s *RedisStore) MarkProcessed(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: marcar evento: %w", err)
	}
	return ok, nil
}

// Release libera la marca de un evento cuyo procesamiento falló.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis: liberar evento: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisStore) Close() error { return s.client.Close() }
