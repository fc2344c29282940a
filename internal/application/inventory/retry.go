package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger-api/internal/domain"
)

// DefaultMaxAttempts intentos por operación ante ErrConflict (serialización o deadlock).
const DefaultMaxAttempts = 3

const retryBackoff = 15 * time.Millisecond

// runWithRetry reintenta fn completa mientras falle con ErrConflict; cada intento
// vuelve a evaluar las validaciones dentro de una transacción nueva.
func runWithRetry(ctx context.Context, attempts int, op string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", i).Msg("conflicto de concurrencia, reintentando")
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * retryBackoff):
		}
	}
	return err
}
