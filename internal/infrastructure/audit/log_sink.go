package audit

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// LogSink escribe los registros en el log estructurado (sink por defecto).
type LogSink struct{}

// Publish registra el cambio con sus instantáneas.
func (LogSink) Publish(_ context.Context, rec entity.ChangeRecord) error {
	log.Info().
		Str("audit_id", rec.ID).
		Str("entity", rec.Entity).
		Str("entity_id", rec.EntityID).
		Str("operation", string(rec.Operation)).
		Interface("old_value", rec.Before).
		Interface("new_value", rec.After).
		Time("timestamp", rec.Timestamp).
		Msg("auditoría")
	return nil
}

// Close no hace nada.
func (LogSink) Close() error { return nil }
