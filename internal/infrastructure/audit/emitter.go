// Package audit entrega los registros de cambio del ledger a un sink externo
// (log, Kafka o RabbitMQ) de forma asíncrona y de mejor esfuerzo.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

var _ inventory.AuditEmitter = (*AsyncEmitter)(nil)

// Sink destino de los registros de auditoría.
type Sink interface {
	Publish(ctx context.Context, rec entity.ChangeRecord) error
	Close() error
}

const publishTimeout = 5 * time.Second

// AsyncEmitter encola los registros y los publica desde un único worker.
// Emit nunca bloquea: con la cola llena el registro se descarta y se deja constancia en el log.
type AsyncEmitter struct {
	sink  Sink
	queue chan entity.ChangeRecord

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsyncEmitter arranca el worker de publicación.
func NewAsyncEmitter(sink Sink, buffer int) *AsyncEmitter {
	if buffer <= 0 {
		buffer = 1
	}
	e := &AsyncEmitter{
		sink:  sink,
		queue: make(chan entity.ChangeRecord, buffer),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit encola el registro sin esperar su entrega.
func (e *AsyncEmitter) Emit(_ context.Context, rec entity.ChangeRecord) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		log.Warn().Str("entity_id", rec.EntityID).Msg("auditoría: emisor cerrado, registro descartado")
		return
	}
	select {
	case e.queue <- rec:
	default:
		log.Warn().
			Str("entity", rec.Entity).
			Str("entity_id", rec.EntityID).
			Str("operation", string(rec.Operation)).
			Msg("auditoría: cola llena, registro descartado")
	}
}

// Close deja de aceptar registros, publica los pendientes y cierra el sink.
func (e *AsyncEmitter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	<-e.done
	return e.sink.Close()
}

func (e *AsyncEmitter) run() {
	defer close(e.done)
	for rec := range e.queue {
		e.publish(rec)
	}
}

func (e *AsyncEmitter) publish(rec entity.ChangeRecord) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("entity_id", rec.EntityID).Msg("auditoría: panic en sink")
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := e.sink.Publish(ctx, rec); err != nil {
		log.Error().Err(err).
			Str("entity", rec.Entity).
			Str("entity_id", rec.EntityID).
			Str("operation", string(rec.Operation)).
			Msg("auditoría: no se pudo publicar el registro")
	}
}
