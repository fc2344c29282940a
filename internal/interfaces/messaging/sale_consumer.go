// Package messaging consume los eventos de venta publicados en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// SaleRecorder caso de uso que acumula una venta.
type SaleRecorder interface {
	RecordSale(ctx context.Context, ev entity.SaleEvent) (*entity.SalesAggregate, error)
}

// MessageReader subconjunto de *kafka.Reader usado por el consumidor.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultHandleAttempts = 5
	defaultRetryBackoff   = 200 * time.Millisecond
	fetchErrorBackoff     = time.Second
)

// SaleConsumer lee eventos de venta y los registra. El offset se confirma después de procesar,
// así que un reinicio puede reentregar mensajes; el EventID evita contarlos dos veces.
// Un mensaje con fallo reintentable se reintenta antes de leer el siguiente: confirmar un offset
// posterior lo daría por procesado.
type SaleConsumer struct {
	reader         MessageReader
	recorder       SaleRecorder
	handleAttempts int
	retryBackoff   time.Duration
	fetchBackoff   time.Duration
}

// NewSaleConsumer crea el consumidor sobre un lector ya configurado.
func NewSaleConsumer(reader MessageReader, recorder SaleRecorder) *SaleConsumer {
	return &SaleConsumer{
		reader:         reader,
		recorder:       recorder,
		handleAttempts: defaultHandleAttempts,
		retryBackoff:   defaultRetryBackoff,
		fetchBackoff:   fetchErrorBackoff,
	}
}

// NewKafkaReader lector con consumer group para el tópico de ventas.
func NewKafkaReader(brokers []string, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Start procesa mensajes hasta que ctx se cancele o el lector se cierre.
// Si un mensaje sigue fallando tras los reintentos, se detiene sin confirmarlo y devuelve el error.
func (c *SaleConsumer) Start(ctx context.Context) error {
	log.Info().Msg("consumidor de ventas iniciado")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
				log.Info().Msg("consumidor de ventas detenido")
				return nil
			}
			log.Error().Err(err).Msg("leer mensaje de Kafka")
			if !sleep(ctx, c.fetchBackoff) {
				log.Info().Msg("consumidor de ventas detenido")
				return nil
			}
			continue
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("consumidor de ventas detenido")
				return nil
			}
			return fmt.Errorf("procesar venta offset %d partición %d: %w", msg.Offset, msg.Partition, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("confirmar offset")
		}
	}
}

// handleWithRetry reintenta el mismo mensaje con espera lineal; RecordSale libera la clave de
// idempotencia al fallar, así que reintentar no duplica la venta.
func (c *SaleConsumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	attempts := max(c.handleAttempts, 1)
	var err error
	for i := 1; i <= attempts; i++ {
		if err = c.handle(ctx, msg); err == nil {
			return nil
		}
		log.Error().Err(err).Int64("offset", msg.Offset).Int("partition", msg.Partition).Int("attempt", i).Msg("procesar venta")
		if i == attempts || !sleep(ctx, time.Duration(i)*c.retryBackoff) {
			break
		}
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Close cierra el lector.
func (c *SaleConsumer) Close() error { return c.reader.Close() }

// handle devuelve error solo para fallos reintentables; eventos inválidos o repetidos se descartan.
func (c *SaleConsumer) handle(ctx context.Context, msg kafka.Message) error {
	carrier := propagation.MapCarrier{}
	for _, h := range msg.Headers {
		carrier[h.Key] = string(h.Value)
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	var ev entity.SaleEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.Warn().Err(err).Bytes("raw_value", msg.Value).Msg("evento de venta con JSON inválido")
		return nil
	}

	agg, err := c.recorder.RecordSale(ctx, ev)
	switch {
	case err == nil:
		log.Debug().Str("product_id", agg.ProductID).Int64("total", agg.TotalQuantitySold).Msg("venta registrada")
		return nil
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("event_id", ev.EventID).Msg("evento de venta repetido, se ignora")
		return nil
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		log.Warn().Err(err).Str("product_id", ev.ProductID).Msg("evento de venta descartado")
		return nil
	default:
		return err
	}
}
