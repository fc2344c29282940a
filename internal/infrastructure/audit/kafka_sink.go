package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// messageWriter subconjunto de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publica cada registro como JSON en un tópico, con el id de la entidad como clave
// para conservar el orden por lote.
type KafkaSink struct {
	w messageWriter
}

// NewKafkaSink construye el writer para los brokers y tópico dados.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Publish serializa y escribe el registro.
func (s *KafkaSink) Publish(ctx context.Context, rec entity.ChangeRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("kafka: serializar registro: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(rec.EntityID),
		Value: body,
		Time:  rec.Timestamp,
		Headers: []kafka.Header{
			{Key: "entity", Value: []byte(rec.Entity)},
			{Key: "operation", Value: []byte(rec.Operation)},
		},
	}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: escribir registro: %w", err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (s *KafkaSink) Close() error { return s.w.Close() }
