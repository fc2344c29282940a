package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// RabbitMQSink publica en un exchange topic con routing key <prefijo>.<entidad>.<operación>.
type RabbitMQSink struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	prefix   string
}

// NewRabbitMQSink conecta y declara el exchange (topic, durable).
func NewRabbitMQSink(url, exchange, routingPrefix string) (*RabbitMQSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: conectar: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declarar exchange: %w", err)
	}
	return &RabbitMQSink{conn: conn, ch: ch, exchange: exchange, prefix: routingPrefix}, nil
}

// Publish envía el registro como mensaje persistente.
func (s *RabbitMQSink) Publish(ctx context.Context, rec entity.ChangeRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar registro: %w", err)
	}
	err = s.ch.PublishWithContext(ctx, s.exchange, routingKey(s.prefix, rec), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    rec.ID,
		Timestamp:    rec.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publicar registro: %w", err)
	}
	return nil
}

// Close cierra canal y conexión.
func (s *RabbitMQSink) Close() error {
	_ = s.ch.Close()
	return s.conn.Close()
}

func routingKey(prefix string, rec entity.ChangeRecord) string {
	parts := []string{strings.ToLower(rec.Entity), strings.ToLower(string(rec.Operation))}
	if prefix != "" {
		parts = append([]string{prefix}, parts...)
	}
	return strings.Join(parts, ".")
}
