package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Event types published after a successful commit.
const (
	EventoVentaConfirmada = "venta.confirmada"
	EventoAcopioEntregado = "acopio.entregado"
	EventoLoteRegistrado  = "lote.registrado"
	EventoLoteFinalizado  = "lote.finalizado"
	EventoLoteListo       = "lote.listo"
	EventoCatalogo        = "catalogo.reemplazado"
)

// Evento is the envelope every message carries. Key orders events of the
// same aggregate within a partition.
type Evento struct {
	Tipo  string    `json:"tipo"`
	Key   string    `json:"key"`
	Fecha time.Time `json:"fecha"`
	Datos any       `json:"datos"`
}

// Publisher is best effort: a failure is returned but never undoes the
// operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, ev Evento) error
	Close() error
}

// ── Kafka ─────────────────────────────────────────────────────────────────────

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Evento) error {
	if ev.Fecha.IsZero() {
		ev.Fecha = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal evento %s: %w", ev.Tipo, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(ev.Key),
		Value:   payload,
		Time:    ev.Fecha,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(ev.Tipo)}},
	})
	if err != nil {
		return fmt.Errorf("kafka: write %s: %w", ev.Tipo, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// ── Log only ──────────────────────────────────────────────────────────────────

// LogPublisher is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev Evento) error {
	log.Debug().Str("tipo", ev.Tipo).Str("key", ev.Key).Msg("evento")
	return nil
}

func (LogPublisher) Close() error { return nil }
