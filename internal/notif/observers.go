package notif

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"venuehub/internal/common"
	"venuehub/internal/config"
)

// LogObserver writes every event to the service log.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{log: logger}
}

func (l *LogObserver) Name() string {
	return "log_observer"
}

func (l *LogObserver) Update(event common.MessageEvent) error {
	l.log.Info("message event",
		zap.String("type", string(event.Type)),
		zap.String("message_id", event.MessageID),
		zap.String("sender_id", event.SenderID),
		zap.String("receiver_id", event.ReceiverID),
		zap.Int("count", event.Count),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

// KafkaWriter is satisfied by *kafka.Writer.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaObserver publishes events as JSON. Events are keyed by the sender and
// receiver pair so one thread's events land on one partition.
type KafkaObserver struct {
	writer  KafkaWriter
	timeout time.Duration
}

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
	})
}

func NewKafkaObserver(writer KafkaWriter) *KafkaObserver {
	return &KafkaObserver{writer: writer, timeout: 5 * time.Second}
}

func (k *KafkaObserver) Name() string {
	return "kafka_observer"
}

func (k *KafkaObserver) Update(event common.MessageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

func (k *KafkaObserver) Close() error {
	return k.writer.Close()
}
