package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"boxoffice/pkg/logger"

	"github.com/IBM/sarama"
)

// PurchaseProducer publishes purchase events
type PurchaseProducer interface {
	PublishPurchaseCompleted(ctx context.Context, event *PurchaseEvent) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka purchase producer
type KafkaProducerConfig struct {
	Brokers          []string
	PurchaseTopic    string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		PurchaseTopic:    "ticket-purchases",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// SaramaConfig builds the sarama producer configuration
func (c *KafkaProducerConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = c.MaxMessageBytes

	// Idempotent producers need a single in-flight request
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps an account's events in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	return saramaConfig
}

// KafkaPurchaseProducer handles publishing purchase events to Kafka
type KafkaPurchaseProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	logger   *logger.Logger
}

// NewKafkaPurchaseProducer dials the brokers and creates a producer
func NewKafkaPurchaseProducer(config *KafkaProducerConfig, l *logger.Logger) (*KafkaPurchaseProducer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPurchaseProducerWith(producer, config, l), nil
}

// NewKafkaPurchaseProducerWith wraps an existing sync producer
func NewKafkaPurchaseProducerWith(producer sarama.SyncProducer, config *KafkaProducerConfig, l *logger.Logger) *KafkaPurchaseProducer {
	if l == nil {
		l = logger.GetDefault()
	}
	return &KafkaPurchaseProducer{
		producer: producer,
		config:   config,
		logger:   l,
	}
}

// PublishPurchaseCompleted publishes a single purchase event to Kafka
func (kp *KafkaPurchaseProducer) PublishPurchaseCompleted(ctx context.Context, event *PurchaseEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal purchase event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.PurchaseTopic,
		Key:       sarama.StringEncoder(event.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   kp.createHeaders(event),
		Timestamp: event.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send purchase event to Kafka: %w", err)
	}

	kp.logger.DebugContext(ctx, "Purchase event published",
		slog.String("topic", kp.config.PurchaseTopic),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
		slog.Int64("account_id", event.AccountID),
	)
	return nil
}

// createHeaders creates Kafka headers for purchase events
func (kp *KafkaPurchaseProducer) createHeaders(event *PurchaseEvent) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("account_id"), Value: []byte(event.GetPartitionKey())},
		{Key: []byte("producer"), Value: []byte("boxoffice")},
		{Key: []byte("created_at"), Value: []byte(event.CreatedAt.Format(time.RFC3339))},
	}
}

// Close closes the underlying producer
func (kp *KafkaPurchaseProducer) Close() error {
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// NoopProducer drops events, used when Kafka is disabled
type NoopProducer struct{}

func (NoopProducer) PublishPurchaseCompleted(ctx context.Context, event *PurchaseEvent) error {
	return nil
}

func (NoopProducer) Close() error {
	return nil
}
