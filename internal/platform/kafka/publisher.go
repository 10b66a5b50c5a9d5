// Package kafka streams estate domain events to a Kafka-compatible broker
// so downstream consumers (court registries, reporting, notifications) can
// follow administration as it happens.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/models"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/config"
)

// Publisher produces domain events to a single topic, keyed by estate ID so
// each estate's history stays ordered within one partition.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a publisher from the provided configuration.
// Returns nil if no brokers are configured (event streaming disabled).
func NewPublisher(cfg config.KafkaConfig, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Publisher{client: client, topic: cfg.Topic, logger: logger}, nil
}

// EnsureTopic creates the events topic when the broker does not have it yet.
// Running against a broker that already carries the topic is a no-op.
func (p *Publisher) EnsureTopic(ctx context.Context, partitions int32, replicas int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replicas, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp.Sorted() {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish enqueues one record per event. It never blocks the mutation that
// produced the events: delivery runs in the client's background machinery
// and failures are logged, not surfaced, because the state change has
// already been persisted.
func (p *Publisher) Publish(ctx context.Context, events ...models.Event) {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.ErrorContext(ctx, "event encoding failed",
				"event_id", event.ID,
				"estate_id", event.EstateID,
				"kind", event.Type,
				"error", err)
			continue
		}

		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(event.EstateID.String()),
			Value: payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(event.Type)},
			},
		}
		eventID := event.ID
		p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
			if err != nil {
				p.logger.Error("event publish failed",
					"event_id", eventID,
					"topic", p.topic,
					"error", err)
			}
		})
	}
}

// Flush blocks until every buffered record has been delivered or failed.
func (p *Publisher) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Health checks broker connectivity.
func (p *Publisher) Health(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close flushes buffered records and releases the client. The flush is
// bounded so shutdown cannot hang on a dead broker.
func (p *Publisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := p.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	return nil
}
