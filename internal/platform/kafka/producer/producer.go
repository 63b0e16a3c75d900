// Package producer publishes records to Kafka through franz-go.
package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"saasbase/internal/platform/config"
)

var (
	ErrNoBrokers = errors.New("kafka brokers not configured")
	ErrClosed    = errors.New("producer is closed")
)

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Producer struct {
	client  *kgo.Client
	logger  *slog.Logger
	onError func(topic string, err error)
	closed  atomic.Bool
}

type Option func(*Producer)

// WithDeliveryErrorHook observes asynchronous delivery failures.
func WithDeliveryErrorHook(fn func(topic string, err error)) Option {
	return func(p *Producer) { p.onError = fn }
}

// New connects lazily; use Ping to confirm a broker is reachable.
func New(cfg config.KafkaConfig, logger *slog.Logger, opts ...Option) (*Producer, error) {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	kopts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordRetries(3),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.DeliveryTimeout > 0 {
		kopts = append(kopts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}
	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Producer{client: client, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Produce blocks until the broker acknowledges msg.
func (p *Producer) Produce(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := p.client.ProduceSync(ctx, toRecord(msg)).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// ProduceAsync hands msg to the client's buffer and returns immediately.
func (p *Producer) ProduceAsync(msg *Message) error {
	if p.closed.Load() {
		return ErrClosed
	}
	p.client.Produce(context.Background(), toRecord(msg), p.delivered)
	return nil
}

func (p *Producer) delivered(r *kgo.Record, err error) {
	if err == nil {
		return
	}
	p.logger.Error("kafka delivery failed", "topic", r.Topic, "partition", r.Partition, "error", err)
	if p.onError != nil {
		p.onError(r.Topic, err)
	}
}

func (p *Producer) Ping(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.client.Ping(ctx)
}

// Close waits up to grace for buffered records, then shuts the client down.
// Later calls are no-ops.
func (p *Producer) Close(grace time.Duration) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka producer closed with unflushed records", "error", err)
	}
	p.client.Close()
	return nil
}

func splitBrokers(list string) []string {
	var out []string
	for b := range strings.SplitSeq(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func toRecord(msg *Message) *kgo.Record {
	rec := &kgo.Record{Topic: msg.Topic, Key: msg.Key, Value: msg.Value}
	for k, v := range msg.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return rec
}
