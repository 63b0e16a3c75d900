//go:build integration

package containers

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaBroker is a single-node KRaft cluster.
type KafkaBroker struct {
	Container testcontainers.Container
	Brokers   string
}

func startKafka(ctx context.Context) (*KafkaBroker, error) {
	c, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0", kafka.WithClusterID("saasbase-test"))
	if err != nil {
		return nil, err
	}
	brokers, err := c.Brokers(ctx)
	if err != nil {
		return nil, abandon(ctx, c, "kafka brokers", err)
	}
	return &KafkaBroker{Container: c, Brokers: brokers[0]}, nil
}

func (k *KafkaBroker) CreateTopic(ctx context.Context, topic string) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(k.Brokers))
	if err != nil {
		return err
	}
	defer client.Close()
	resp, err := kadm.NewClient(client).CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil {
		return err
	}
	return resp.Err
}

// Consumer reads topics from the earliest offset without committing.
func (k *KafkaBroker) Consumer(group string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(k.Brokers),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	)
}

// FirstMatch polls client until match accepts a record or wait elapses.
// It returns nil on timeout.
func (k *KafkaBroker) FirstMatch(ctx context.Context, client *kgo.Client, wait time.Duration, match func(*kgo.Record) bool) *kgo.Record {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	for ctx.Err() == nil {
		fetches := client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			if rec := iter.Next(); match(rec) {
				return rec
			}
		}
	}
	return nil
}
