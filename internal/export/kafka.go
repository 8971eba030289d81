package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/gridatlas/capacidad/internal/domain"
)

// Publisher produces node-record snapshots to a Kafka topic, one message per
// node, keyed by node name so consumers see the latest state per node under
// log compaction.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the snapshot topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSnapshot serializes every row of the table and publishes the batch
// in a single WriteMessages call. All messages of one snapshot carry the same
// snapshot_at header.
func (p *Publisher) PublishSnapshot(ctx context.Context, t *domain.Table) error {
	if t.Len() == 0 {
		return nil
	}
	snapshotAt := domain.Now().UTC().Format(time.RFC3339)

	msgs := make([]kafkago.Message, t.Len())
	for i := range t.Nodes {
		msg, err := serializeToMessage(&t.Nodes[i], snapshotAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	p.logger.Info("snapshot published", "topic", p.writer.Topic, "nodes", t.Len())
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a node record into a Kafka message.
func serializeToMessage(r *domain.NodeRecord, snapshotAt string) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize node %s: %w", r.Node, err)
	}
	return kafkago.Message{
		Key:   []byte(r.Node),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "ccaa", Value: []byte(r.Region)},
			{Key: "snapshot_at", Value: []byte(snapshotAt)},
		},
	}, nil
}
