package kafka

import (
	"Crosspost/internal/api/config"
	"Crosspost/internal/model"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// PublishedNotifier 发布成功后向下游广播
type PublishedNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublishedNotifier(cfg config.KafkaConfig) (*PublishedNotifier, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewPublishedNotifierWithProducer(producer, cfg.PublishedTopic), nil
}

func NewPublishedNotifierWithProducer(producer sarama.SyncProducer, topic string) *PublishedNotifier {
	return &PublishedNotifier{producer: producer, topic: topic}
}

// NotifyPublished 以 clerkId 为 key，保证同一用户的消息有序
func (n *PublishedNotifier) NotifyPublished(ctx context.Context, evt *model.PostPublishedEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	partition, offset, err := n.producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(evt.ClerkID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send published event: %w", err)
	}
	log.DebugContext(ctx, "published event sent", "topic", n.topic, "partition", partition, "offset", offset)
	return nil
}

func (n *PublishedNotifier) Close() error {
	return n.producer.Close()
}
