package controllers

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaController publishes JSON events to one topic.
type KafkaController struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaController(brokers []string, topic string) *KafkaController {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return &KafkaController{writer: writer, topic: topic}
}

func (c *KafkaController) Publish(ctx context.Context, key, value []byte) error {
	if err := c.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	}); err != nil {
		return fmt.Errorf("kafka write %s: %w", c.topic, err)
	}

	return nil
}

func (c *KafkaController) Close() error {
	return c.writer.Close()
}
