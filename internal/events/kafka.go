package events

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
)

// KafkaConfig configures KafkaSink.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// KafkaSink publishes events to a Kafka topic keyed by entity name so that
// per-entity ordering survives partitioning.
type KafkaSink struct {
	producer sarama.AsyncProducer
	topic    string
}

// NewKafkaSink creates a KafkaSink from config, or nil when disabled.
func NewKafkaSink(c KafkaConfig) (*KafkaSink, error) {
	if !c.Enabled || len(c.Brokers) == 0 {
		return nil, nil
	}
	cfg := sarama.NewConfig()
	prod, err := sarama.NewAsyncProducer(c.Brokers, cfg)
	if err != nil {
		return nil, err
	}
	topic := c.Topic
	if topic == "" {
		topic = "crud-events"
	}
	return &KafkaSink{producer: prod, topic: topic}, nil
}

// Emit enqueues the event on the async producer.
func (s *KafkaSink) Emit(ctx context.Context, e Event) error {
	if s == nil || s.producer == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(e.Entity),
		Value: sarama.ByteEncoder(data),
	}
	select {
	case s.producer.Input() <- msg:
		return nil
	case err := <-s.producer.Errors():
		return err.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
