package events

import (
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"

	"food-delivery/api/config"
)

// KafkaLogger writes lifecycle events (order created/approved/..., delivery
// assigned/completed/...) to a Kafka topic for the audit stream.
type KafkaLogger struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaLogger(cfg config.KafkaConfig) (*KafkaLogger, error) {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		return nil, err
	}
	return &KafkaLogger{producer: producer, topic: cfg.Topic}, nil
}

func (l *KafkaLogger) Log(event string, fields map[string]interface{}) error {
	payload := map[string]interface{}{
		"event":     event,
		"timestamp": time.Now().Unix(),
	}
	for k, v := range fields {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, _, err = l.producer.SendMessage(&sarama.ProducerMessage{
		Topic: l.topic,
		Value: sarama.StringEncoder(data),
	})
	return err
}

func (l *KafkaLogger) Close() error {
	return l.producer.Close()
}
