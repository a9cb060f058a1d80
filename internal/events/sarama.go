package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/chrisdamba/menuar/internal/models"
)

type SaramaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      logrus.FieldLogger
}

func NewSaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true // required by SyncProducer
	cfg.Net.DialTimeout = 30 * time.Second
	cfg.Net.ReadTimeout = 30 * time.Second
	cfg.Net.WriteTimeout = 30 * time.Second
	return cfg
}

func NewSaramaProducer(cfg models.KafkaConfig, log logrus.FieldLogger) (*SaramaProducer, error) {
	brokers := strings.Split(cfg.BrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}
	log.WithField("brokers", brokers).Info("sarama producer created")
	return NewSaramaProducerWith(producer, cfg.OrdersTopic, log), nil
}

// NewSaramaProducerWith wraps an existing producer.
func NewSaramaProducerWith(producer sarama.SyncProducer, topic string, log logrus.FieldLogger) *SaramaProducer {
	return &SaramaProducer{producer: producer, topic: topic, log: log}
}

// PublishOrderPlaced keys the message by restaurant so one tenant's orders
// stay on one partition.
func (s *SaramaProducer) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	if s.producer == nil {
		return errors.New("sarama producer is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Type, err)
	}
	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(ev.RestaurantID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", ev.Type, s.topic, err)
	}
	s.log.WithFields(logrus.Fields{
		"topic":     s.topic,
		"partition": partition,
		"offset":    offset,
		"order":     ev.OrderNumber,
	}).Debug("order event published")
	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
