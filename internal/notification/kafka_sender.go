package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/pkg/logger"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type KafkaSender struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

// NewKafkaSyncProducer 以 user id 做 hash 分區，同一使用者的通知保持順序
func NewKafkaSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

func NewKafkaSender(producer sarama.SyncProducer, topic string) *KafkaSender {
	return &KafkaSender{
		producer: producer,
		topic:    topic,
		log:      logger.WithComponent("notification"),
	}
}

func (s *KafkaSender) Send(ctx context.Context, n *model.BookingNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(n.UserID)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(n.ID)},
			{Key: []byte("notification_type"), Value: []byte(n.Type)},
			{Key: []byte("booking_id"), Value: []byte(strconv.Itoa(n.BookingID))},
		},
		Timestamp: n.OccurredAt,
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send notification to kafka: %w", err)
	}

	s.log.Debug("notification published to kafka",
		zap.String("topic", s.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.String("notification_id", n.ID),
	)
	return nil
}

func (s *KafkaSender) Close() error {
	return s.producer.Close()
}
