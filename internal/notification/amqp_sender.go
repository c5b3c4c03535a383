package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"go-gin-seat-reservation/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpPublisher *amqp.Channel 中用到的部分
type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AMQPSender struct {
	conn    *amqp.Connection
	channel amqpPublisher
	queue   string
}

// DialAMQPSender 建立連線並宣告 durable queue
func DialAMQPSender(url, queueName string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	return &AMQPSender{conn: conn, channel: ch, queue: queueName}, nil
}

func NewAMQPSender(channel amqpPublisher, queueName string) *AMQPSender {
	return &AMQPSender{channel: channel, queue: queueName}
}

func (s *AMQPSender) Send(ctx context.Context, n *model.BookingNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Type:         string(n.Type),
		Timestamp:    n.OccurredAt,
		Body:         body,
	}

	// default exchange，routing key 即 queue 名稱
	if err := s.channel.PublishWithContext(ctx, "", s.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
