package notification

import (
	"fmt"
	"go-gin-seat-reservation/config"
)

// NewDeliverySender 依設定建立實際投遞通知的 Sender，回傳的 close 需在結束時呼叫
func NewDeliverySender(cfg config.NotificationConfig) (Sender, func() error, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogSender(), func() error { return nil }, nil
	case "kafka":
		producer, err := NewKafkaSyncProducer(cfg.KafkaBrokers)
		if err != nil {
			return nil, nil, err
		}
		s := NewKafkaSender(producer, cfg.KafkaTopic)
		return s, s.Close, nil
	case "amqp":
		s, err := DialAMQPSender(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown notification driver %q", cfg.Driver)
	}
}
