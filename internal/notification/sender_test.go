package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-gin-seat-reservation/config"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/queue"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotification() *model.BookingNotification {
	showtimeID := 3
	return NewBookingNotification(model.NotificationBookingCreated, &model.Booking{
		ID:          11,
		UserID:      7,
		EventID:     2,
		ShowtimeID:  &showtimeID,
		TicketCount: 2,
		SeatLabels:  []string{"A1", "A2"},
		TotalPrice:  240,
		Status:      model.BookingStatusPending,
	}, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
}

func TestNewBookingNotification(t *testing.T) {
	labels := []string{"A1"}
	b := &model.Booking{ID: 1, UserID: 2, EventID: 3, TicketCount: 1, SeatLabels: labels, Status: model.BookingStatusCancelled}

	n := NewBookingNotification(model.NotificationBookingCancelled, b, time.Now())

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, model.NotificationBookingCancelled, n.Type)
	assert.Equal(t, model.BookingStatusCancelled, n.Status)
	labels[0] = "Z9"
	assert.Equal(t, []string{"A1"}, n.SeatLabels)

	other := NewBookingNotification(model.NotificationBookingCancelled, b, time.Now())
	assert.NotEqual(t, n.ID, other.ID)
}

func TestQueueSender(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := queue.NewMemoryNotificationQueue(1)
	sender := NewQueueSender(q)
	n := testNotification()

	require.NoError(t, sender.Send(ctx, n))

	deliveries, err := q.Subscribe(ctx)
	require.NoError(t, err)
	select {
	case d := <-deliveries:
		assert.Equal(t, n.ID, d.Data.ID)
		d.Ack()
	case <-ctx.Done():
		t.Fatal("notification not queued")
	}
}

func TestKafkaSender(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		n := testNotification()

		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got model.BookingNotification
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.ID != n.ID || got.BookingID != 11 {
				return errors.New("unexpected payload")
			}
			return nil
		})

		sender := NewKafkaSender(producer, "booking-notifications")
		require.NoError(t, sender.Send(context.Background(), n))
		require.NoError(t, sender.Close())
	})

	t.Run("Failure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		sender := NewKafkaSender(producer, "booking-notifications")
		err := sender.Send(context.Background(), testNotification())

		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, sender.Close())
	})
}

type fakeAMQPChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeAMQPChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func TestAMQPSender(t *testing.T) {
	t.Run("Publishes persistent json", func(t *testing.T) {
		ch := &fakeAMQPChannel{}
		sender := NewAMQPSender(ch, "booking.notifications")
		n := testNotification()

		require.NoError(t, sender.Send(context.Background(), n))

		assert.Equal(t, "", ch.exchange)
		assert.Equal(t, "booking.notifications", ch.key)
		assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
		assert.Equal(t, "application/json", ch.msg.ContentType)
		assert.Equal(t, n.ID, ch.msg.MessageId)
		assert.Equal(t, string(model.NotificationBookingCreated), ch.msg.Type)

		var got model.BookingNotification
		require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
		assert.Equal(t, []string{"A1", "A2"}, got.SeatLabels)
		assert.NoError(t, sender.Close())
	})

	t.Run("Publish error", func(t *testing.T) {
		ch := &fakeAMQPChannel{err: amqp.ErrClosed}
		sender := NewAMQPSender(ch, "booking.notifications")

		err := sender.Send(context.Background(), testNotification())

		assert.ErrorIs(t, err, amqp.ErrClosed)
	})
}

func TestNewDeliverySender(t *testing.T) {
	sender, closeFn, err := NewDeliverySender(config.NotificationConfig{Driver: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, sender)
	assert.NoError(t, sender.Send(context.Background(), testNotification()))
	assert.NoError(t, closeFn())

	_, _, err = NewDeliverySender(config.NotificationConfig{Driver: "carrier-pigeon"})
	assert.Error(t, err)
}
