package queue_test

import (
	"context"
	"testing"
	"time"

	"go-gin-seat-reservation/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func fastConfig() *queue.RedisStreamQueueConfig {
	return &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   time.Hour,
		ReadGroupBlockTime: 100 * time.Millisecond,
	}
}

// --- 1. 建構 ---

func TestNewRedisStreamNotificationQueue(t *testing.T) {
	rdb := setupRedis(t)

	t.Run("creates consumer group", func(t *testing.T) {
		q, err := queue.NewRedisStreamNotificationQueue(rdb, "c1", nil)
		require.NoError(t, err)
		require.NotNil(t, q)

		n, err := rdb.Exists(context.Background(), queue.StreamKey).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "MKSTREAM 應建立 stream")
	})

	t.Run("existing group is reused", func(t *testing.T) {
		q, err := queue.NewRedisStreamNotificationQueue(rdb, "", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

// --- 2. 發送與投遞內容一致 ---

func TestRedisStreamNotificationQueue_PublishThenDeliver(t *testing.T) {
	rdb := setupRedis(t)
	q, err := queue.NewRedisStreamNotificationQueue(rdb, "deliver", fastConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sent := newNotification(42)
	require.NoError(t, q.Publish(ctx, sent))

	n, err := rdb.XLen(ctx, queue.StreamKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)
	require.NotNil(t, d.Data)
	assert.Equal(t, sent.BookingID, d.Data.BookingID)
	assert.Equal(t, sent.Type, d.Data.Type)
	assert.Equal(t, sent.SeatLabels, d.Data.SeatLabels)
	assert.Equal(t, sent.TotalPrice, d.Data.TotalPrice)
	assert.True(t, sent.OccurredAt.Equal(d.Data.OccurredAt))
}

// --- 3. Ack 後不在 PEL ---

func TestRedisStreamNotificationQueue_AckClearsPending(t *testing.T) {
	rdb := setupRedis(t)
	q, err := queue.NewRedisStreamNotificationQueue(rdb, "ack", fastConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, q.Publish(ctx, newNotification(1)))
	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)

	pending, err := rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count, "Ack 前應在 PEL")

	d.Ack()

	pending, err = rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// --- 4. Nack(false) 直接丟棄 ---

func TestRedisStreamNotificationQueue_NackDiscard(t *testing.T) {
	rdb := setupRedis(t)
	q, err := queue.NewRedisStreamNotificationQueue(rdb, "discard", fastConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, q.Publish(ctx, newNotification(1)))
	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)
	d.Nack(false)

	pending, err := rdb.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

// --- 5. 格式錯誤的訊息直接 ack 掉，不投遞 ---

func TestRedisStreamNotificationQueue_SkipsMalformed(t *testing.T) {
	rdb := setupRedis(t)
	q, err := queue.NewRedisStreamNotificationQueue(rdb, "malformed", fastConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: queue.StreamKey,
		Values: map[string]interface{}{"notification": "{broken"},
	}).Err())
	require.NoError(t, q.Publish(ctx, newNotification(2)))

	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	d := receive(t, ctx, ch)
	assert.Equal(t, 2, d.Data.BookingID)
	d.Ack()
}
