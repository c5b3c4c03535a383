package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"go-gin-seat-reservation/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeatMapCache 場次座位圖的讀取快取。資料庫才是唯一的真實來源，寫入後一律失效
type SeatMapCache interface {
	// Get 取得快取的座位圖，未命中時 ok 為 false
	Get(ctx context.Context, showtimeID int) (seats []*model.Seat, ok bool, err error)
	Set(ctx context.Context, showtimeID int, seats []*model.Seat) error
	Invalidate(ctx context.Context, showtimeIDs ...int) error
}

type RedisSeatMapCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSeatMapCache ttl 建議與解鎖排程的間隔相同，過期鎖位最多延遲一個週期才會反映
func NewRedisSeatMapCache(client *redis.Client, ttl time.Duration) SeatMapCache {
	return &RedisSeatMapCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

// 座位圖 key
func (c *RedisSeatMapCacheImpl) getSeatMapKey(showtimeID int) string {
	return fmt.Sprintf("showtime:%d:seats", showtimeID)
}

func (c *RedisSeatMapCacheImpl) Get(ctx context.Context, showtimeID int) ([]*model.Seat, bool, error) {
	raw, err := c.client.Get(ctx, c.getSeatMapKey(showtimeID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var seats []*model.Seat
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false, fmt.Errorf("invalid seat map cache: %w", err)
	}
	return seats, true, nil
}

func (c *RedisSeatMapCacheImpl) Set(ctx context.Context, showtimeID int, seats []*model.Seat) error {
	raw, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.getSeatMapKey(showtimeID), raw, c.ttl).Err()
}

func (c *RedisSeatMapCacheImpl) Invalidate(ctx context.Context, showtimeIDs ...int) error {
	if len(showtimeIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(showtimeIDs))
	for _, id := range showtimeIDs {
		keys = append(keys, c.getSeatMapKey(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

// NopSeatMapCache 不使用快取，所有讀取都回源
type NopSeatMapCache struct{}

func (NopSeatMapCache) Get(context.Context, int) ([]*model.Seat, bool, error) { return nil, false, nil }
func (NopSeatMapCache) Set(context.Context, int, []*model.Seat) error        { return nil }
func (NopSeatMapCache) Invalidate(context.Context, ...int) error             { return nil }
