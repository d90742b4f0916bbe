package cache

import (
	"context"
	"fmt"
	"time"

	"navm8/internal/config"

	"github.com/redis/go-redis/v9"
)

// SlotLock serializes concurrent admission attempts for one (tour, date)
// slot. The capacity check and the insert are two statements; without the
// lock two requests can both pass the count when occupancy is maxPeople-1.
// SET NX with a TTL keeps a crashed holder from wedging the slot.
type SlotLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotLock(cfg *config.Config) *SlotLock {
	return &SlotLock{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
		ttl: cfg.SlotLockTTL,
	}
}

func (l *SlotLock) Acquire(ctx context.Context, tourID int64, date time.Time) (bool, error) {
	return l.client.SetNX(ctx, slotKey(tourID, date), "locked", l.ttl).Result()
}

func (l *SlotLock) Release(ctx context.Context, tourID int64, date time.Time) error {
	return l.client.Del(ctx, slotKey(tourID, date)).Err()
}

func (l *SlotLock) Close() error {
	return l.client.Close()
}

func slotKey(tourID int64, date time.Time) string {
	return fmt.Sprintf("lock:tour:%d:date:%s", tourID, date.UTC().Format("2006-01-02"))
}
