package cache

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

var ctx = context.Background()

// RedisCache mirrors each train's available-seat counter for the read-heavy
// availability endpoint. The database row is the source of truth; the mirror
// is refreshed after every committed allocation or cancellation and a miss
// simply falls through to the database.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	client := redis.NewClient(
		&redis.Options{
			Addr:     url,
			Password: "",
			DB:       0,
		},
	)
	return &RedisCache{Client: client}, nil
}

// Init warms the availability mirror from the current train rows.
func (r *RedisCache) Init(trainIDSeatsMap map[uint]int) error {
	pipe := r.Client.Pipeline()
	for trainID, seats := range trainIDSeatsMap {
		pipe.Set(ctx, MakeTrainAvailableSeatsKey(trainID), seats, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisCache) SetAvailableSeats(trainID uint, available int) error {
	key := MakeTrainAvailableSeatsKey(trainID)
	return r.Client.Set(ctx, key, available, 0).Err()
}

func (r *RedisCache) GetAvailableSeats(trainID uint) (int, error) {
	key := MakeTrainAvailableSeatsKey(trainID)
	available, err := r.Client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, err
	}
	return available, nil
}

func (r *RedisCache) InvalidateTrain(trainID uint) error {
	key := MakeTrainAvailableSeatsKey(trainID)
	return r.Client.Del(ctx, key).Err()
}
