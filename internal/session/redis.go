package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "eventdesk:session:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("error marshalling session: %w", err)
	}

	err = r.client.Set(ctx, redisKeyPrefix+s.ID, payload, r.ttl).Err()
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("error getting session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Session{}, fmt.Errorf("error unmarshalling session: %w", err)
	}

	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	err := r.client.Del(ctx, redisKeyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}

	return nil
}
