package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// idem:{scope}:{key} -> stored response
	keyIdempotency = "idem:%s:%s"

	pendingMarker = "pending"
	pendingTTL    = 30 * time.Second
)

// Response is a captured HTTP response replayed for repeated keys.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers responses for Idempotency-Key requests.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func Key(scope, key string) string {
	return fmt.Sprintf(keyIdempotency, scope, key)
}

// Reserve claims key for an in-flight request. It returns false when the key
// is already claimed or completed.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	return s.rdb.SetNX(ctx, key, pendingMarker, pendingTTL).Result()
}

// Lookup returns the stored response, or nil when the key is unknown or the
// original request is still running (pending reports which).
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (resp *Response, pending bool, err error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if string(raw) == pendingMarker {
		return nil, true, nil
	}
	var r Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, err
	}
	return &r, false, nil
}

// Save stores the final response for key.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, body, s.ttl).Err()
}

// Release drops a reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
