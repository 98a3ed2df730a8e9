package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingTTL bounds how long a crashed handler can keep a key reserved.
const pendingTTL = 60 * time.Second

// record is the redis value behind one idempotency key.
type record struct {
	Pending   bool      `json:"pending"`
	Status    int       `json:"status,omitempty"`
	Body      []byte    `json:"body,omitempty"`
	BodyHash  string    `json:"body_hash"`
	RequestID string    `json:"request_id"`
	SentAt    time.Time `json:"sent_at"`
	StoredAt  time.Time `json:"stored_at"`
}

// replayable reports whether r holds a finished response that can be served again.
func (r record) replayable() bool { return !r.Pending && r.Status != 0 && len(r.Body) > 0 }

type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// reserve claims key for an in-flight request. It returns false when the key is taken.
func (s replayStore) reserve(ctx context.Context, key string, r record) (bool, error) {
	r.Pending = true
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, pendingTTL).Result()
}

func (s replayStore) load(ctx context.Context, key string) (record, error) {
	var r record
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(v, &r); err != nil {
		return r, errors.Join(errors.New("corrupt idempotency record"), err)
	}
	return r, nil
}

// complete stores the final response for replay until the ttl runs out.
func (s replayStore) complete(ctx context.Context, key string, r record) error {
	r.Pending = false
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
