// Package redis implements tracking.Store using Redis for apps that share
// request history across processes. Each (method, path) record is stored
// as one codec-encoded value, with a Set index for enumeration.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/outcall/tracking"
)

// Compile-time interface check.
var _ tracking.Store = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithCodec sets the record codec. Defaults to JSON; msgpack is the
// compact choice for high-churn endpoints.
func WithCodec(c tracking.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// Store implements tracking.Store backed by Redis.
type Store struct {
	client goredis.Cmdable
	codec  tracking.Codec
	logger *slog.Logger
}

// New creates a new Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client goredis.Cmdable, opts ...Option) *Store {
	s := &Store{
		client: client,
		codec:  &tracking.JSONCodec{},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() goredis.Cmdable { return s.client }

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op — the caller owns the Redis client lifecycle.
func (s *Store) Close() error { return nil }

// Emit records a lifecycle event. The record is read-modify-write, not
// atomic across concurrent writers; the tracking store contract assumes an
// externally serialized writer.
func (s *Store) Emit(ctx context.Context, key tracking.Key, event tracking.Event, at time.Time, clearHistory bool) error {
	rec := tracking.NewRecord(key)
	if !clearHistory {
		existing, err := s.load(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			rec = existing
		}
	}
	rec.Events[event] = at.UTC()

	data, err := s.codec.Encode(rec)
	if err != nil {
		return fmt.Errorf("outcall/redis: encode record: %w", err)
	}

	rk := recordKey(key.Method, key.Path)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, rk, data, 0)
	pipe.SAdd(ctx, recordKeysKey, rk)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("outcall/redis: emit %s for %s: %w", event, key, err)
	}
	return nil
}

// History loads every record into a State snapshot.
func (s *Store) History(ctx context.Context) (tracking.State, error) {
	keys, err := s.client.SMembers(ctx, recordKeysKey).Result()
	if err != nil {
		return nil, fmt.Errorf("outcall/redis: list record keys: %w", err)
	}

	state := tracking.State{}
	if len(keys) == 0 {
		return state, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("outcall/redis: load records: %w", err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Key expired or was deleted between SMembers and MGet.
			continue
		}
		rec, decErr := s.codec.Decode([]byte(raw))
		if decErr != nil {
			s.logger.Warn("outcall/redis: skipping undecodable record",
				slog.String("key", keys[i]),
				slog.String("error", decErr.Error()),
			)
			continue
		}
		for ev, ts := range rec.Events {
			state.Set(rec.Key(), ev, ts)
		}
	}
	return state, nil
}

// Clear drops all history for the key.
func (s *Store) Clear(ctx context.Context, key tracking.Key) error {
	rk := recordKey(key.Method, key.Path)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, rk)
	pipe.SRem(ctx, recordKeysKey, rk)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("outcall/redis: clear %s: %w", key, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, key tracking.Key) (*tracking.Record, error) {
	raw, err := s.client.Get(ctx, recordKey(key.Method, key.Path)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("outcall/redis: load %s: %w", key, err)
	}
	rec, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("outcall/redis: decode %s: %w", key, err)
	}
	return rec, nil
}
