package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/caesartm/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "caesartm:run:"

// Store implements ports.RunStore using Redis.
// Runs are stored as JSON strings. One sorted set orders them by CreatedAt;
// a second one, written only when a TTL is set, tracks when they expire.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for runs.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for runs.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) expiryKey() string {
	return s.prefix + "expiry"
}

// Save persists the run to Redis.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(run.ID), data, s.ttl)

	// Microseconds keep the score exact in a float64. Equal scores fall back
	// to member order, which matches the ID tie-break of the other stores.
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(run.CreatedAt.UnixMicro()),
		Member: run.ID,
	})

	if s.ttl > 0 {
		pipe.ZAdd(ctx, s.expiryKey(), backend.Z{
			Score:  float64(time.Now().Add(s.ttl).Unix()),
			Member: run.ID,
		})
	} else {
		pipe.ZRem(ctx, s.expiryKey(), run.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the run from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Run, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal([]byte(val), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}

	return &run, nil
}

// Delete removes the run and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	pipe.ZRem(ctx, s.expiryKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live run IDs, oldest first, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := s.prune(ctx); err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	runs, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// prune drops index entries whose expiry has passed.
func (s *Store) prune(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	expired, err := s.client.ZRangeByScore(ctx, s.expiryKey(), &backend.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil || len(expired) == 0 {
		return err
	}

	members := make([]any, len(expired))
	for i, id := range expired {
		members[i] = id
	}

	pipe := s.client.Pipeline()
	pipe.ZRem(ctx, s.indexKey(), members...)
	pipe.ZRem(ctx, s.expiryKey(), members...)
	_, err = pipe.Exec(ctx)
	return err
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
