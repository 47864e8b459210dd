// Package redisstore keeps graph snapshots in redis, one string key per
// snapshot holding the JSON-encoded node map.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/specialistvlad/nodemachine/internal/graphfile"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/snapshotstore"
)

// DefaultPrefix is prepended to every snapshot name to form its key.
const DefaultPrefix = "nodemachine:graph:"

// Store is a redis-backed snapshotstore.Store.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ snapshotstore.Store = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL makes snapshots expire. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New connects to the redis server at redisURL and checks the connection.
func New(ctx context.Context, redisURL string, opts ...Option) (*Store, error) {
	if redisURL == "" {
		return nil, errors.New("redis URL is required")
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewWithClient(client, opts...), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Save stores nodes under name.
func (s *Store) Save(ctx context.Context, name string, nodes node.Map) error {
	if err := snapshotstore.ValidateName(name); err != nil {
		return err
	}
	payload, err := graphfile.Encode(graphfile.JSON, nodes)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot '%s': %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(name), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot '%s': %w", name, err)
	}
	return nil
}

// Load returns the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (node.Map, error) {
	if err := snapshotstore.ValidateName(name); err != nil {
		return nil, err
	}
	payload, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: '%s'", snapshotstore.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot '%s': %w", name, err)
	}
	return graphfile.Decode(graphfile.JSON, s.key(name), payload)
}

// List scans the key space under the store's prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		name := strings.TrimPrefix(iter.Val(), s.prefix)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := snapshotstore.ValidateName(name); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.key(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot '%s': %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: '%s'", snapshotstore.ErrNotFound, name)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
