// Package selection keeps each user's batch-download list: the set of post
// ids picked for download. The list lives in Redis rather than MongoDB: it
// is user-local UI state that must survive restarts, not content.
package selection

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// Commands is the slice of the Redis API the store uses. *redis.Client
// satisfies it; tests substitute a fake.
type Commands interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SCard(ctx context.Context, key string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Store struct {
	rdb Commands
}

func NewStore(rdb Commands) *Store {
	return &Store{rdb: rdb}
}

// Connect builds a Redis client from REDIS_URL (or localhost).
func Connect() (*redis.Client, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://127.0.0.1:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}
	return client, nil
}

func key(userID string) string { return "selection:" + userID }

// Toggle flips the post's membership in the user's selection and reports
// the new state. Set semantics make it idempotent: toggling in twice in a
// row cannot create a duplicate, it just flips membership back.
func (s *Store) Toggle(ctx context.Context, userID, postID string) (selected bool, err error) {
	added, err := s.rdb.SAdd(ctx, key(userID), postID).Result()
	if err != nil {
		return false, err
	}
	if added == 1 {
		return true, nil
	}
	if err := s.rdb.SRem(ctx, key(userID), postID).Err(); err != nil {
		return true, err
	}
	return false, nil
}

// Contains reports whether the post is currently selected.
func (s *Store) Contains(ctx context.Context, userID, postID string) (bool, error) {
	return s.rdb.SIsMember(ctx, key(userID), postID).Result()
}

// List returns the selected post ids. Order is unspecified.
func (s *Store) List(ctx context.Context, userID string) ([]string, error) {
	return s.rdb.SMembers(ctx, key(userID)).Result()
}

// Count returns the selection size.
func (s *Store) Count(ctx context.Context, userID string) (int64, error) {
	return s.rdb.SCard(ctx, key(userID)).Result()
}

// Clear empties the user's selection.
func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
