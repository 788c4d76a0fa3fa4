package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLShort bounds how stale a public listing or profile may get
const TTLShort = time.Minute

const namespace = "vidora:"

// Key groups. A group can be dropped as a whole with DeleteByPrefix.
const (
	GroupChannel = namespace + "channel:"
	GroupVideos  = namespace + "videos:"
)

// ErrMiss means the key is absent or expired
var ErrMiss = errors.New("cache: miss")

// ChannelKey names the cached public profile of username
func ChannelKey(username string) string {
	return GroupChannel + strings.ToLower(username)
}

// VideoListKey names one cached page of the public catalogue
func VideoListKey(parts ...any) string {
	var b strings.Builder
	b.WriteString(GroupVideos)
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Service stores JSON values with a TTL
type Service interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

type redisStore struct {
	rdb *redis.Client
}

// NewService returns a Service backed by rdb
func NewService(rdb *redis.Client) Service {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *redisStore) Get(ctx context.Context, key string, dest any) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrMiss
	case err != nil:
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// a value we cannot decode is as good as absent
		_ = s.rdb.Del(ctx, key).Err()
		return ErrMiss
	}
	return nil
}

func (s *redisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Unlink(ctx, keys...).Err()
}

// DeleteByPrefix walks the keyspace with SCAN and unlinks matches in batches
func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	const batch = 200
	iter := s.rdb.Scan(ctx, 0, prefix+"*", batch).Iterator()
	pending := make([]string, 0, batch)
	for iter.Next(ctx) {
		pending = append(pending, iter.Val())
		if len(pending) == batch {
			if err := s.Delete(ctx, pending...); err != nil {
				return err
			}
			pending = pending[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	return s.Delete(ctx, pending...)
}
