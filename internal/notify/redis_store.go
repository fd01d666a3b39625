package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultRedisKey = "console:toasts"
	DefaultTTL      = 10 * time.Minute
)

// RedisStore keeps toasts in a capped Redis list so they survive console restarts and are
// shared by every console replica.
type RedisStore struct {
	rdb  *redis.Client
	key  string
	ttl  time.Duration
	opts options
}

func NewRedisStore(rdb *redis.Client, key string, ttl time.Duration, opts ...Option) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, key: key, ttl: ttl, opts: buildOptions(opts)}
}

func (s *RedisStore) Success(ctx context.Context, message string) {
	s.push(ctx, s.opts.toast(LevelSuccess, message))
}

func (s *RedisStore) Error(ctx context.Context, message string) {
	s.push(ctx, s.opts.toast(LevelError, message))
}

// push never fails the caller; a lost toast is logged and dropped.
func (s *RedisStore) push(ctx context.Context, t Toast) {
	payload, err := json.Marshal(t)
	if err != nil {
		s.opts.logger.Error("marshal toast failed", zap.Error(err))
		return
	}

	if err := s.rdb.LPush(ctx, s.key, string(payload)).Err(); err != nil {
		s.opts.logger.Error("push toast failed",
			zap.String("key", s.key),
			zap.String("level", string(t.Level)),
			zap.Error(err),
		)
		return
	}
	if err := s.rdb.LTrim(ctx, s.key, 0, int64(s.opts.capacity-1)).Err(); err != nil {
		s.opts.logger.Warn("trim toasts failed", zap.String("key", s.key), zap.Error(err))
	}
	if err := s.rdb.Expire(ctx, s.key, s.ttl).Err(); err != nil {
		s.opts.logger.Warn("expire toasts failed", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Toast, error) {
	if limit <= 0 || limit > s.opts.capacity {
		limit = s.opts.capacity
	}
	raw, err := s.rdb.LRange(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Toast, 0, len(raw))
	for _, item := range raw {
		var t Toast
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			s.opts.logger.Warn("skip malformed toast", zap.Error(err))
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *RedisStore) Dismiss(ctx context.Context, id string) error {
	raw, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return err
	}

	for _, item := range raw {
		var t Toast
		if json.Unmarshal([]byte(item), &t) != nil || t.ID != id {
			continue
		}
		return s.rdb.LRem(ctx, s.key, 1, item).Err()
	}
	return ErrToastNotFound
}
