package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"letterbox/internal/letter"
)

const (
	GenerationKey      = "letters:gen"
	deliveredKeyPrefix = "letters:delivered:"
)

// Redis caches the delivered-letters list. Entries are keyed by a generation
// that every write bumps, so a list read before a write can only land under a
// generation nobody reads any more. Cache failures are logged and treated as
// misses; the database stays the source of truth.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(ctx context.Context, redisURL string, ttl time.Duration, log *zap.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client, ttl: ttl, log: log}, nil
}

func deliveredKey(gen int64) string {
	return deliveredKeyPrefix + strconv.FormatInt(gen, 10)
}

// Generation returns the current list generation. ok is false when Redis
// could not be read, in which case nothing should be cached.
func (r *Redis) Generation(ctx context.Context) (int64, bool) {
	gen, err := r.client.Get(ctx, GenerationKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		r.log.Warn("letters cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (r *Redis) DeliveredLetters(ctx context.Context, gen int64) ([]letter.Letter, bool) {
	val, err := r.client.Get(ctx, deliveredKey(gen)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("letters cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var letters []letter.Letter
	if err := json.Unmarshal(val, &letters); err != nil {
		r.log.Warn("letters cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	return letters, true
}

// SetDeliveredLetters stores letters under gen, the generation observed
// before they were read from the database.
func (r *Redis) SetDeliveredLetters(ctx context.Context, gen int64, letters []letter.Letter) {
	data, err := json.Marshal(letters)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, deliveredKey(gen), data, r.ttl).Err(); err != nil {
		r.log.Warn("letters cache write failed", zap.Error(err))
	}
}

// Invalidate moves readers to a new generation.
func (r *Redis) Invalidate(ctx context.Context) {
	if err := r.client.Incr(ctx, GenerationKey).Err(); err != nil {
		r.log.Warn("letters cache invalidation failed", zap.Error(err))
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
