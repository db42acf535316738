package dictstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the set the words are stored under.
const DefaultRedisKey = "spellpane:dictionary"

// RedisConfig configures a Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Redis stores the dictionary in a Redis set, so several service instances
// share it.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to Redis and checks the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisWithClient(client, cfg.Key), nil
}

// NewRedisWithClient wraps an existing client. An empty key means
// DefaultRedisKey.
func NewRedisWithClient(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Add(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	return r.client.SAdd(ctx, r.key, w).Err()
}

func (r *Redis) Remove(ctx context.Context, word string) error {
	w, err := normalize(word)
	if err != nil {
		return err
	}
	return r.client.SRem(ctx, r.key, w).Err()
}

func (r *Redis) Contains(ctx context.Context, word string) (bool, error) {
	return r.client.SIsMember(ctx, r.key, strings.ToLower(strings.TrimSpace(word))).Result()
}

// All returns the words in alphabetical order.
func (r *Redis) All(ctx context.Context) ([]string, error) {
	words, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	slices.Sort(words)
	return words, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
