package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/post-service/internal/config"
	"github.com/example/post-service/internal/models"
)

// RedisClient caches persisted post records under "post:<id>" with a TTL.
// Only store state is cached; enrichment always happens after the read.
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisClient{client: c, ttl: time.Duration(cfg.CacheTTLSec) * time.Second}, nil
}

func (r *RedisClient) Close() error { return r.client.Close() }

func (r *RedisClient) GetPost(ctx context.Context, id int) (*models.Post, bool, error) {
	val, err := r.client.Get(ctx, postKey(id)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var post models.Post
	if err := json.Unmarshal([]byte(val), &post); err != nil {
		return nil, false, err
	}
	return &post, true, nil
}

func (r *RedisClient) SetPost(ctx context.Context, post *models.Post) error {
	b, err := json.Marshal(post)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, postKey(post.ID), b, r.ttl).Err()
}

func (r *RedisClient) InvalidatePost(ctx context.Context, id int) error {
	return r.client.Del(ctx, postKey(id)).Err()
}

func postKey(id int) string { return fmt.Sprintf("post:%d", id) }
