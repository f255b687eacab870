package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mehan05/venue-backend-new/internal/config"
	"github.com/mehan05/venue-backend-new/internal/models"
)

const bookingsCacheKey = "bookings:all"

// RedisBookingCache keeps the unfiltered bookings listing in Redis so the
// admin dashboard poll does not hit sqlite on every request.
type RedisBookingCache struct {
	client *redis.Client
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisBookingCache(client *redis.Client) *RedisBookingCache {
	return &RedisBookingCache{client: client}
}

func (r *RedisBookingCache) GetBookings(ctx context.Context) ([]*models.Booking, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, bookingsCacheKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get bookings from redis: %w", err)
	}

	var bookings []*models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached bookings: %w", err)
	}

	return bookings, true, nil
}

func (r *RedisBookingCache) SetBookings(ctx context.Context, bookings []*models.Booking, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to marshal bookings: %w", err)
	}

	if err := r.client.Set(ctx, bookingsCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set bookings in redis: %w", err)
	}

	return nil
}

func (r *RedisBookingCache) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, bookingsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate bookings cache: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
