package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/biodun42/ThinkFast/internal/pkg/errors"
)

// тайм-аут одной операции с кешем
const opTimeout = 3 * time.Second

// CacheRepo реализует repository.CacheRepository поверх Redis.
// Хранит настройки приложения и ежедневное испытание; промах кеша
// возвращается как apperrors.ErrNotFound, чтобы сервисы не зависели
// от redis.Nil.
type CacheRepo struct {
	client redis.UniversalClient
}

// NewCacheRepo создает новый репозиторий кеша
func NewCacheRepo(client redis.UniversalClient) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client}, nil
}

// opCtx выдает контекст с тайм-аутом на одну операцию: зависший Redis
// не должен задерживать ответ клиенту дольше тайм-аута.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Set сохраняет значение в кеше. expiration=0 - без срока жизни.
func (r *CacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	ctx, cancel := opCtx()
	defer cancel()
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get получает значение из кеша
func (r *CacheRepo) Get(key string) (string, error) {
	ctx, cancel := opCtx()
	defer cancel()

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	return val, err
}

// Delete удаляет значение из кеша
func (r *CacheRepo) Delete(key string) error {
	ctx, cancel := opCtx()
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

// SetJSON сериализует значение в JSON и сохраняет в кеше
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %q: %w", key, err)
	}
	return r.Set(key, data, expiration)
}

// GetJSON читает значение из кеша и десериализует его в dest
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := opCtx()
	defer cancel()

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Exists проверяет существование ключа
func (r *CacheRepo) Exists(key string) (bool, error) {
	ctx, cancel := opCtx()
	defer cancel()

	n, err := r.client.Exists(ctx, key).Result()
	return n > 0, err
}
