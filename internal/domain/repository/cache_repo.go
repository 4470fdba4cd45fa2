package repository

import (
	"time"
)

// Ключи кеша приложения
const (
	KeySettings       = "thinkfast:settings"
	KeyDailyChallenge = "thinkfast:daily_challenge"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	Exists(key string) (bool, error)
}
