package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss возвращается, когда ключа нет в кэше
var ErrCacheMiss = errors.New("availability.cache: cache miss")

// Cache кэш готовых ответов доступности поверх Redis
// Ключ avail:{date}:{serviceID}, значение - сериализованный ответ
// Любая ошибка Redis при чтении трактуется как промах: кэш не должен
// ронять выдачу слотов
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает новый кэш доступности
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// Get читает закэшированный ответ для даты и услуги
func (c *Cache) Get(ctx context.Context, date string, serviceID int64) ([]byte, error) {
	data, err := c.client.Get(ctx, cacheKey(date, serviceID)).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	return data, nil
}

// Set сохраняет ответ для даты и услуги с TTL кэша
func (c *Cache) Set(ctx context.Context, date string, serviceID int64, data []byte) error {
	return c.client.Set(ctx, cacheKey(date, serviceID), data, c.ttl).Err()
}

// InvalidateDate удаляет все закэшированные ответы за дату
// Вызывается после создания/переноса записи: меняется занятость дня
// для всех услуг сразу
func (c *Cache) InvalidateDate(ctx context.Context, date string) error {
	pattern := fmt.Sprintf("avail:%s:*", date)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("availability.cache: delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("availability.cache: scan keys: %w", err)
	}

	return nil
}

func cacheKey(date string, serviceID int64) string {
	return fmt.Sprintf("avail:%s:%d", date, serviceID)
}
