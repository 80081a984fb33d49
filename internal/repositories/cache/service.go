package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finch/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds a namespaced cache key.
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, user); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	if err := s.Get(ctx, key, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, user *models.User) error {
	return s.Delete(ctx,
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	)
}

// Debit card caching
func (s *CacheService) CacheCard(ctx context.Context, card *models.DebitCard) error {
	if card == nil {
		return errors.New("cannot cache nil card")
	}
	return s.Set(ctx, s.GenerateKey("card", "id", card.ID), card)
}

func (s *CacheService) GetCard(ctx context.Context, cardID uint) (*models.DebitCard, error) {
	var card models.DebitCard
	if err := s.Get(ctx, s.GenerateKey("card", "id", cardID), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *CacheService) InvalidateCard(ctx context.Context, cardID uint) error {
	return s.Delete(ctx, s.GenerateKey("card", "id", cardID))
}

// FlushAll clears the entire cache. Used on startup.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
