// Package session persists the authenticated identity and the
// selected restaurant scope across reloads. The two records live
// under separate keys so a corrupt one never blocks the other.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gastromanager/dashboard/models"
	"github.com/gastromanager/dashboard/utils"
)

// ErrNotFound is returned by a KV when a key does not exist.
var ErrNotFound = errors.New("session: key not found")

// KV is the minimal key-value surface the store needs. The production
// implementation is redis; tests use an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisKV struct {
	client *redis.Client
}

func (r redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

func (r redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r redisKV) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

type Store struct {
	kv  KV
	ttl time.Duration
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, ttl: 24 * time.Hour}
}

func NewRedisStore(client *redis.Client) *Store {
	return NewStore(redisKV{client: client})
}

// memoryKV is the fallback when redis is unavailable. Sessions do not
// survive a restart and the TTL is not enforced.
type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryKV) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func NewMemoryStore() *Store {
	return NewStore(&memoryKV{data: make(map[string]string)})
}

func identityKey(userID uint) string {
	return fmt.Sprintf("session:%d:user", userID)
}

func restaurantKey(userID uint) string {
	return fmt.Sprintf("session:%d:restaurant", userID)
}

// SaveLogin persists the sanitized identity and, when the identity is
// restaurant-scoped, the restaurant record.
func (s *Store) SaveLogin(ctx context.Context, identity models.Identity, restaurant *models.Restaurant) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, identityKey(identity.ID), string(raw), s.ttl); err != nil {
		return err
	}

	if restaurant == nil {
		return nil
	}
	raw, err = json.Marshal(restaurant)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, restaurantKey(identity.ID), string(raw), s.ttl)
}

// Restore loads both records. A parse failure for either key clears
// that key only and leaves the other intact; a missing key is simply
// a nil result. Only a store failure is an error.
func (s *Store) Restore(ctx context.Context, userID uint) (*models.Identity, *models.Restaurant, error) {
	var identity *models.Identity
	var restaurant *models.Restaurant

	raw, err := s.kv.Get(ctx, identityKey(userID))
	switch {
	case err == nil:
		var parsed models.Identity
		if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
			utils.ErrorLogger.Printf("Discarding corrupt session identity for user %d: %v", userID, jsonErr)
			if delErr := s.kv.Del(ctx, identityKey(userID)); delErr != nil {
				return nil, nil, delErr
			}
		} else {
			identity = &parsed
		}
	case errors.Is(err, ErrNotFound):
		// no stored identity
	default:
		return nil, nil, err
	}

	raw, err = s.kv.Get(ctx, restaurantKey(userID))
	switch {
	case err == nil:
		var parsed models.Restaurant
		if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
			utils.ErrorLogger.Printf("Discarding corrupt session restaurant for user %d: %v", userID, jsonErr)
			if delErr := s.kv.Del(ctx, restaurantKey(userID)); delErr != nil {
				return identity, nil, delErr
			}
		} else {
			restaurant = &parsed
		}
	case errors.Is(err, ErrNotFound):
		// no stored restaurant scope
	default:
		return identity, nil, err
	}

	return identity, restaurant, nil
}

// Clear removes both keys on logout.
func (s *Store) Clear(ctx context.Context, userID uint) error {
	return s.kv.Del(ctx, identityKey(userID), restaurantKey(userID))
}
