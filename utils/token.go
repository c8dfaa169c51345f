package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const blacklistPrefix = "token:blacklist:"

var (
	blacklistRedis *redis.Client

	// Fallback when no redis client is configured (tests, dev).
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// InitTokenStore wires the blacklist to redis. Without it the
// blacklist degrades to an in-process map.
func InitTokenStore(client *redis.Client) {
	blacklistRedis = client
}

// BlacklistToken revokes a token for the remaining token lifetime.
func BlacklistToken(token string) {
	if blacklistRedis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := blacklistRedis.Set(ctx, blacklistPrefix+token, "1", 24*time.Hour).Err(); err != nil {
			ErrorLogger.Printf("Error blacklisting token in redis: %v", err)
		}
		return
	}

	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(24 * time.Hour)
}

func IsTokenBlacklisted(token string) bool {
	if blacklistRedis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		n, err := blacklistRedis.Exists(ctx, blacklistPrefix+token).Result()
		if err != nil {
			ErrorLogger.Printf("Error checking token blacklist: %v", err)
			return false
		}
		return n > 0
	}

	blacklistMutex.RLock()
	defer blacklistMutex.RUnlock()

	if expiry, exists := blacklistedTokens[token]; exists {
		if time.Now().Before(expiry) {
			return true
		}
	}
	return false
}
