package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// Best-effort response cache for generated plans. AI plans are slow and
// expensive, so identical requests within the TTL are served from Redis.
// Everything here degrades to a miss: no Redis, no problem.

var client *redis.Client

const planTTL = 6 * time.Hour

func InitCache() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("⚠️  REDIS_URL not set — plan caching disabled")
		return
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️  Invalid REDIS_URL: %v — plan caching disabled", err)
		return
	}

	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable: %v — plan caching disabled", err)
		return
	}

	client = c
	log.Println("✅ Redis cache connected")
}

// PlanKey derives a stable cache key from the serialized request parameters.
func PlanKey(requestJSON []byte) string {
	sum := sha256.Sum256(requestJSON)
	return "tripcraft:plan:" + hex.EncodeToString(sum[:16])
}

// GetPlan returns a cached plan payload, or ("", false) on any miss or error.
func GetPlan(ctx context.Context, key string) (string, bool) {
	if client == nil {
		return "", false
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// SetPlan stores a plan payload; failures only log.
func SetPlan(ctx context.Context, key, payload string) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, key, payload, planTTL).Err(); err != nil {
		log.Printf("⚠️  Failed to cache plan: %v", err)
	}
}
