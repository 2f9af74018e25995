package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-redis/redis_rate/v10"
	"github.com/phase2/todo-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimiter throttles requests per client IP using a Redis-backed limiter
type RateLimiter struct {
	limiter *redis_rate.Limiter
	rps     int
	log     *logrus.Logger
}

// NewRateLimiter connects to Redis and builds the limiter
func NewRateLimiter(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*RateLimiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Connected to Redis")

	return &RateLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		rps:     cfg.RateLimitRPS,
		log:     log,
	}, nil
}

// Middleware enforces the per-IP limit. Limiter errors fail open so a Redis
// outage does not take the API down with it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		res, err := rl.limiter.Allow(r.Context(), "rate_limit:"+ip, redis_rate.PerSecond(rl.rps))
		if err != nil {
			rl.log.Errorf("Rate limiter error: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.rps))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(res.ResetAfter.Seconds())))

		if res.Allowed == 0 {
			rl.log.Warnf("Rate limit exceeded for %s", ip)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
