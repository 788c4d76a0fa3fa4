package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/vidora/vidora-backend/internal/common"
	pkglogger "github.com/vidora/vidora-backend/pkg/logger"
)

const rateWindow = time.Minute

// RateLimitConfig configures a fixed one-minute window limiter
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyPrefix         string
	Message           string
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		KeyPrefix:         "rl:ip:",
		Message:           "Too many requests, please try again later",
	}
}

// RateLimit limits requests per client IP
func RateLimit(client *redis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	return newLimiter(client, cfg, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitPerUser limits requests per authenticated user, or per IP for
// anonymous callers. It reads the identity set by JWTAuth, so it must be
// mounted after it.
func RateLimitPerUser(client *redis.Client, requestsPerMinute int) gin.HandlerFunc {
	cfg := DefaultRateLimitConfig()
	cfg.RequestsPerMinute = requestsPerMinute
	cfg.KeyPrefix = "rl:user:"
	return newLimiter(client, cfg, func(c *gin.Context) string {
		if uid := GetUserID(c); uid != 0 {
			return strconv.FormatUint(uid, 10)
		}
		return "anon:" + c.ClientIP()
	})
}

// windowKey names the counter for subject in the window containing now
func windowKey(prefix, subject string, now time.Time) (string, time.Time) {
	start := now.Truncate(rateWindow)
	return prefix + subject + ":" + strconv.FormatInt(start.Unix(), 10), start.Add(rateWindow)
}

func newLimiter(client *redis.Client, cfg RateLimitConfig, subject func(*gin.Context) string) gin.HandlerFunc {
	if client == nil || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limit := int64(cfg.RequestsPerMinute)

	return func(c *gin.Context) {
		now := time.Now()
		key, resetAt := windowKey(cfg.KeyPrefix, subject(c), now)

		var hits *redis.IntCmd
		_, err := client.TxPipelined(c.Request.Context(), func(p redis.Pipeliner) error {
			hits = p.Incr(c.Request.Context(), key)
			p.ExpireNX(c.Request.Context(), key, rateWindow+time.Second)
			return nil
		})
		if err != nil {
			// redis outages never block traffic
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("rate limiter skipped")
			c.Next()
			return
		}

		used := hits.Val()
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if used > limit {
			wait := int64(resetAt.Sub(now).Seconds()) + 1
			h.Set("Retry-After", strconv.FormatInt(wait, 10))
			common.ErrorResponse(c, http.StatusTooManyRequests, cfg.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
