package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
)

// RateLimit enforces a fixed-window per-client limit backed by Redis, so the
// count survives restarts and is shared between instances. Redis being down
// fails open: requests pass, the outage is logged.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			bucket := time.Now().Unix() / int64(window.Seconds())
			key := fmt.Sprintf("ratelimit:%s:%d", c.RealIP(), bucket)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				return next(c)
			}
			if count == 1 {
				// A counter without a TTL would pin its window forever.
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					logger.Warn("rate limit window expiry not set", "key", key, "error", err)
				}
			}

			if count > int64(limit) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"status":  http.StatusTooManyRequests,
					"message": "error",
					"data":    echo.Map{"data": "rate limit exceeded"},
				})
			}
			return next(c)
		}
	}
}
