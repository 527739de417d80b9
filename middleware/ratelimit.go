package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/priyanshsoni/handyhub/redis"
)

// RateLimit caps requests per client IP over a fixed one-minute window,
// counted in redis so the limit holds across instances. If redis is down
// the request is let through; throttling is not worth an outage.
func RateLimit(maxPerMinute int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ratelimit:%s:%s", c.IP(), time.Now().Format("15:04"))

		count, err := redis.Client.Incr(redis.Ctx, key).Result()
		if err != nil {
			log.Printf("Rate limiter unavailable: %v", err)
			return c.Next()
		}
		if count == 1 {
			redis.Client.Expire(redis.Ctx, key, time.Minute)
		}
		if count > int64(maxPerMinute) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Try again later.",
			})
		}
		return c.Next()
	}
}
