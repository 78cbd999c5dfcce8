package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Throttle spaces conversions evenly. A request that would have to wait
// longer than maxWait for its turn is refused instead of queued.
type Throttle struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
	maxWait       time.Duration
}

func NewThrottle(requestsPerSecond int, maxWait time.Duration) *Throttle {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Throttle{interval: time.Second / time.Duration(requestsPerSecond), maxWait: maxWait}
}

// reserve books the next slot and returns how long to wait for it.
func (t *Throttle) reserve(now time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	scheduled := now
	if t.nextAllowedAt.After(now) {
		scheduled = t.nextAllowedAt
	}
	wait := scheduled.Sub(now)
	if wait > t.maxWait {
		return wait, false
	}
	t.nextAllowedAt = scheduled.Add(t.interval)
	return wait, true
}

func (t *Throttle) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wait, ok := t.reserve(time.Now())
			if !ok {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			if wait > 0 {
				timer := time.NewTimer(wait)
				defer timer.Stop()
				select {
				case <-timer.C:
				case <-c.Request().Context().Done():
					return c.Request().Context().Err()
				}
			}
			return next(c)
		}
	}
}
