package middleware

import (
	"strconv"
	"sync"
	"time"

	"jobportal/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter - набор token bucket лимитеров по ключу (IP или пользователь)
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	perMin   int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter - perMin запросов в минуту, всплеск до perMin
func NewRateLimiter(perMin int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		perMin:   perMin,
		now:      time.Now,
	}
}

// Allow расходует один токен ключа; remaining - оставшиеся токены
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMin)), rl.perMin),
		}
		rl.limiters[key] = e
	}
	e.lastSeen = now

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	return true, int(e.limiter.TokensAt(now)), 0
}

// Cleanup удаляет лимитеры, не использовавшиеся дольше idle
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	removed := 0
	for key, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// KeyFunc возвращает ключ лимита для запроса
type KeyFunc func(c *gin.Context) string

// ByIP - ключ по IP клиента
func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUserOrIP - ключ по пользователю, для анонимов по IP
func ByUserOrIP(c *gin.Context) string {
	if id := GetUserID(c); id != 0 {
		return "user:" + strconv.FormatUint(uint64(id), 10)
	}
	return ByIP(c)
}

// RateLimitMiddleware ограничивает частоту запросов; scope попадает в ответ 429
func RateLimitMiddleware(rl *RateLimiter, scope string, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, retryAfter := rl.Allow(scope + "|" + key(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMin))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			secs := int(retryAfter.Seconds())
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			apperrors.HandleError(c, apperrors.ErrRateLimited(scope))
			return
		}
		c.Next()
	}
}
