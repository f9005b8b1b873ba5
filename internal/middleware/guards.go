package middleware

import (
	"jobportal/internal/config"

	"github.com/gin-gonic/gin"
)

// RouteGuards - middleware, которые хэндлеры навешивают на свои маршруты
type RouteGuards struct {
	Auth *Auth

	LoginThrottle    gin.HandlerFunc // попытки входа, по IP
	AnonThrottle     gin.HandlerFunc // регистрация и сброс пароля, по IP
	UserThrottle     gin.HandlerFunc // мутирующие запросы, по пользователю
	JobsListThrottle gin.HandlerFunc // список вакансий, по пользователю

	limiters []*RateLimiter
}

// NewRouteGuards собирает guards; при выключенных лимитах троттлинг пропускает все
func NewRouteGuards(authMW *Auth, cfg *config.Config) *RouteGuards {
	g := &RouteGuards{Auth: authMW}

	if cfg.RateLimit.Disabled {
		pass := func(c *gin.Context) { c.Next() }
		g.LoginThrottle, g.AnonThrottle, g.UserThrottle, g.JobsListThrottle = pass, pass, pass, pass
		return g
	}

	g.LoginThrottle = g.throttle("login", cfg.RateLimit.Login, ByIP)
	g.AnonThrottle = g.throttle("anon", cfg.RateLimit.Anon, ByIP)
	g.UserThrottle = g.throttle("user", cfg.RateLimit.User, ByUserOrIP)
	g.JobsListThrottle = g.throttle("jobs_list", cfg.RateLimit.JobsList, ByUserOrIP)
	return g
}

func (g *RouteGuards) throttle(scope string, perMin int, key KeyFunc) gin.HandlerFunc {
	rl := NewRateLimiter(perMin)
	g.limiters = append(g.limiters, rl)
	return RateLimitMiddleware(rl, scope, key)
}

// Limiters - все созданные лимитеры (для периодической очистки)
func (g *RouteGuards) Limiters() []*RateLimiter {
	return g.limiters
}
