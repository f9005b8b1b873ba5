package middleware

import (
	"context"
	"strconv"
	"strings"

	"jobportal/internal/auth"
	"jobportal/internal/logger"
	"jobportal/internal/models"
	"jobportal/pkg/apperrors"
	"jobportal/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionAuthenticator проверяет токен сессии (реализуется AuthService)
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*auth.Principal, error)
}

// Auth - middleware аутентификации по Bearer-токену или cookie сессии
type Auth struct {
	authenticator SessionAuthenticator
	cookieName    string
}

func NewAuth(authenticator SessionAuthenticator, cookieName string) *Auth {
	return &Auth{authenticator: authenticator, cookieName: cookieName}
}

// CookieName - имя cookie сессии
func (a *Auth) CookieName() string {
	return a.cookieName
}

// Required - запрос без валидной сессии получает 401
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := a.extractToken(c)
		if token == "" {
			apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
			return
		}
		principal, err := a.authenticator.Authenticate(c.Request.Context(), getDB(c), token)
		if err != nil {
			a.clearCookie(c)
			apperrors.HandleError(c, err)
			return
		}
		setPrincipal(c, principal)
		c.Next()
	}
}

// Optional - при валидной сессии заполняет контекст, иначе пропускает анонимно
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := a.extractToken(c); token != "" {
			if principal, err := a.authenticator.Authenticate(c.Request.Context(), getDB(c), token); err == nil {
				setPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

// RequireRoles - доступ только указанным ролям (после Required)
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		roleSet[r] = true
		names = append(names, string(r))
	}
	message := "Access denied: " + strings.Join(names, " or ") + " role required"

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apperrors.HandleError(c, apperrors.ErrNotLoggedIn)
			return
		}
		if !roleSet[principal.Role] {
			apperrors.HandleError(c, apperrors.NewForbiddenError(message))
			return
		}
		c.Next()
	}
}

func (a *Auth) extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(a.cookieName); err == nil {
		return cookie
	}
	return ""
}

func (a *Auth) clearCookie(c *gin.Context) {
	if _, err := c.Cookie(a.cookieName); err == nil {
		c.SetCookie(a.cookieName, "", -1, "/", "", false, true)
	}
}

func setPrincipal(c *gin.Context, p *auth.Principal) {
	c.Set(contextkeys.UserIDKey, p.UserID)
	c.Set(contextkeys.RoleKey, p.Role)
	c.Set(contextkeys.SessionIDKey, p.SessionID)

	ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(p.UserID), 10))
	c.Request = c.Request.WithContext(ctx)
}

// GetPrincipal извлекает аутентифицированного пользователя из контекста
func GetPrincipal(c *gin.Context) (*auth.Principal, bool) {
	userID, ok := c.Get(contextkeys.UserIDKey)
	if !ok {
		return nil, false
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return nil, false
	}
	p := &auth.Principal{UserID: id}
	if role, ok := c.Get(contextkeys.RoleKey); ok {
		p.Role, _ = role.(models.Role)
	}
	if sid, ok := c.Get(contextkeys.SessionIDKey); ok {
		p.SessionID, _ = sid.(string)
	}
	return p, true
}

// GetUserID извлекает ID пользователя из контекста (0 - аноним)
func GetUserID(c *gin.Context) uint {
	p, ok := GetPrincipal(c)
	if !ok {
		return 0
	}
	return p.UserID
}

func getDB(c *gin.Context) *gorm.DB {
	if val, ok := c.Get(string(contextkeys.DBContextKey)); ok {
		if db, ok := val.(*gorm.DB); ok {
			return db
		}
	}
	panic("critical error: DBMiddleware did not set the db key")
}
