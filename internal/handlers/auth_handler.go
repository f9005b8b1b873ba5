package handlers

import (
	"errors"
	"net/http"
	"time"

	"jobportal/internal/logger"
	"jobportal/internal/middleware"
	"jobportal/internal/models"
	"jobportal/internal/services"
	"jobportal/internal/services/dto"
	"jobportal/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CookieSettings - параметры cookie сессии
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	guards      *middleware.RouteGuards
	cookie      CookieSettings
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, guards *middleware.RouteGuards, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		guards:      guards,
		cookie:      cookie,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации и сброса пароля
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	optional := h.guards.Auth.Optional()

	authGroup := rg.Group("/auth")
	{
		authGroup.GET("/login", optional, h.LoginForm)
		authGroup.POST("/login", h.guards.LoginThrottle, optional, h.Login)
		authGroup.POST("/logout", optional, h.Logout)
		authGroup.GET("/register", h.RegisterForm)
		authGroup.POST("/register", h.guards.AnonThrottle, h.Register)
	}

	reset := rg.Group("/password-reset", h.guards.AnonThrottle)
	{
		reset.POST("", h.RequestPasswordReset)
		reset.POST("/confirm", h.ConfirmPasswordReset)
	}
	// Старые адреса формы "забыли пароль"
	rg.POST("/forgot-password", h.guards.AnonThrottle, h.RequestPasswordReset)
}

// LoginForm - метаданные формы входа
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := middleware.GetPrincipal(c); ok {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "You are already logged in", Redirect: "/"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields": []string{"username", "password", "remember_me"},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := middleware.GetPrincipal(c); ok {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "You are already logged in", Redirect: "/"})
		return
	}

	var req dto.LoginRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	session, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, session)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:   "Welcome back, " + session.User.Username + "!",
		Redirect:  "/",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User: dto.UserDTO{
			ID:       session.User.ID,
			Username: session.User.Username,
			Email:    session.User.Email,
			Role:     session.Role,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apperrors.HandleError(c, apperrors.ErrNotLoggedIn.WithDetails(gin.H{"redirect": "/auth/login"}))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), h.GetDB(c), principal.SessionID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "You have been logged out", Redirect: "/"})
}

// RegisterForm - метаданные формы регистрации: доступные роли
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	roles := make([]gin.H, 0, len(models.RegistrableRoles()))
	for _, r := range models.RegistrableRoles() {
		roles = append(roles, gin.H{"value": r, "label": r.Label()})
	}
	c.JSON(http.StatusOK, gin.H{
		"roles":        roles,
		"default_role": models.DefaultRole,
		"terms_url":    "/terms",
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	input, ok := bindForm[dto.RegisterInput, dto.RegisterForm](h.BaseHandler, c)
	if !ok {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &input)
	if err != nil {
		if user != nil && errors.Is(err, apperrors.ErrWelcomeEmailFailed) {
			logger.CtxWarn(c.Request.Context(), "account created without welcome email", "user_id", user.ID)
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{
		Message:  "Registration successful! Please log in.",
		Redirect: "/auth/login",
	})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message:  "If an account with that email exists, a password reset link has been sent.",
		Redirect: "/auth/login",
	})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if !h.BindAndValidate(c, &req) {
		return
	}

	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message:  "Your password has been reset. Please log in.",
		Redirect: "/auth/login",
	})
}

// setSessionCookie: с "remember me" cookie живет до конца сессии,
// иначе это cookie браузерной сессии (без Max-Age)
func (h *AuthHandler) setSessionCookie(c *gin.Context, session *dto.Session) {
	maxAge := 0
	if session.Remember {
		maxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", "", h.cookie.Secure, true)
}
