package auth

import (
	"errors"
	"strconv"
	"time"

	"jobportal/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims - содержимое токена сессии. Токен валиден, только пока
// в БД существует сессия SessionID.
type Claims struct {
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	SessionID string      `json:"sid"`

	jwt.RegisteredClaims
}

// TokenManager подписывает и проверяет токены сессий (HS256)
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Generate выпускает токен для сессии со сроком действия ttl
func (m *TokenManager) Generate(userID uint, role models.Role, sessionID string, ttl time.Duration) (string, time.Time, error) {
	if len(m.secret) == 0 || ttl <= 0 {
		return "", time.Time{}, ErrTokenInvalid
	}

	now := m.now().UTC()
	exp := now.Add(ttl)

	claims := Claims{
		UserID:    userID,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse проверяет подпись и срок действия токена
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if token == nil || !token.Valid || claims.SessionID == "" || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
