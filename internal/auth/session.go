// Package auth issues and verifies session tokens. Sessions are signed
// JWTs carried in an HttpOnly cookie; the server stays stateless.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/config"
)

// ErrInvalidToken is returned when a session token is missing, expired,
// malformed, or signed with a different key.
var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session cookies.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager builds a manager from the session config. The secret
// must be non-empty.
func NewSessionManager(cfg *config.Config) (*SessionManager, error) {
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	return &SessionManager{
		secret:     []byte(cfg.Session.Secret),
		cookieName: cfg.Session.CookieName,
		ttl:        cfg.Session.TTL,
		secure:     cfg.Session.Secure,
	}, nil
}

// Issue creates a signed session token for the given user.
func (m *SessionManager) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns the user ID it was issued for.
func (m *SessionManager) Verify(tokenString string) (uuid.UUID, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// SetCookie attaches a session cookie for the given user to the response.
func (m *SessionManager) SetCookie(c *gin.Context, userID uuid.UUID) error {
	token, err := m.Issue(userID)
	if err != nil {
		return err
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadCookie extracts the session token from the request, or "" if absent.
func (m *SessionManager) ReadCookie(c *gin.Context) string {
	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return token
}
