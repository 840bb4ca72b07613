package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/config"
)

func testConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Session.Secret = secret
	cfg.Session.CookieName = "koinonia_session"
	cfg.Session.TTL = ttl
	return cfg
}

func TestSessionRoundTrip(t *testing.T) {
	manager, err := NewSessionManager(testConfig("test-secret", time.Hour))
	require.NoError(t, err)

	userID := uuid.New()
	token, err := manager.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSessionRequiresSecret(t *testing.T) {
	_, err := NewSessionManager(testConfig("", time.Hour))
	assert.Error(t, err)
}

func TestSessionRejectsTampering(t *testing.T) {
	manager, err := NewSessionManager(testConfig("test-secret", time.Hour))
	require.NoError(t, err)

	other, err := NewSessionManager(testConfig("other-secret", time.Hour))
	require.NoError(t, err)

	token, err := other.Issue(uuid.New())
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionRejectsExpired(t *testing.T) {
	manager, err := NewSessionManager(testConfig("test-secret", -time.Minute))
	require.NoError(t, err)

	token, err := manager.Issue(uuid.New())
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
