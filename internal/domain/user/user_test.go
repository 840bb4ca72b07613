package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

func TestNewNormalizesEmail(t *testing.T) {
	u := New("  Alice@Example.COM ", "alice", "Alice", "Smith", "")
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.IsActive)
}

func TestPasswordHashing(t *testing.T) {
	u := New("alice@example.com", "alice", "Alice", "Smith", "")

	assert.ErrorIs(t, u.SetPassword("short"), common.ErrValidation)

	require.NoError(t, u.SetPassword("password123"))
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, u.CheckPassword("password123"))
	assert.False(t, u.CheckPassword("password124"))
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.Contains(t, codeAlphabet, string(r))
		}
		seen[code] = true
	}
	// 50 draws from a 36^8 space colliding would point at a broken source.
	assert.Len(t, seen, 50)
}

func TestRegenerateChangesCode(t *testing.T) {
	inv, err := NewInvitation(uuid.New())
	require.NoError(t, err)
	old := inv.Code

	require.NoError(t, inv.Regenerate())
	assert.NotEqual(t, old, inv.Code)
	assert.False(t, inv.IsUsed)
}

func TestUserValidate(t *testing.T) {
	u := New("alice@example.com", "alice", "Alice", "Smith", "")
	assert.NoError(t, u.Validate())

	bad := *u
	bad.Email = "not-an-email"
	assert.ErrorIs(t, bad.Validate(), common.ErrValidation)

	bad = *u
	bad.Username = ""
	assert.ErrorIs(t, bad.Validate(), common.ErrValidation)
}
