package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

func registerRequest(code string) RegisterRequest {
	return RegisterRequest{
		Email:          "alice@example.com",
		Username:       "alice",
		Password:       "password123",
		FirstName:      "Alice",
		LastName:       "Smith",
		InvitationCode: code,
	}
}

func TestRegisterConsumesInvitation(t *testing.T) {
	f := newFixture(t)
	sponsor := f.seedUser(t, "sponsor")
	code := f.seedInvitation(t, sponsor.ID)

	u, err := f.account.Register(registerRequest(code))
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.PasswordHash, "password must be hashed")

	inv, err := f.store.Invitations().GetByCode(code)
	require.NoError(t, err)
	assert.True(t, inv.IsUsed)
	require.NotNil(t, inv.UsedBy)
	assert.Equal(t, u.ID, *inv.UsedBy)

	// A consumed code cannot admit a second account.
	req := registerRequest(code)
	req.Email = "bob@example.com"
	req.Username = "bob"
	_, err = f.account.Register(req)
	assert.ErrorIs(t, err, common.ErrInvalidInvitation)
}

func TestRegisterRejectsUnknownCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.account.Register(registerRequest("NOSUCH99"))
	assert.ErrorIs(t, err, common.ErrInvalidInvitation)
}

func TestRegisterRollsBackCodeOnFailure(t *testing.T) {
	f := newFixture(t)
	sponsor := f.seedUser(t, "sponsor")
	code := f.seedInvitation(t, sponsor.ID)

	f.store.FailOnce("users.Create", errors.New("insert failed"))
	_, err := f.account.Register(registerRequest(code))
	require.Error(t, err)

	// The code must still be redeemable.
	inv, err := f.store.Invitations().GetByCode(code)
	require.NoError(t, err)
	assert.False(t, inv.IsUsed)

	_, err = f.account.Register(registerRequest(code))
	assert.NoError(t, err)
}

func TestRegisterRejectsDuplicateIdentity(t *testing.T) {
	f := newFixture(t)
	sponsor := f.seedUser(t, "sponsor")

	code := f.seedInvitation(t, sponsor.ID)
	_, err := f.account.Register(registerRequest(code))
	require.NoError(t, err)

	// Same email, fresh code.
	code2 := f.seedInvitation(t, sponsor.ID)
	req := registerRequest(code2)
	req.Username = "alice2"
	_, err = f.account.Register(req)
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	// The failed attempt must not burn the code.
	inv, err := f.store.Invitations().GetByCode(code2)
	require.NoError(t, err)
	assert.False(t, inv.IsUsed)

	// Same username, fresh email.
	req = registerRequest(code2)
	req.Email = "alice2@example.com"
	_, err = f.account.Register(req)
	assert.ErrorIs(t, err, common.ErrUsernameTaken)

	inv, err = f.store.Invitations().GetByCode(code2)
	require.NoError(t, err)
	assert.False(t, inv.IsUsed)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "alice")

	got, err := f.account.Login(LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// Wrong password and unknown email are indistinguishable.
	_, err = f.account.Login(LoginRequest{Email: "alice@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = f.account.Login(LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "alice")
	u.IsActive = false
	require.NoError(t, f.store.Users().Update(u))

	_, err := f.account.Login(LoginRequest{Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestGenerateInvitationRetriesOnCollision(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "alice")

	inv, err := f.account.GenerateInvitation(u.ID)
	require.NoError(t, err)
	assert.Len(t, inv.Code, 8)
	assert.False(t, inv.IsUsed)

	ok, err := f.account.ValidateInvitation(inv.Code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.account.ValidateInvitation("NOSUCH99")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProfilePartial(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "alice")

	bio := "Hello there"
	got, err := f.account.UpdateProfile(u.ID, UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", got.Bio)
	assert.Equal(t, "Test", got.FirstName)
}
