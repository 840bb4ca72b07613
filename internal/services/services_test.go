package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/storage/memory"
)

type fixture struct {
	store   *memory.Store
	policy  *policy.Engine
	account *AccountService
	groups  *GroupService
	events  *EventService
	prayers *PrayerService
	posts   *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	engine := policy.NewEngine(store.Relationships())
	return &fixture{
		store:   store,
		policy:  engine,
		account: NewAccountService(store),
		groups:  NewGroupService(store, engine),
		events:  NewEventService(store, engine),
		prayers: NewPrayerService(store, engine),
		posts:   NewPostService(store, engine),
	}
}

// seedUser inserts a user directly, bypassing invitation gating.
func (f *fixture) seedUser(t *testing.T, username string) *user.User {
	t.Helper()
	u := user.New(username+"@example.com", username, "Test", "User", "")
	require.NoError(t, u.SetPassword("password123"))
	require.NoError(t, f.store.Users().Create(u))
	return u
}

// seedInvitation inserts an unused invitation code created by the user.
func (f *fixture) seedInvitation(t *testing.T, createdBy uuid.UUID) string {
	t.Helper()
	inv, err := user.NewInvitation(createdBy)
	require.NoError(t, err)
	require.NoError(t, f.store.Invitations().Create(inv))
	return inv.Code
}
