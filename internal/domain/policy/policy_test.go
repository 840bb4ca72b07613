package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/event"
	"github.com/koinonia-app/koinonia-api/internal/domain/group"
	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
)

// stubFinder returns canned relationships keyed by (user, object).
type stubFinder struct {
	rels map[[2]uuid.UUID]*relationship.Relationship
	err  error
}

func (f *stubFinder) Find(userID, objectID uuid.UUID) (*relationship.Relationship, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rels[[2]uuid.UUID{userID, objectID}], nil
}

func (f *stubFinder) add(userID, objectID uuid.UUID, kind relationship.Kind, status string) {
	if f.rels == nil {
		f.rels = make(map[[2]uuid.UUID]*relationship.Relationship)
	}
	rel := relationship.New(userID, objectID, kind)
	rel.Status = status
	f.rels[[2]uuid.UUID{userID, objectID}] = rel
}

func TestCanViewGroup(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	outsider := uuid.New()

	publicGroup := group.New("Choir", "", false, owner)
	privateGroup := group.New("Leaders", "", true, owner)

	finder := &stubFinder{}
	finder.add(member, privateGroup.ID, relationship.KindMembership, relationship.RoleMember)
	engine := NewEngine(finder)

	tests := []struct {
		name   string
		viewer uuid.UUID
		obj    *group.Group
		want   bool
	}{
		{"public group, any viewer", outsider, publicGroup, true},
		{"private group, owner", owner, privateGroup, true},
		{"private group, member", member, privateGroup, true},
		{"private group, outsider", outsider, privateGroup, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CanView(tt.viewer, tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanViewEventAnyRelationshipCounts(t *testing.T) {
	owner := uuid.New()
	decliner := uuid.New()

	e := event.New("Dinner", "", "", time.Now(), nil, true, owner)

	finder := &stubFinder{}
	finder.add(decliner, e.ID, relationship.KindAttendance, relationship.StatusNotAttending)
	engine := NewEngine(finder)

	got, err := engine.CanView(decliner, e)
	require.NoError(t, err)
	assert.True(t, got, "not_attending still grants visibility")
}

func TestCanViewPrivatePrayerAuthorOnly(t *testing.T) {
	author := uuid.New()
	supporter := uuid.New()

	p := prayer.New("Health", "details", true, author)

	// Even a support record must not widen a private prayer.
	finder := &stubFinder{}
	finder.add(supporter, p.ID, relationship.KindSupport, "")
	engine := NewEngine(finder)

	got, err := engine.CanView(author, p)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = engine.CanView(supporter, p)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCanManageOwnerOnly(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()

	g := group.New("Choir", "", false, owner)
	finder := &stubFinder{}
	finder.add(member, g.ID, relationship.KindMembership, relationship.RoleAdmin)
	engine := NewEngine(finder)

	assert.True(t, engine.CanManage(owner, g))
	assert.False(t, engine.CanManage(member, g), "admin role does not grant management")
}

func TestAuthorizeHelpers(t *testing.T) {
	owner := uuid.New()
	outsider := uuid.New()

	g := group.New("Leaders", "", true, owner)
	engine := NewEngine(&stubFinder{})

	assert.ErrorIs(t, engine.AuthorizeView(outsider, g), common.ErrAccessDenied)
	assert.NoError(t, engine.AuthorizeView(owner, g))
	assert.ErrorIs(t, engine.AuthorizeManage(outsider, g), common.ErrForbidden)
	assert.NoError(t, engine.AuthorizeManage(owner, g))
}

func TestCanViewPropagatesFinderError(t *testing.T) {
	owner := uuid.New()
	g := group.New("Leaders", "", true, owner)

	engine := NewEngine(&stubFinder{err: errors.New("db down")})
	_, err := engine.CanView(uuid.New(), g)
	assert.Error(t, err)
}
