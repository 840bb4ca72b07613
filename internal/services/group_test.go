package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

func TestCreateGroupEnrollsOwnerAsAdmin(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Young Adults", Private: true})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, g.OwnerID)

	rel, err := f.store.Relationships().Find(owner.ID, g.ID)
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, relationship.KindMembership, rel.Kind)
	assert.Equal(t, relationship.RoleAdmin, rel.Status)
}

func TestCreateGroupRollsBackOnMembershipFailure(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")

	f.store.FailOnce("relationships.Create", errors.New("insert failed"))
	_, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Young Adults"})
	require.Error(t, err)

	// Neither the group nor a half-made membership may survive.
	groups, total, err := f.groups.ListPublic(storage.PaginationParams{})
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Zero(t, total)
}

func TestPrivateGroupVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	member := f.seedUser(t, "member")
	outsider := f.seedUser(t, "outsider")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Leaders", Private: true})
	require.NoError(t, err)

	rel := relationship.New(member.ID, g.ID, relationship.KindMembership)
	require.NoError(t, f.store.Relationships().Create(rel))

	_, err = f.groups.Get(owner.ID, g.ID)
	assert.NoError(t, err)
	_, err = f.groups.Get(member.ID, g.ID)
	assert.NoError(t, err)
	_, err = f.groups.Get(outsider.ID, g.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	// The roster shares the same boundary.
	_, err = f.groups.Members(member.ID, g.ID)
	assert.NoError(t, err)
	_, err = f.groups.Members(outsider.ID, g.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestJoinPublicGroup(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	joiner := f.seedUser(t, "joiner")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Choir"})
	require.NoError(t, err)

	rel, err := f.groups.Join(joiner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, relationship.RoleMember, rel.Status)

	_, err = f.groups.Join(joiner.ID, g.ID)
	assert.ErrorIs(t, err, common.ErrAlreadyMember)
}

func TestJoinPrivateGroupForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	joiner := f.seedUser(t, "joiner")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Leaders", Private: true})
	require.NoError(t, err)

	_, err = f.groups.Join(joiner.ID, g.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestLeaveGroup(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	member := f.seedUser(t, "member")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Choir"})
	require.NoError(t, err)
	_, err = f.groups.Join(member.ID, g.ID)
	require.NoError(t, err)

	require.NoError(t, f.groups.Leave(member.ID, g.ID))
	assert.ErrorIs(t, f.groups.Leave(member.ID, g.ID), common.ErrNotMember)

	assert.ErrorIs(t, f.groups.Leave(owner.ID, g.ID), common.ErrOwnerCannotLeave)
}

func TestUpdateGroupOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	member := f.seedUser(t, "member")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Choir"})
	require.NoError(t, err)
	_, err = f.groups.Join(member.ID, g.ID)
	require.NoError(t, err)

	name := "Chamber Choir"
	_, err = f.groups.Update(member.ID, g.ID, UpdateGroupRequest{Name: &name})
	assert.ErrorIs(t, err, common.ErrForbidden)

	got, err := f.groups.Update(owner.ID, g.ID, UpdateGroupRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Chamber Choir", got.Name)
}

func TestDeleteGroupCascades(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	member := f.seedUser(t, "member")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Choir"})
	require.NoError(t, err)
	_, err = f.groups.Join(member.ID, g.ID)
	require.NoError(t, err)

	ps, err := f.posts.Create(owner.ID, CreatePostRequest{Content: "Practice at 7", GroupID: &g.ID})
	require.NoError(t, err)

	require.NoError(t, f.groups.Delete(owner.ID, g.ID))

	_, err = f.groups.Get(owner.ID, g.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	count, err := f.store.Relationships().CountByObject(g.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The post survives, detached from the deleted group.
	got, err := f.posts.Get(ps.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
}

func TestDeleteGroupRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	member := f.seedUser(t, "member")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Choir"})
	require.NoError(t, err)
	_, err = f.groups.Join(member.ID, g.ID)
	require.NoError(t, err)

	f.store.FailOnce("groups.Delete", errors.New("delete failed"))
	require.Error(t, f.groups.Delete(owner.ID, g.ID))

	// The group and both memberships must be intact.
	_, err = f.groups.Get(owner.ID, g.ID)
	assert.NoError(t, err)
	count, err := f.store.Relationships().CountByObject(g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListMineReturnsJoinedGroups(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	member := f.seedUser(t, "member")

	g1, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Choir"})
	require.NoError(t, err)
	_, err = f.groups.Create(owner.ID, CreateGroupRequest{Name: "Ushers"})
	require.NoError(t, err)
	_, err = f.groups.Join(member.ID, g1.ID)
	require.NoError(t, err)

	mine, total, err := f.groups.ListMine(member.ID, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, g1.ID, mine[0].ID)
}
