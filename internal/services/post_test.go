package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

func TestPostAuthorOnlyEdits(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	other := f.seedUser(t, "other")

	ps, err := f.posts.Create(author.ID, CreatePostRequest{Content: "Hello church"})
	require.NoError(t, err)

	content := "Edited"
	_, err = f.posts.Update(other.ID, ps.ID, UpdatePostRequest{Content: &content})
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.ErrorIs(t, f.posts.Delete(other.ID, ps.ID), common.ErrForbidden)

	got, err := f.posts.Update(author.ID, ps.ID, UpdatePostRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Content)

	require.NoError(t, f.posts.Delete(author.ID, ps.ID))
	_, err = f.posts.Get(ps.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostInGroupRequiresVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	outsider := f.seedUser(t, "outsider")

	g, err := f.groups.Create(owner.ID, CreateGroupRequest{Name: "Leaders", Private: true})
	require.NoError(t, err)

	_, err = f.posts.Create(outsider.ID, CreatePostRequest{Content: "hi", GroupID: &g.ID})
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = f.posts.Create(owner.ID, CreatePostRequest{Content: "hi", GroupID: &g.ID})
	assert.NoError(t, err)

	// Listing a private group's posts has the same boundary.
	_, _, err = f.posts.List(outsider.ID, &g.ID, storage.PaginationParams{})
	assert.ErrorIs(t, err, common.ErrAccessDenied)
	posts, total, err := f.posts.List(owner.ID, &g.ID, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, posts, 1)
}

func TestLikeToggle(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	fan := f.seedUser(t, "fan")

	ps, err := f.posts.Create(author.ID, CreatePostRequest{Content: "Hello"})
	require.NoError(t, err)

	liked, count, err := f.posts.ToggleLike(fan.ID, ps.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	liked, count, err = f.posts.ToggleLike(fan.ID, ps.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, count)

	// Two distinct users count independently.
	_, _, err = f.posts.ToggleLike(fan.ID, ps.ID)
	require.NoError(t, err)
	_, count, err = f.posts.ToggleLike(author.ID, ps.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	reader := f.seedUser(t, "reader")

	ps, err := f.posts.Create(author.ID, CreatePostRequest{Content: "Hello"})
	require.NoError(t, err)

	_, err = f.posts.Comment(reader.ID, ps.ID, "Welcome!")
	require.NoError(t, err)
	_, err = f.posts.Comment(author.ID, ps.ID, "Thanks")
	require.NoError(t, err)

	comments, err := f.posts.Comments(ps.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Welcome!", comments[0].Content, "oldest first")

	_, err = f.posts.Comment(reader.ID, ps.ID, "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestFeedNewestFirst(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")

	_, err := f.posts.Create(author.ID, CreatePostRequest{Content: "first"})
	require.NoError(t, err)
	_, err = f.posts.Create(author.ID, CreatePostRequest{Content: "second"})
	require.NoError(t, err)

	posts, total, err := f.posts.List(author.ID, nil, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
}
