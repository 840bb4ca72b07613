package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

func TestPrivatePrayerVisibleOnlyToAuthor(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	other := f.seedUser(t, "other")

	p, err := f.prayers.Create(author.ID, CreatePrayerRequest{
		Title:       "Health",
		Description: "For my recovery",
		Private:     true,
	})
	require.NoError(t, err)

	_, err = f.prayers.Get(author.ID, p.ID)
	assert.NoError(t, err)
	_, err = f.prayers.Get(other.ID, p.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestSupportRequiresVisibility(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	other := f.seedUser(t, "other")

	hidden, err := f.prayers.Create(author.ID, CreatePrayerRequest{
		Title:       "Private matter",
		Description: "details",
		Private:     true,
	})
	require.NoError(t, err)

	_, err = f.prayers.Support(other.ID, hidden.ID, "praying")
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	// Supporting a private prayer must not widen its visibility; even if a
	// record slipped in, the author-only rule holds.
	public, err := f.prayers.Create(author.ID, CreatePrayerRequest{
		Title:       "Exams",
		Description: "details",
	})
	require.NoError(t, err)

	rel, err := f.prayers.Support(other.ID, public.ID, "praying for you")
	require.NoError(t, err)
	assert.Equal(t, "praying for you", rel.Message)

	private := true
	_, err = f.prayers.Update(author.ID, public.ID, UpdatePrayerRequest{Private: &private})
	require.NoError(t, err)

	_, err = f.prayers.Get(other.ID, public.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestSupportTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	other := f.seedUser(t, "other")

	p, err := f.prayers.Create(author.ID, CreatePrayerRequest{Title: "Exams", Description: "details"})
	require.NoError(t, err)

	_, err = f.prayers.Support(other.ID, p.ID, "")
	require.NoError(t, err)
	_, err = f.prayers.Support(other.ID, p.ID, "")
	assert.ErrorIs(t, err, common.ErrAlreadySupported)
}

func TestPrayerStatusTransitions(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")

	p, err := f.prayers.Create(author.ID, CreatePrayerRequest{Title: "Exams", Description: "details"})
	require.NoError(t, err)
	assert.Equal(t, prayer.StatusToPray, p.Status)
	assert.Nil(t, p.AnsweredAt)

	answered := "answered"
	got, err := f.prayers.Update(author.ID, p.ID, UpdatePrayerRequest{Status: &answered})
	require.NoError(t, err)
	assert.Equal(t, prayer.StatusAnswered, got.Status)
	assert.NotNil(t, got.AnsweredAt)

	bogus := "granted"
	_, err = f.prayers.Update(author.ID, p.ID, UpdatePrayerRequest{Status: &bogus})
	assert.ErrorIs(t, err, common.ErrInvalidStatus)
}

func TestPrayerListHidesOthersPrivate(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	other := f.seedUser(t, "other")

	_, err := f.prayers.Create(author.ID, CreatePrayerRequest{Title: "Public one", Description: "d"})
	require.NoError(t, err)
	_, err = f.prayers.Create(author.ID, CreatePrayerRequest{Title: "Private one", Description: "d", Private: true})
	require.NoError(t, err)

	mine, total, err := f.prayers.List(author.ID, nil, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)

	theirs, total, err := f.prayers.List(other.ID, nil, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Public one", theirs[0].Title)
}

func TestPrayerStatusFilter(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")

	p1, err := f.prayers.Create(author.ID, CreatePrayerRequest{Title: "One", Description: "d"})
	require.NoError(t, err)
	_, err = f.prayers.Create(author.ID, CreatePrayerRequest{Title: "Two", Description: "d"})
	require.NoError(t, err)

	answered := "answered"
	_, err = f.prayers.Update(author.ID, p1.ID, UpdatePrayerRequest{Status: &answered})
	require.NoError(t, err)

	status := prayer.StatusAnswered
	got, total, err := f.prayers.ListMine(author.ID, &status, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, p1.ID, got[0].ID)
}

func TestDeletePrayerRemovesSupports(t *testing.T) {
	f := newFixture(t)
	author := f.seedUser(t, "author")
	other := f.seedUser(t, "other")

	p, err := f.prayers.Create(author.ID, CreatePrayerRequest{Title: "Exams", Description: "d"})
	require.NoError(t, err)
	_, err = f.prayers.Support(other.ID, p.ID, "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.prayers.Delete(other.ID, p.ID), common.ErrForbidden)
	require.NoError(t, f.prayers.Delete(author.ID, p.ID))

	count, err := f.store.Relationships().CountByObject(p.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
