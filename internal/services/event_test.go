package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

func createEventRequest(title string, private bool, start time.Time) CreateEventRequest {
	return CreateEventRequest{
		Title:     title,
		StartDate: start,
		Private:   private,
	}
}

func TestCreateEventMarksOwnerAttending(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")

	e, err := f.events.Create(owner.ID, createEventRequest("Retreat", false, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	rel, err := f.store.Relationships().Find(owner.ID, e.ID)
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, relationship.KindAttendance, rel.Kind)
	assert.Equal(t, relationship.StatusAttending, rel.Status)
}

func TestCreateEventRejectsBadDateRange(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(-time.Hour)
	_, err := f.events.Create(owner.ID, CreateEventRequest{Title: "Retreat", StartDate: start, EndDate: &end})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPrivateEventVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	invitee := f.seedUser(t, "invitee")
	outsider := f.seedUser(t, "outsider")

	e, err := f.events.Create(owner.ID, createEventRequest("Leaders dinner", true, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	// A declined invitation still grants visibility: the record is the key.
	rel := relationship.New(invitee.ID, e.ID, relationship.KindAttendance)
	rel.Status = relationship.StatusNotAttending
	require.NoError(t, f.store.Relationships().Create(rel))

	_, err = f.events.Get(invitee.ID, e.ID)
	assert.NoError(t, err)
	_, err = f.events.Get(outsider.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = f.events.Attendees(invitee.ID, e.ID)
	assert.NoError(t, err)
	_, err = f.events.Attendees(outsider.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestSetAttendanceUpserts(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	guest := f.seedUser(t, "guest")

	e, err := f.events.Create(owner.ID, createEventRequest("Picnic", false, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	rel, err := f.events.SetAttendance(guest.ID, e.ID, relationship.StatusMaybe)
	require.NoError(t, err)
	assert.Equal(t, relationship.StatusMaybe, rel.Status)

	// Every further call updates in place rather than conflicting.
	for _, status := range []string{
		relationship.StatusNotAttending,
		relationship.StatusAttending,
		relationship.StatusAttending, // repeating is a no-op, not an error
	} {
		rel, err = f.events.SetAttendance(guest.ID, e.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, rel.Status)
	}

	rels, err := f.events.Attendees(guest.ID, e.ID)
	require.NoError(t, err)
	assert.Len(t, rels, 2) // owner + guest, one row each
}

func TestSetAttendanceRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")

	e, err := f.events.Create(owner.ID, createEventRequest("Picnic", false, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	_, err = f.events.SetAttendance(owner.ID, e.ID, "definitely")
	assert.ErrorIs(t, err, common.ErrInvalidStatus)
}

func TestSetAttendanceRequiresVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	outsider := f.seedUser(t, "outsider")

	e, err := f.events.Create(owner.ID, createEventRequest("Leaders dinner", true, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	_, err = f.events.SetAttendance(outsider.ID, e.ID, relationship.StatusAttending)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	// The owner is never locked out of their own event.
	_, err = f.events.SetAttendance(owner.ID, e.ID, relationship.StatusMaybe)
	assert.NoError(t, err)
}

func TestListPublicUpcomingOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")

	past, err := f.events.Create(owner.ID, createEventRequest("Past picnic", false, time.Now().Add(-48*time.Hour)))
	require.NoError(t, err)
	future, err := f.events.Create(owner.ID, createEventRequest("Future picnic", false, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = f.events.Create(owner.ID, createEventRequest("Private dinner", true, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	events, total, err := f.events.ListPublic(true, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, future.ID, events[0].ID)

	events, total, err = f.events.ListPublic(false, storage.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, events, 2)
	assert.Equal(t, past.ID, events[0].ID, "ordered by start date")
}

func TestLeaveEvent(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	guest := f.seedUser(t, "guest")

	e, err := f.events.Create(owner.ID, createEventRequest("Leaders dinner", true, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	rel := relationship.New(guest.ID, e.ID, relationship.KindAttendance)
	require.NoError(t, f.store.Relationships().Create(rel))
	_, err = f.events.Get(guest.ID, e.ID)
	require.NoError(t, err)

	// Leaving deletes the record; not_attending would keep it and with it
	// visibility into the private event.
	require.NoError(t, f.events.Leave(guest.ID, e.ID))
	gone, err := f.store.Relationships().Find(guest.ID, e.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	_, err = f.events.Get(guest.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	assert.ErrorIs(t, f.events.Leave(guest.ID, e.ID), common.ErrNotMember)
	assert.ErrorIs(t, f.events.Leave(owner.ID, e.ID), common.ErrOwnerCannotLeave)
}

func TestDeleteEventCascadesAttendance(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner")
	guest := f.seedUser(t, "guest")

	e, err := f.events.Create(owner.ID, createEventRequest("Picnic", false, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = f.events.SetAttendance(guest.ID, e.ID, relationship.StatusAttending)
	require.NoError(t, err)

	assert.ErrorIs(t, f.events.Delete(guest.ID, e.ID), common.ErrForbidden)
	require.NoError(t, f.events.Delete(owner.ID, e.ID))

	_, err = f.events.Get(owner.ID, e.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	count, err := f.store.Relationships().CountByObject(e.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
