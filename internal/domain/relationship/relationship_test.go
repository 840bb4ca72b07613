package relationship

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

func TestNewDefaultStatus(t *testing.T) {
	userID := uuid.New()
	objectID := uuid.New()

	assert.Equal(t, RoleMember, New(userID, objectID, KindMembership).Status)
	assert.Equal(t, StatusAttending, New(userID, objectID, KindAttendance).Status)
	assert.Empty(t, New(userID, objectID, KindSupport).Status)
}

func TestValidateRejectsForeignStatus(t *testing.T) {
	userID := uuid.New()
	objectID := uuid.New()

	// An attendance value is not a membership role, and vice versa.
	rel := New(userID, objectID, KindMembership)
	rel.Status = StatusAttending
	assert.ErrorIs(t, rel.Validate(), common.ErrInvalidStatus)

	rel = New(userID, objectID, KindAttendance)
	rel.Status = RoleAdmin
	assert.ErrorIs(t, rel.Validate(), common.ErrInvalidStatus)

	rel = New(userID, objectID, KindSupport)
	rel.Message = "praying"
	assert.NoError(t, rel.Validate())
}

func TestValidateRequiresIDs(t *testing.T) {
	rel := New(uuid.Nil, uuid.New(), KindMembership)
	assert.ErrorIs(t, rel.Validate(), common.ErrValidation)

	rel = New(uuid.New(), uuid.Nil, KindMembership)
	assert.ErrorIs(t, rel.Validate(), common.ErrValidation)
}

func TestKindRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindMembership, KindAttendance, KindSupport} {
		got, ok := KindFromString(kind.String())
		require.True(t, ok)
		assert.Equal(t, kind, got)

		data, err := json.Marshal(kind)
		require.NoError(t, err)
		var back Kind
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, kind, back)
	}

	_, ok := KindFromString("friendship")
	assert.False(t, ok)
}

func TestKindScan(t *testing.T) {
	var k Kind
	require.NoError(t, k.Scan("attendance"))
	assert.Equal(t, KindAttendance, k)

	require.NoError(t, k.Scan([]byte("support")))
	assert.Equal(t, KindSupport, k)

	assert.Error(t, k.Scan("friendship"))
}

func TestKindForObject(t *testing.T) {
	kind, ok := KindForObject(common.ObjectKindGroup)
	require.True(t, ok)
	assert.Equal(t, KindMembership, kind)

	kind, ok = KindForObject(common.ObjectKindEvent)
	require.True(t, ok)
	assert.Equal(t, KindAttendance, kind)

	kind, ok = KindForObject(common.ObjectKindPrayer)
	require.True(t, ok)
	assert.Equal(t, KindSupport, kind)

	_, ok = KindForObject(common.ObjectKindPost)
	assert.False(t, ok)
}
