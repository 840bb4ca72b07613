package relationship

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

// Relationship links a user to a shared object. One record type covers
// group membership, event attendance and prayer support; Kind tags the
// variant and Status carries the kind-specific role or attendance value.
// The (user_id, object_id) unique index is the authority for the
// one-relationship-per-pair invariant, including under concurrent writers.
type Relationship struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_relationships_user_object"`
	ObjectID uuid.UUID `json:"object_id" gorm:"type:uuid;not null;uniqueIndex:idx_relationships_user_object"`
	Kind     Kind      `json:"kind" gorm:"type:varchar(20);not null"`
	Status   string    `json:"status,omitempty" gorm:"type:varchar(20)"`
	Message  string    `json:"message,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Relationship) TableName() string {
	return "relationships"
}

// BeforeCreate sets a UUID before creating the record
func (r *Relationship) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// New creates a relationship of the given kind with the kind's default status.
func New(userID, objectID uuid.UUID, kind Kind) *Relationship {
	return &Relationship{
		ID:       uuid.New(),
		UserID:   userID,
		ObjectID: objectID,
		Kind:     kind,
		Status:   kind.DefaultStatus(),
	}
}

// Validate checks that the status value is legal for the relationship kind.
func (r *Relationship) Validate() error {
	if r.UserID == uuid.Nil {
		return common.Validationf("user_id is required")
	}
	if r.ObjectID == uuid.Nil {
		return common.Validationf("object_id is required")
	}
	switch r.Kind {
	case KindMembership:
		if !ValidMembershipRole(r.Status) {
			return fmt.Errorf("%w: unknown membership role %q", common.ErrInvalidStatus, r.Status)
		}
	case KindAttendance:
		if !ValidAttendanceStatus(r.Status) {
			return fmt.Errorf("%w: unknown attendance status %q", common.ErrInvalidStatus, r.Status)
		}
	case KindSupport:
		// Support carries a free-text message; presence of the row is
		// the signal, there is no status vocabulary.
	default:
		return fmt.Errorf("%w: unknown relationship kind", common.ErrInvalidStatus)
	}
	return nil
}

// Kind represents the variant of a relationship record.
type Kind byte

const (
	KindMembership Kind = iota
	KindAttendance
	KindSupport
)

// Membership roles.
const (
	RoleMember    = "member"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Attendance statuses.
const (
	StatusAttending    = "attending"
	StatusMaybe        = "maybe"
	StatusNotAttending = "not_attending"
)

// ValidMembershipRole reports whether s is a legal membership role.
func ValidMembershipRole(s string) bool {
	return s == RoleMember || s == RoleAdmin || s == RoleModerator
}

// ValidAttendanceStatus reports whether s is a legal attendance status.
func ValidAttendanceStatus(s string) bool {
	return s == StatusAttending || s == StatusMaybe || s == StatusNotAttending
}

// DefaultStatus returns the status a freshly created relationship of this
// kind carries: plain membership for groups, attending for events.
func (k Kind) DefaultStatus() string {
	switch k {
	case KindMembership:
		return RoleMember
	case KindAttendance:
		return StatusAttending
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindMembership:
		return "membership"
	case KindAttendance:
		return "attendance"
	case KindSupport:
		return "support"
	default:
		return "unknown"
	}
}

// KindFromString converts a string to a Kind
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "membership":
		return KindMembership, true
	case "attendance":
		return KindAttendance, true
	case "support":
		return KindSupport, true
	default:
		return KindMembership, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (k *Kind) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	kind, valid := KindFromString(str)
	if !valid {
		return fmt.Errorf("invalid relationship kind: %s", str)
	}
	*k = kind
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (k *Kind) Scan(value interface{}) error {
	if value == nil {
		*k = KindMembership
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
		} else {
			return fmt.Errorf("cannot scan %T into Kind", value)
		}
	}

	kind, valid := KindFromString(str)
	if !valid {
		return fmt.Errorf("invalid relationship kind value: %s", str)
	}
	*k = kind
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (k Kind) Value() (driver.Value, error) {
	return k.String(), nil
}

// KindForObject returns the relationship kind that backs joining the given
// object kind. Prayers use support records created by their own flow;
// posts have no relationship concept at all.
func KindForObject(objectKind common.ObjectKind) (Kind, bool) {
	switch objectKind {
	case common.ObjectKindGroup:
		return KindMembership, true
	case common.ObjectKindEvent:
		return KindAttendance, true
	case common.ObjectKindPrayer:
		return KindSupport, true
	default:
		return KindMembership, false
	}
}
