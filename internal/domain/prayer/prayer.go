package prayer

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

// Prayer is a prayer request. A private prayer is visible only to its
// author; support records never widen that boundary.
type Prayer struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description string     `json:"description" gorm:"type:text;not null"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null"`
	Private     bool       `json:"private" gorm:"column:is_private;not null;default:false"`
	OwnerID     uuid.UUID  `json:"author_id" gorm:"type:uuid;not null"`
	AnsweredAt  *time.Time `json:"answered_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Prayer) TableName() string {
	return "prayers"
}

// BeforeCreate sets a UUID before creating the record
func (p *Prayer) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// New creates a prayer request in the to_pray state.
func New(title, description string, private bool, ownerID uuid.UUID) *Prayer {
	return &Prayer{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      StatusToPray,
		Private:     private,
		OwnerID:     ownerID,
	}
}

// Validate checks if the prayer data is valid
func (p *Prayer) Validate() error {
	if p.Title == "" {
		return common.Validationf("title is required")
	}
	if p.Description == "" {
		return common.Validationf("description is required")
	}
	if p.OwnerID == uuid.Nil {
		return common.Validationf("author_id is required")
	}
	return nil
}

// SetStatus updates the status, stamping AnsweredAt on answered.
func (p *Prayer) SetStatus(s Status, now time.Time) {
	p.Status = s
	if s == StatusAnswered {
		p.AnsweredAt = &now
	}
}

func (p *Prayer) GetID() uuid.UUID      { return p.ID }
func (p *Prayer) GetOwnerID() uuid.UUID { return p.OwnerID }
func (p *Prayer) IsPrivate() bool       { return p.Private }

func (p *Prayer) ObjectKind() common.ObjectKind { return common.ObjectKindPrayer }

// Status represents the lifecycle state of a prayer request
type Status byte

const (
	StatusToPray Status = iota
	StatusInProgress
	StatusAnswered
)

func (s Status) String() string {
	switch s {
	case StatusToPray:
		return "to_pray"
	case StatusInProgress:
		return "in_progress"
	case StatusAnswered:
		return "answered"
	default:
		return "unknown"
	}
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "to_pray":
		return StatusToPray, true
	case "in_progress":
		return StatusInProgress, true
	case "answered":
		return StatusAnswered, true
	default:
		return StatusToPray, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid prayer status: %s", str)
	}
	*s = status
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusToPray
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
		} else {
			return fmt.Errorf("cannot scan %T into Status", value)
		}
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid prayer status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
