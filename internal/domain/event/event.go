package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

// Event is a community gathering with a start date and optional end date.
type Event struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"not null;size:200"`
	Description string     `json:"description" gorm:"type:text"`
	Location    string     `json:"location,omitempty" gorm:"size:255"`
	StartDate   time.Time  `json:"start_date" gorm:"not null"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Private     bool       `json:"private" gorm:"column:is_private;not null;default:false"`
	OwnerID     uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// New creates an event owned by the given user.
func New(title, description, location string, startDate time.Time, endDate *time.Time, private bool, ownerID uuid.UUID) *Event {
	return &Event{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Location:    location,
		StartDate:   startDate,
		EndDate:     endDate,
		Private:     private,
		OwnerID:     ownerID,
	}
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Title == "" {
		return common.Validationf("title is required")
	}
	if e.StartDate.IsZero() {
		return common.Validationf("start_date is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return common.Validationf("end_date must be after start_date")
	}
	if e.OwnerID == uuid.Nil {
		return common.Validationf("owner_id is required")
	}
	return nil
}

func (e *Event) GetID() uuid.UUID      { return e.ID }
func (e *Event) GetOwnerID() uuid.UUID { return e.OwnerID }
func (e *Event) IsPrivate() bool       { return e.Private }

func (e *Event) ObjectKind() common.ObjectKind { return common.ObjectKindEvent }
