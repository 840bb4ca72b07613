package group

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

// Group is a community group. The owner is the creating user and is
// immutable after creation.
type Group struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string         `json:"name" gorm:"not null;size:100"`
	Description string         `json:"description" gorm:"type:text"`
	ImageURL    string         `json:"image_url,omitempty"`
	Tags        pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`
	Private     bool           `json:"private" gorm:"column:is_private;not null;default:false"`
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Group) TableName() string {
	return "groups"
}

// BeforeCreate sets a UUID before creating the record
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// New creates a group owned by the given user.
func New(name, description string, private bool, ownerID uuid.UUID) *Group {
	return &Group{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Private:     private,
		OwnerID:     ownerID,
	}
}

// Validate checks if the group data is valid
func (g *Group) Validate() error {
	if g.Name == "" {
		return common.Validationf("name is required")
	}
	if g.OwnerID == uuid.Nil {
		return common.Validationf("owner_id is required")
	}
	return nil
}

func (g *Group) GetID() uuid.UUID      { return g.ID }
func (g *Group) GetOwnerID() uuid.UUID { return g.OwnerID }
func (g *Group) IsPrivate() bool       { return g.Private }

func (g *Group) ObjectKind() common.ObjectKind { return common.ObjectKindGroup }
