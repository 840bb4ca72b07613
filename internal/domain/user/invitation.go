package user

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationCode gates new-identity creation. A code moves unused -> used
// exactly once; used never reverts. The unique index on Code is the
// authority when two generators collide, and MarkUsed-style conditional
// updates are the authority when two redeemers race.
type InvitationCode struct {
	ID     uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Code   string     `json:"code" gorm:"uniqueIndex;not null;size:16"`
	IsUsed bool       `json:"is_used" gorm:"not null;default:false"`
	UsedBy *uuid.UUID `json:"used_by,omitempty" gorm:"type:uuid"`
	UsedAt *time.Time `json:"used_at,omitempty"`

	CreatedByID uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (InvitationCode) TableName() string {
	return "invitation_codes"
}

// BeforeCreate sets a UUID before creating the record
func (i *InvitationCode) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// NewInvitation creates an unused invitation with a fresh random code.
func NewInvitation(createdBy uuid.UUID) (*InvitationCode, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}
	return &InvitationCode{
		ID:          uuid.New(),
		Code:        code,
		CreatedByID: createdBy,
	}, nil
}

// Regenerate replaces the code after a uniqueness collision.
func (i *InvitationCode) Regenerate() error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	i.Code = code
	return nil
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// GenerateCode returns an 8-character uppercase alphanumeric code.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
