package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

// User is a community member. Email and username are unique; the backing
// store's indexes are the authority for both under concurrent registration.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"not null"`
	LastName     string    `json:"last_name" gorm:"not null"`
	Bio          string    `json:"bio,omitempty" gorm:"type:text"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets a UUID before creating the record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// New creates a user with a normalized email and an active account.
func New(email, username, firstName, lastName, bio string) *User {
	return &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Username:  strings.TrimSpace(username),
		FirstName: firstName,
		LastName:  lastName,
		Bio:       bio,
		IsActive:  true,
	}
}

// Validate checks if the user data is valid
func (u *User) Validate() error {
	if u.Email == "" {
		return common.Validationf("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return common.Validationf("email must have a valid format")
	}
	if u.Username == "" {
		return common.Validationf("username is required")
	}
	if u.FirstName == "" {
		return common.Validationf("first_name is required")
	}
	if u.LastName == "" {
		return common.Validationf("last_name is required")
	}
	return nil
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return common.Validationf("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
