package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/logger"
)

// UserRepository implements storage.UserRepository using GORM.
type UserRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db:  db,
		log: logger.Repository("user"),
	}
}

func (r *UserRepository) Create(u *user.User) error {
	r.log.Debug("creating user", "email", u.Email, "username", u.Username)

	if err := u.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.classifyDuplicate(u)
		}
		r.log.Error("failed to create user", "error", err, "email", u.Email)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created", "id", u.ID, "username", u.Username)
	return nil
}

// classifyDuplicate decides which uniqueness constraint rejected the
// write, so a losing concurrent registration still surfaces the specific
// conflict rather than a generic failure.
func (r *UserRepository) classifyDuplicate(u *user.User) error {
	var existing user.User
	if err := r.db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
		return common.ErrEmailTaken
	}
	return common.ErrUsernameTaken
}

func (r *UserRepository) GetByID(id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Update(u *user.User) error {
	r.log.Debug("updating user", "id", u.ID)

	if err := u.Validate(); err != nil {
		return err
	}

	if err := r.db.Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.classifyDuplicate(u)
		}
		r.log.Error("failed to update user", "error", err, "id", u.ID)
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated", "id", u.ID)
	return nil
}
