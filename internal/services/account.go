// Package services carries the business logic between the HTTP handlers
// and the storage layer. Every service receives a storage.Store and the
// policy engine; authorization decisions never happen anywhere else.
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
	"github.com/koinonia-app/koinonia-api/internal/validation"
)

// invitationRetries bounds code regeneration after uniqueness collisions.
const invitationRetries = 5

// AccountService handles registration, login and invitation codes.
type AccountService struct {
	store storage.Store
}

// NewAccountService creates a new account service.
func NewAccountService(store storage.Store) *AccountService {
	return &AccountService{store: store}
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email          string `json:"email" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Bio            string `json:"bio"`
	InvitationCode string `json:"invitation_code" binding:"required"`
}

// Register creates a user account gated by an invitation code. The code
// redemption and the user insert commit together: if either fails, the
// code stays unused and no account exists.
func (s *AccountService) Register(req RegisterRequest) (*user.User, error) {
	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, err
	}

	newUser := user.New(req.Email, req.Username, req.FirstName, req.LastName, req.Bio)
	if err := newUser.Validate(); err != nil {
		return nil, err
	}
	if err := newUser.SetPassword(req.Password); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.InvitationCode))
	if code == "" {
		return nil, common.ErrInvalidInvitation
	}

	// Pre-check the username so a taken name fails before the invitation
	// code is touched. The unique index inside the transaction remains the
	// authority when two registrations race on the same name.
	if _, err := s.store.Users().GetByUsername(newUser.Username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, common.Internal(err)
	}

	err := s.store.Transaction(func(tx storage.Store) error {
		// The conditional update is the single-use authority: a code that
		// is unknown or already redeemed fails here, including when two
		// registrations race on the same code.
		if err := tx.Invitations().MarkUsed(code, newUser.ID, time.Now()); err != nil {
			return err
		}
		return tx.Users().Create(newUser)
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidInvitation) ||
			errors.Is(err, common.ErrEmailTaken) ||
			errors.Is(err, common.ErrUsernameTaken) ||
			errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.Internal(err)
	}

	logger.Service("account").Info("User registered", "user_id", newUser.ID, "username", newUser.Username)
	return newUser, nil
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns the user. Unknown email and wrong
// password both surface ErrInvalidCredentials so the two cases cannot be
// told apart.
func (s *AccountService) Login(req LoginRequest) (*user.User, error) {
	u, err := s.store.Users().GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.Internal(err)
	}

	if !u.CheckPassword(req.Password) {
		return nil, common.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, common.ErrAccountDisabled
	}

	logger.Service("account").Debug("User logged in", "user_id", u.ID)
	return u, nil
}

// GetProfile returns a user's public profile.
func (s *AccountService) GetProfile(userID uuid.UUID) (*user.User, error) {
	u, err := s.store.Users().GetByID(userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	return u, nil
}

// UpdateProfileRequest carries the editable profile fields. Nil pointers
// leave the current value untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *AccountService) UpdateProfile(userID uuid.UUID, req UpdateProfileRequest) (*user.User, error) {
	u, err := s.store.Users().GetByID(userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Users().Update(u); err != nil {
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrUsernameTaken) || errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	return u, nil
}

// GenerateInvitation creates a fresh invitation code owned by the caller.
// Code collisions are resolved by regenerating, with the unique index as
// the final authority.
func (s *AccountService) GenerateInvitation(createdBy uuid.UUID) (*user.InvitationCode, error) {
	inv, err := user.NewInvitation(createdBy)
	if err != nil {
		return nil, common.Internal(err)
	}

	for attempt := 0; attempt < invitationRetries; attempt++ {
		err = s.store.Invitations().Create(inv)
		if err == nil {
			logger.Service("account").Info("Invitation generated", "created_by", createdBy)
			return inv, nil
		}
		if !errors.Is(err, storage.ErrCodeCollision) {
			return nil, common.Internal(err)
		}
		if err := inv.Regenerate(); err != nil {
			return nil, common.Internal(err)
		}
	}
	return nil, common.Internal(err)
}

// ValidateInvitation reports whether a code exists and is still unused.
// It is advisory only; Register re-checks atomically.
func (s *AccountService) ValidateInvitation(code string) (bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	inv, err := s.store.Invitations().GetByCode(code)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, common.Internal(err)
	}
	return !inv.IsUsed, nil
}
