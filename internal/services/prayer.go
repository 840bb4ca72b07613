package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
	"github.com/koinonia-app/koinonia-api/internal/validation"
)

// PrayerService handles prayer requests and support.
type PrayerService struct {
	store  storage.Store
	policy *policy.Engine
	now    func() time.Time
}

// NewPrayerService creates a new prayer service.
func NewPrayerService(store storage.Store, engine *policy.Engine) *PrayerService {
	return &PrayerService{store: store, policy: engine, now: time.Now}
}

// CreatePrayerRequest is the payload for creating a prayer request.
type CreatePrayerRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Private     bool   `json:"private"`
}

// Create makes a prayer request in the to_pray state.
func (s *PrayerService) Create(ownerID uuid.UUID, req CreatePrayerRequest) (*prayer.Prayer, error) {
	if err := validation.ValidateTitle(req.Title, "title"); err != nil {
		return nil, err
	}

	p := prayer.New(req.Title, req.Description, req.Private, ownerID)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Prayers().Create(p); err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.Internal(err)
	}

	logger.Service("prayers").Info("Prayer created", "prayer_id", p.ID, "author_id", ownerID)
	return p, nil
}

// Get returns a prayer the viewer is allowed to see. Private prayers are
// visible only to their author.
func (s *PrayerService) Get(viewerID, prayerID uuid.UUID) (*prayer.Prayer, error) {
	p, err := s.store.Prayers().GetByID(prayerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeView(viewerID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePrayerRequest carries the editable prayer fields. Status accepts a
// value from the prayer vocabulary.
type UpdatePrayerRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
	Status      *string `json:"status"`
}

// Update applies a partial update. Author only. Moving the status to
// answered stamps the answered time.
func (s *PrayerService) Update(userID, prayerID uuid.UUID, req UpdatePrayerRequest) (*prayer.Prayer, error) {
	p, err := s.store.Prayers().GetByID(prayerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, p); err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Private != nil {
		p.Private = *req.Private
	}
	if req.Status != nil {
		status, ok := prayer.StatusFromString(*req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown prayer status %q", common.ErrInvalidStatus, *req.Status)
		}
		p.SetStatus(status, s.now())
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Prayers().Update(p); err != nil {
		return nil, common.Internal(err)
	}
	return p, nil
}

// Delete removes a prayer and its support records in one transaction.
// Author only.
func (s *PrayerService) Delete(userID, prayerID uuid.UUID) error {
	p, err := s.store.Prayers().GetByID(prayerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, p); err != nil {
		return err
	}

	err = s.store.Transaction(func(tx storage.Store) error {
		if err := tx.Relationships().DeleteByObject(prayerID); err != nil {
			return err
		}
		return tx.Prayers().Delete(prayerID)
	})
	if err != nil {
		return common.Internal(err)
	}

	logger.Service("prayers").Info("Prayer deleted", "prayer_id", prayerID)
	return nil
}

// List returns public prayers plus the viewer's own, newest first, with an
// optional status filter.
func (s *PrayerService) List(viewerID uuid.UUID, status *prayer.Status, p storage.PaginationParams) ([]*prayer.Prayer, int64, error) {
	prayers, total, err := s.store.Prayers().ListVisible(viewerID, status, p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return prayers, total, nil
}

// ListMine returns the viewer's own prayers, newest first.
func (s *PrayerService) ListMine(viewerID uuid.UUID, status *prayer.Status, p storage.PaginationParams) ([]*prayer.Prayer, int64, error) {
	prayers, total, err := s.store.Prayers().ListByOwner(viewerID, status, p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return prayers, total, nil
}

// Support records that the user is praying for the request, with an
// optional message. The prayer must be visible to the user; supporting
// twice surfaces ErrAlreadySupported, including on a lost race.
func (s *PrayerService) Support(userID, prayerID uuid.UUID, message string) (*relationship.Relationship, error) {
	p, err := s.store.Prayers().GetByID(prayerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeView(userID, p); err != nil {
		return nil, err
	}

	rel := relationship.New(userID, prayerID, relationship.KindSupport)
	rel.Message = message
	if err := s.store.Relationships().Create(rel); err != nil {
		if errors.Is(err, storage.ErrRelationshipExists) {
			return nil, common.ErrAlreadySupported
		}
		return nil, common.Internal(err)
	}

	logger.Service("prayers").Debug("Prayer supported", "prayer_id", prayerID, "user_id", userID)
	return rel, nil
}

// Supports lists the prayer's support records. The list shares the
// prayer's visibility boundary.
func (s *PrayerService) Supports(viewerID, prayerID uuid.UUID) ([]*relationship.Relationship, error) {
	p, err := s.store.Prayers().GetByID(prayerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	ok, err := s.policy.CanSeeMembers(viewerID, p)
	if err != nil {
		return nil, common.Internal(err)
	}
	if !ok {
		return nil, common.ErrAccessDenied
	}

	rels, err := s.store.Relationships().ListByObject(prayerID)
	if err != nil {
		return nil, common.Internal(err)
	}
	return rels, nil
}
