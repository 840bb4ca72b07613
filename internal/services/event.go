package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/event"
	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
	"github.com/koinonia-app/koinonia-api/internal/validation"
)

// EventService handles the event lifecycle and attendance.
type EventService struct {
	store  storage.Store
	policy *policy.Engine
	now    func() time.Time
}

// NewEventService creates a new event service.
func NewEventService(store storage.Store, engine *policy.Engine) *EventService {
	return &EventService{store: store, policy: engine, now: time.Now}
}

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
	ImageURL    string     `json:"image_url"`
	Private     bool       `json:"private"`
}

// Create makes an event and marks the creator as attending in the same
// transaction.
func (s *EventService) Create(ownerID uuid.UUID, req CreateEventRequest) (*event.Event, error) {
	if err := validation.ValidateTitle(req.Title, "title"); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	e := event.New(req.Title, req.Description, req.Location, req.StartDate, req.EndDate, req.Private, ownerID)
	e.ImageURL = req.ImageURL
	if err := e.Validate(); err != nil {
		return nil, err
	}

	err := s.store.Transaction(func(tx storage.Store) error {
		if err := tx.Events().Create(e); err != nil {
			return err
		}
		rel := relationship.New(ownerID, e.ID, relationship.KindAttendance)
		return tx.Relationships().Create(rel)
	})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.Internal(err)
	}

	logger.Service("events").Info("Event created", "event_id", e.ID, "owner_id", ownerID)
	return e, nil
}

// Get returns an event the viewer is allowed to see.
func (s *EventService) Get(viewerID, eventID uuid.UUID) (*event.Event, error) {
	e, err := s.store.Events().GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeView(viewerID, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEventRequest carries the editable event fields.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ImageURL    *string    `json:"image_url"`
	Private     *bool      `json:"private"`
}

// Update applies a partial update. Owner only.
func (s *EventService) Update(userID, eventID uuid.UUID, req UpdateEventRequest) (*event.Event, error) {
	e, err := s.store.Events().GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, e); err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = req.EndDate
	}
	if req.ImageURL != nil {
		e.ImageURL = *req.ImageURL
	}
	if req.Private != nil {
		e.Private = *req.Private
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Events().Update(e); err != nil {
		return nil, common.Internal(err)
	}
	return e, nil
}

// Delete removes an event and its attendance records in one transaction.
// Owner only.
func (s *EventService) Delete(userID, eventID uuid.UUID) error {
	e, err := s.store.Events().GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, e); err != nil {
		return err
	}

	err = s.store.Transaction(func(tx storage.Store) error {
		if err := tx.Relationships().DeleteByObject(eventID); err != nil {
			return err
		}
		return tx.Events().Delete(eventID)
	})
	if err != nil {
		return common.Internal(err)
	}

	logger.Service("events").Info("Event deleted", "event_id", eventID)
	return nil
}

// ListPublic returns public events ordered by start date, optionally only
// upcoming ones.
func (s *EventService) ListPublic(upcoming bool, p storage.PaginationParams) ([]*event.Event, int64, error) {
	events, total, err := s.store.Events().ListPublic(upcoming, s.now(), p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return events, total, nil
}

// ListMine returns events the user owns or attends.
func (s *EventService) ListMine(userID uuid.UUID, upcoming bool, p storage.PaginationParams) ([]*event.Event, int64, error) {
	rels, err := s.store.Relationships().ListByUser(userID, relationship.KindAttendance)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ObjectID)
	}

	events, total, err := s.store.Events().ListForUser(userID, ids, upcoming, s.now(), p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return events, total, nil
}

// Leave deletes the user's attendance record entirely, unlike a
// not_attending status which keeps the row and with it visibility into a
// private event. The owner cannot leave their own event; they delete it.
func (s *EventService) Leave(userID, eventID uuid.UUID) error {
	e, err := s.store.Events().GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Internal(err)
	}
	if e.OwnerID == userID {
		return common.ErrOwnerCannotLeave
	}

	if err := s.store.Relationships().Delete(userID, eventID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotMember
		}
		return common.Internal(err)
	}

	logger.Service("events").Debug("User left event", "event_id", eventID, "user_id", userID)
	return nil
}

// Attendees lists the event's attendance records. The roster shares the
// event's visibility boundary.
func (s *EventService) Attendees(viewerID, eventID uuid.UUID) ([]*relationship.Relationship, error) {
	e, err := s.store.Events().GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	ok, err := s.policy.CanSeeMembers(viewerID, e)
	if err != nil {
		return nil, common.Internal(err)
	}
	if !ok {
		return nil, common.ErrAccessDenied
	}

	rels, err := s.store.Relationships().ListByObject(eventID)
	if err != nil {
		return nil, common.Internal(err)
	}
	return rels, nil
}

// SetAttendance records or updates the user's attendance status. The
// status must come from the attendance vocabulary, and the user must be
// able to see the event; the owner always can.
func (s *EventService) SetAttendance(userID, eventID uuid.UUID, status string) (*relationship.Relationship, error) {
	if !relationship.ValidAttendanceStatus(status) {
		return nil, fmt.Errorf("%w: unknown attendance status %q", common.ErrInvalidStatus, status)
	}

	e, err := s.store.Events().GetByID(eventID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeView(userID, e); err != nil {
		return nil, err
	}

	rel, err := s.store.Relationships().Find(userID, eventID)
	if err != nil {
		return nil, common.Internal(err)
	}
	if rel != nil {
		rel.Status = status
		if err := s.store.Relationships().Update(rel); err != nil {
			return nil, common.Internal(err)
		}
		return rel, nil
	}

	rel = relationship.New(userID, eventID, relationship.KindAttendance)
	rel.Status = status
	if err := s.store.Relationships().Create(rel); err != nil {
		// Lost a race with the user's own concurrent request: fold both
		// writers into an update of the surviving row.
		if errors.Is(err, storage.ErrRelationshipExists) {
			existing, findErr := s.store.Relationships().Find(userID, eventID)
			if findErr != nil || existing == nil {
				return nil, common.Internal(err)
			}
			existing.Status = status
			if err := s.store.Relationships().Update(existing); err != nil {
				return nil, common.Internal(err)
			}
			return existing, nil
		}
		return nil, common.Internal(err)
	}
	return rel, nil
}
