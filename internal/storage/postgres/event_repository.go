package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/event"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// EventRepository implements storage.EventRepository using GORM.
type EventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *EventRepository) Create(e *event.Event) error {
	r.log.Debug("creating event", "title", e.Title, "owner_id", e.OwnerID)

	if err := e.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(e).Error; err != nil {
		r.log.Error("failed to create event", "error", err, "title", e.Title)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("event created", "id", e.ID, "title", e.Title)
	return nil
}

func (r *EventRepository) GetByID(id uuid.UUID) (*event.Event, error) {
	var e event.Event
	if err := r.db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get event by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) Update(e *event.Event) error {
	r.log.Debug("updating event", "id", e.ID)

	if err := e.Validate(); err != nil {
		return err
	}

	if err := r.db.Save(e).Error; err != nil {
		r.log.Error("failed to update event", "error", err, "id", e.ID)
		return fmt.Errorf("failed to update event: %w", err)
	}

	r.log.Info("event updated", "id", e.ID)
	return nil
}

func (r *EventRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&event.Event{}, "id = ?", id)
	if res.Error != nil {
		r.log.Error("failed to delete event", "error", res.Error, "id", id)
		return fmt.Errorf("failed to delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}

	r.log.Info("event deleted", "id", id)
	return nil
}

func (r *EventRepository) ListPublic(upcoming bool, now time.Time, p storage.PaginationParams) ([]*event.Event, int64, error) {
	p.Normalize()

	query := r.db.Model(&event.Event{}).Where("is_private = ?", false)
	if upcoming {
		query = query.Where("start_date >= ?", now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count public events", "error", err)
		return nil, 0, fmt.Errorf("failed to count public events: %w", err)
	}

	var events []*event.Event
	if err := query.Order("start_date ASC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&events).Error; err != nil {
		r.log.Error("failed to list public events", "error", err)
		return nil, 0, fmt.Errorf("failed to list public events: %w", err)
	}

	return events, total, nil
}

func (r *EventRepository) ListForUser(userID uuid.UUID, ids []uuid.UUID, upcoming bool, now time.Time, p storage.PaginationParams) ([]*event.Event, int64, error) {
	p.Normalize()

	query := r.db.Model(&event.Event{})
	if len(ids) > 0 {
		query = query.Where("owner_id = ? OR id IN ?", userID, ids)
	} else {
		query = query.Where("owner_id = ?", userID)
	}
	if upcoming {
		query = query.Where("start_date >= ?", now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count user events", "error", err, "user_id", userID)
		return nil, 0, fmt.Errorf("failed to count user events: %w", err)
	}

	var events []*event.Event
	if err := query.Order("start_date ASC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&events).Error; err != nil {
		r.log.Error("failed to list user events", "error", err, "user_id", userID)
		return nil, 0, fmt.Errorf("failed to list user events: %w", err)
	}

	return events, total, nil
}
