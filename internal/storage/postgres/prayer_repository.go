package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// PrayerRepository implements storage.PrayerRepository using GORM.
type PrayerRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPrayerRepository creates a new PostgreSQL prayer repository
func NewPrayerRepository(db *gorm.DB) *PrayerRepository {
	return &PrayerRepository{
		db:  db,
		log: logger.Repository("prayer"),
	}
}

func (r *PrayerRepository) Create(pr *prayer.Prayer) error {
	r.log.Debug("creating prayer", "title", pr.Title, "author_id", pr.OwnerID)

	if err := pr.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(pr).Error; err != nil {
		r.log.Error("failed to create prayer", "error", err, "title", pr.Title)
		return fmt.Errorf("failed to create prayer: %w", err)
	}

	r.log.Info("prayer created", "id", pr.ID)
	return nil
}

func (r *PrayerRepository) GetByID(id uuid.UUID) (*prayer.Prayer, error) {
	var pr prayer.Prayer
	if err := r.db.First(&pr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get prayer by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get prayer by ID: %w", err)
	}
	return &pr, nil
}

func (r *PrayerRepository) Update(pr *prayer.Prayer) error {
	r.log.Debug("updating prayer", "id", pr.ID)

	if err := pr.Validate(); err != nil {
		return err
	}

	if err := r.db.Save(pr).Error; err != nil {
		r.log.Error("failed to update prayer", "error", err, "id", pr.ID)
		return fmt.Errorf("failed to update prayer: %w", err)
	}

	r.log.Info("prayer updated", "id", pr.ID)
	return nil
}

func (r *PrayerRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&prayer.Prayer{}, "id = ?", id)
	if res.Error != nil {
		r.log.Error("failed to delete prayer", "error", res.Error, "id", id)
		return fmt.Errorf("failed to delete prayer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}

	r.log.Info("prayer deleted", "id", id)
	return nil
}

func (r *PrayerRepository) ListVisible(userID uuid.UUID, status *prayer.Status, p storage.PaginationParams) ([]*prayer.Prayer, int64, error) {
	p.Normalize()

	query := r.db.Model(&prayer.Prayer{}).Where("is_private = ? OR owner_id = ?", false, userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count visible prayers", "error", err)
		return nil, 0, fmt.Errorf("failed to count visible prayers: %w", err)
	}

	var prayers []*prayer.Prayer
	if err := query.Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&prayers).Error; err != nil {
		r.log.Error("failed to list visible prayers", "error", err)
		return nil, 0, fmt.Errorf("failed to list visible prayers: %w", err)
	}

	return prayers, total, nil
}

func (r *PrayerRepository) ListByOwner(userID uuid.UUID, status *prayer.Status, p storage.PaginationParams) ([]*prayer.Prayer, int64, error) {
	p.Normalize()

	query := r.db.Model(&prayer.Prayer{}).Where("owner_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count prayers by owner", "error", err, "owner_id", userID)
		return nil, 0, fmt.Errorf("failed to count prayers by owner: %w", err)
	}

	var prayers []*prayer.Prayer
	if err := query.Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&prayers).Error; err != nil {
		r.log.Error("failed to list prayers by owner", "error", err, "owner_id", userID)
		return nil, 0, fmt.Errorf("failed to list prayers by owner: %w", err)
	}

	return prayers, total, nil
}
