package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/group"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// GroupRepository implements storage.GroupRepository using GORM.
type GroupRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{
		db:  db,
		log: logger.Repository("group"),
	}
}

func (r *GroupRepository) Create(g *group.Group) error {
	r.log.Debug("creating group", "name", g.Name, "owner_id", g.OwnerID)

	if err := g.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(g).Error; err != nil {
		r.log.Error("failed to create group", "error", err, "name", g.Name)
		return fmt.Errorf("failed to create group: %w", err)
	}

	r.log.Info("group created", "id", g.ID, "name", g.Name)
	return nil
}

func (r *GroupRepository) GetByID(id uuid.UUID) (*group.Group, error) {
	var g group.Group
	if err := r.db.First(&g, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get group by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get group by ID: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) Update(g *group.Group) error {
	r.log.Debug("updating group", "id", g.ID)

	if err := g.Validate(); err != nil {
		return err
	}

	if err := r.db.Save(g).Error; err != nil {
		r.log.Error("failed to update group", "error", err, "id", g.ID)
		return fmt.Errorf("failed to update group: %w", err)
	}

	r.log.Info("group updated", "id", g.ID)
	return nil
}

func (r *GroupRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&group.Group{}, "id = ?", id)
	if res.Error != nil {
		r.log.Error("failed to delete group", "error", res.Error, "id", id)
		return fmt.Errorf("failed to delete group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}

	r.log.Info("group deleted", "id", id)
	return nil
}

func (r *GroupRepository) ListPublic(p storage.PaginationParams) ([]*group.Group, int64, error) {
	p.Normalize()

	var total int64
	if err := r.db.Model(&group.Group{}).Where("is_private = ?", false).Count(&total).Error; err != nil {
		r.log.Error("failed to count public groups", "error", err)
		return nil, 0, fmt.Errorf("failed to count public groups: %w", err)
	}

	var groups []*group.Group
	if err := r.db.Where("is_private = ?", false).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&groups).Error; err != nil {
		r.log.Error("failed to list public groups", "error", err)
		return nil, 0, fmt.Errorf("failed to list public groups: %w", err)
	}

	return groups, total, nil
}

func (r *GroupRepository) ListByIDs(ids []uuid.UUID, p storage.PaginationParams) ([]*group.Group, int64, error) {
	p.Normalize()

	if len(ids) == 0 {
		return nil, 0, nil
	}

	var total int64
	if err := r.db.Model(&group.Group{}).Where("id IN ?", ids).Count(&total).Error; err != nil {
		r.log.Error("failed to count groups by IDs", "error", err)
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	var groups []*group.Group
	if err := r.db.Where("id IN ?", ids).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&groups).Error; err != nil {
		r.log.Error("failed to list groups by IDs", "error", err)
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, total, nil
}
