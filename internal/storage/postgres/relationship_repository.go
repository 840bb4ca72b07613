package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// RelationshipRepository implements storage.RelationshipRepository using
// GORM. The (user_id, object_id) unique index enforces the
// one-relationship-per-pair invariant; a duplicate insert, including one
// that loses a race, surfaces as storage.ErrRelationshipExists.
type RelationshipRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewRelationshipRepository creates a new PostgreSQL relationship repository
func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{
		db:  db,
		log: logger.Repository("relationship"),
	}
}

func (r *RelationshipRepository) Find(userID, objectID uuid.UUID) (*relationship.Relationship, error) {
	var rel relationship.Relationship
	if err := r.db.Where("user_id = ? AND object_id = ?", userID, objectID).First(&rel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to find relationship", "error", err, "user_id", userID, "object_id", objectID)
		return nil, fmt.Errorf("failed to find relationship: %w", err)
	}
	return &rel, nil
}

func (r *RelationshipRepository) Create(rel *relationship.Relationship) error {
	r.log.Debug("creating relationship", "user_id", rel.UserID, "object_id", rel.ObjectID, "kind", rel.Kind)

	if err := rel.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(rel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrRelationshipExists
		}
		r.log.Error("failed to create relationship", "error", err)
		return fmt.Errorf("failed to create relationship: %w", err)
	}

	r.log.Info("relationship created", "id", rel.ID, "kind", rel.Kind)
	return nil
}

func (r *RelationshipRepository) Update(rel *relationship.Relationship) error {
	if err := rel.Validate(); err != nil {
		return err
	}

	if err := r.db.Save(rel).Error; err != nil {
		r.log.Error("failed to update relationship", "error", err, "id", rel.ID)
		return fmt.Errorf("failed to update relationship: %w", err)
	}

	r.log.Info("relationship updated", "id", rel.ID, "status", rel.Status)
	return nil
}

func (r *RelationshipRepository) Delete(userID, objectID uuid.UUID) error {
	res := r.db.Where("user_id = ? AND object_id = ?", userID, objectID).Delete(&relationship.Relationship{})
	if res.Error != nil {
		r.log.Error("failed to delete relationship", "error", res.Error, "user_id", userID, "object_id", objectID)
		return fmt.Errorf("failed to delete relationship: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}

	r.log.Info("relationship deleted", "user_id", userID, "object_id", objectID)
	return nil
}

func (r *RelationshipRepository) DeleteByObject(objectID uuid.UUID) error {
	if err := r.db.Where("object_id = ?", objectID).Delete(&relationship.Relationship{}).Error; err != nil {
		r.log.Error("failed to delete relationships for object", "error", err, "object_id", objectID)
		return fmt.Errorf("failed to delete relationships for object: %w", err)
	}

	r.log.Info("relationships deleted for object", "object_id", objectID)
	return nil
}

func (r *RelationshipRepository) ListByObject(objectID uuid.UUID) ([]*relationship.Relationship, error) {
	var rels []*relationship.Relationship
	if err := r.db.Where("object_id = ?", objectID).
		Order("created_at ASC").
		Find(&rels).Error; err != nil {
		r.log.Error("failed to list relationships by object", "error", err, "object_id", objectID)
		return nil, fmt.Errorf("failed to list relationships by object: %w", err)
	}
	return rels, nil
}

func (r *RelationshipRepository) ListByUser(userID uuid.UUID, kind relationship.Kind) ([]*relationship.Relationship, error) {
	var rels []*relationship.Relationship
	if err := r.db.Where("user_id = ? AND kind = ?", userID, kind).
		Order("created_at ASC").
		Find(&rels).Error; err != nil {
		r.log.Error("failed to list relationships by user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list relationships by user: %w", err)
	}
	return rels, nil
}

func (r *RelationshipRepository) CountByObject(objectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&relationship.Relationship{}).Where("object_id = ?", objectID).Count(&count).Error; err != nil {
		r.log.Error("failed to count relationships", "error", err, "object_id", objectID)
		return 0, fmt.Errorf("failed to count relationships: %w", err)
	}
	return count, nil
}
