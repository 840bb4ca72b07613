package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// InvitationRepository implements storage.InvitationRepository using GORM.
type InvitationRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewInvitationRepository creates a new PostgreSQL invitation repository
func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{
		db:  db,
		log: logger.Repository("invitation"),
	}
}

func (r *InvitationRepository) Create(inv *user.InvitationCode) error {
	r.log.Debug("creating invitation code", "code", inv.Code)

	if err := r.db.Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrCodeCollision
		}
		r.log.Error("failed to create invitation code", "error", err)
		return fmt.Errorf("failed to create invitation code: %w", err)
	}

	r.log.Info("invitation code created", "id", inv.ID)
	return nil
}

func (r *InvitationRepository) GetByCode(code string) (*user.InvitationCode, error) {
	var inv user.InvitationCode
	if err := r.db.Where("code = ?", code).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get invitation code", "error", err)
		return nil, fmt.Errorf("failed to get invitation code: %w", err)
	}
	return &inv, nil
}

// MarkUsed flips an unused code to used. The conditional WHERE clause is
// what makes redemption single-use under concurrent requests: only the
// first writer matches a row, every later one gets ErrInvalidInvitation.
func (r *InvitationRepository) MarkUsed(code string, usedBy uuid.UUID, usedAt time.Time) error {
	res := r.db.Model(&user.InvitationCode{}).
		Where("code = ? AND is_used = ?", code, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_by": usedBy,
			"used_at": usedAt,
		})
	if res.Error != nil {
		r.log.Error("failed to mark invitation code used", "error", res.Error)
		return fmt.Errorf("failed to mark invitation code used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidInvitation
	}

	r.log.Info("invitation code redeemed", "used_by", usedBy)
	return nil
}
