// Package storage defines the persistence contracts the services depend
// on. Two implementations exist: storage/postgres (GORM) and
// storage/memory (tests).
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/event"
	"github.com/koinonia-app/koinonia-api/internal/domain/group"
	"github.com/koinonia-app/koinonia-api/internal/domain/post"
	"github.com/koinonia-app/koinonia-api/internal/domain/prayer"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/domain/user"
)

// Storage-level sentinels. The services translate these into the
// appropriate domain error for the operation at hand.
var (
	// ErrRelationshipExists: the (user, object) unique index rejected an
	// insert, including on a lost race with a concurrent writer.
	ErrRelationshipExists = errors.New("relationship already exists")

	// ErrCodeCollision: the invitation code unique index rejected an
	// insert; the caller regenerates and retries.
	ErrCodeCollision = errors.New("invitation code collision")
)

// PaginationParams holds page-based listing parameters.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize clamps the parameters to sane bounds.
func (p *PaginationParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset returns the row offset for the normalized parameters.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Store bundles all repositories plus transaction scoping. Transaction
// runs fn against a store whose writes either all commit or all roll
// back; partial effects are never observable outside the transaction.
type Store interface {
	Users() UserRepository
	Invitations() InvitationRepository
	Groups() GroupRepository
	Events() EventRepository
	Prayers() PrayerRepository
	Posts() PostRepository
	Relationships() RelationshipRepository

	Transaction(fn func(Store) error) error
}

// UserRepository persists users. Create and Update surface
// common.ErrEmailTaken / common.ErrUsernameTaken on uniqueness
// violations, common.ErrNotFound on missing rows.
type UserRepository interface {
	Create(u *user.User) error
	GetByID(id uuid.UUID) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
	GetByUsername(username string) (*user.User, error)
	Update(u *user.User) error
}

// InvitationRepository persists invitation codes. MarkUsed flips an
// unused code to used atomically; if the code is unknown or already used
// it returns common.ErrInvalidInvitation, which makes the conditional
// update the authority under concurrent redemption.
type InvitationRepository interface {
	Create(inv *user.InvitationCode) error
	GetByCode(code string) (*user.InvitationCode, error)
	MarkUsed(code string, usedBy uuid.UUID, usedAt time.Time) error
}

// GroupRepository persists groups.
type GroupRepository interface {
	Create(g *group.Group) error
	GetByID(id uuid.UUID) (*group.Group, error)
	Update(g *group.Group) error
	Delete(id uuid.UUID) error
	ListPublic(p PaginationParams) ([]*group.Group, int64, error)
	ListByIDs(ids []uuid.UUID, p PaginationParams) ([]*group.Group, int64, error)
}

// EventRepository persists events.
type EventRepository interface {
	Create(e *event.Event) error
	GetByID(id uuid.UUID) (*event.Event, error)
	Update(e *event.Event) error
	Delete(id uuid.UUID) error
	ListPublic(upcoming bool, now time.Time, p PaginationParams) ([]*event.Event, int64, error)
	// ListForUser returns events owned by the user or whose ID is in ids
	// (the user's attendance records), ordered by start date.
	ListForUser(userID uuid.UUID, ids []uuid.UUID, upcoming bool, now time.Time, p PaginationParams) ([]*event.Event, int64, error)
}

// PrayerRepository persists prayer requests.
type PrayerRepository interface {
	Create(pr *prayer.Prayer) error
	GetByID(id uuid.UUID) (*prayer.Prayer, error)
	Update(pr *prayer.Prayer) error
	Delete(id uuid.UUID) error
	// ListVisible returns public prayers plus the user's own, newest first.
	ListVisible(userID uuid.UUID, status *prayer.Status, p PaginationParams) ([]*prayer.Prayer, int64, error)
	ListByOwner(userID uuid.UUID, status *prayer.Status, p PaginationParams) ([]*prayer.Prayer, int64, error)
}

// PostRepository persists posts, comments and likes.
type PostRepository interface {
	Create(ps *post.Post) error
	GetByID(id uuid.UUID) (*post.Post, error)
	Update(ps *post.Post) error
	Delete(id uuid.UUID) error
	List(groupID *uuid.UUID, p PaginationParams) ([]*post.Post, int64, error)
	ClearGroup(groupID uuid.UUID) error

	CreateComment(c *post.Comment) error
	ListComments(postID uuid.UUID) ([]*post.Comment, error)

	FindLike(userID, postID uuid.UUID) (*post.Like, error)
	CreateLike(l *post.Like) error
	DeleteLike(userID, postID uuid.UUID) error
	CountLikes(postID uuid.UUID) (int64, error)
}

// RelationshipRepository persists the generic user<->object relationship
// records. Find returns (nil, nil) when no record exists.
type RelationshipRepository interface {
	Find(userID, objectID uuid.UUID) (*relationship.Relationship, error)
	Create(rel *relationship.Relationship) error
	Update(rel *relationship.Relationship) error
	Delete(userID, objectID uuid.UUID) error
	DeleteByObject(objectID uuid.UUID) error
	ListByObject(objectID uuid.UUID) ([]*relationship.Relationship, error)
	ListByUser(userID uuid.UUID, kind relationship.Kind) ([]*relationship.Relationship, error)
	CountByObject(objectID uuid.UUID) (int64, error)
}
