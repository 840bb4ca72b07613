package postgres

import (
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// Store is the GORM-backed implementation of storage.Store.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() storage.UserRepository {
	return NewUserRepository(s.db)
}

func (s *Store) Invitations() storage.InvitationRepository {
	return NewInvitationRepository(s.db)
}

func (s *Store) Groups() storage.GroupRepository {
	return NewGroupRepository(s.db)
}

func (s *Store) Events() storage.EventRepository {
	return NewEventRepository(s.db)
}

func (s *Store) Prayers() storage.PrayerRepository {
	return NewPrayerRepository(s.db)
}

func (s *Store) Posts() storage.PostRepository {
	return NewPostRepository(s.db)
}

func (s *Store) Relationships() storage.RelationshipRepository {
	return NewRelationshipRepository(s.db)
}

// Transaction runs fn in a database transaction. Any error rolls the
// whole unit back, so partial writes are never visible to other sessions.
func (s *Store) Transaction(fn func(storage.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
