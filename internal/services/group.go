package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/group"
	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// GroupService handles the group lifecycle and membership.
type GroupService struct {
	store  storage.Store
	policy *policy.Engine
}

// NewGroupService creates a new group service.
func NewGroupService(store storage.Store, engine *policy.Engine) *GroupService {
	return &GroupService{store: store, policy: engine}
}

// CreateGroupRequest is the payload for creating a group.
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	Private     bool     `json:"private"`
}

// Create makes a group and enrolls the creator as its admin member in the
// same transaction.
func (s *GroupService) Create(ownerID uuid.UUID, req CreateGroupRequest) (*group.Group, error) {
	g := group.New(req.Name, req.Description, req.Private, ownerID)
	g.ImageURL = req.ImageURL
	g.Tags = req.Tags
	if err := g.Validate(); err != nil {
		return nil, err
	}

	err := s.store.Transaction(func(tx storage.Store) error {
		if err := tx.Groups().Create(g); err != nil {
			return err
		}
		rel := relationship.New(ownerID, g.ID, relationship.KindMembership)
		rel.Status = relationship.RoleAdmin
		return tx.Relationships().Create(rel)
	})
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.Internal(err)
	}

	logger.Service("groups").Info("Group created", "group_id", g.ID, "owner_id", ownerID)
	return g, nil
}

// Get returns a group the viewer is allowed to see. A missing group is
// NotFound; an existing but hidden one is AccessDenied.
func (s *GroupService) Get(viewerID, groupID uuid.UUID) (*group.Group, error) {
	g, err := s.store.Groups().GetByID(groupID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeView(viewerID, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGroupRequest carries the editable group fields.
type UpdateGroupRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Tags        []string `json:"tags"`
	Private     *bool    `json:"private"`
}

// Update applies a partial update. Only the owner may update; ownership
// itself is immutable.
func (s *GroupService) Update(userID, groupID uuid.UUID, req UpdateGroupRequest) (*group.Group, error) {
	g, err := s.store.Groups().GetByID(groupID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, g); err != nil {
		return nil, err
	}

	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.ImageURL != nil {
		g.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		g.Tags = req.Tags
	}
	if req.Private != nil {
		g.Private = *req.Private
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Groups().Update(g); err != nil {
		return nil, common.Internal(err)
	}
	return g, nil
}

// Delete removes a group, its memberships, and detaches its posts, all in
// one transaction. Owner only.
func (s *GroupService) Delete(userID, groupID uuid.UUID) error {
	g, err := s.store.Groups().GetByID(groupID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, g); err != nil {
		return err
	}

	err = s.store.Transaction(func(tx storage.Store) error {
		if err := tx.Relationships().DeleteByObject(groupID); err != nil {
			return err
		}
		if err := tx.Posts().ClearGroup(groupID); err != nil {
			return err
		}
		return tx.Groups().Delete(groupID)
	})
	if err != nil {
		return common.Internal(err)
	}

	logger.Service("groups").Info("Group deleted", "group_id", groupID)
	return nil
}

// ListPublic returns public groups, newest first.
func (s *GroupService) ListPublic(p storage.PaginationParams) ([]*group.Group, int64, error) {
	groups, total, err := s.store.Groups().ListPublic(p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return groups, total, nil
}

// ListMine returns the groups the user belongs to, newest first.
func (s *GroupService) ListMine(userID uuid.UUID, p storage.PaginationParams) ([]*group.Group, int64, error) {
	rels, err := s.store.Relationships().ListByUser(userID, relationship.KindMembership)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ObjectID)
	}

	groups, total, err := s.store.Groups().ListByIDs(ids, p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return groups, total, nil
}

// Members lists the group's membership records. The roster shares the
// group's visibility boundary.
func (s *GroupService) Members(viewerID, groupID uuid.UUID) ([]*relationship.Relationship, error) {
	g, err := s.store.Groups().GetByID(groupID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	ok, err := s.policy.CanSeeMembers(viewerID, g)
	if err != nil {
		return nil, common.Internal(err)
	}
	if !ok {
		return nil, common.ErrAccessDenied
	}

	rels, err := s.store.Relationships().ListByObject(groupID)
	if err != nil {
		return nil, common.Internal(err)
	}
	return rels, nil
}

// Join enrolls the user in a public group as a plain member. Private
// groups cannot be self-joined. A duplicate join, including one lost to a
// concurrent request, surfaces ErrAlreadyMember.
func (s *GroupService) Join(userID, groupID uuid.UUID) (*relationship.Relationship, error) {
	g, err := s.store.Groups().GetByID(groupID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if g.Private {
		return nil, common.ErrForbidden
	}

	rel := relationship.New(userID, groupID, relationship.KindMembership)
	if err := s.store.Relationships().Create(rel); err != nil {
		if errors.Is(err, storage.ErrRelationshipExists) {
			return nil, common.ErrAlreadyMember
		}
		return nil, common.Internal(err)
	}

	logger.Service("groups").Debug("User joined group", "group_id", groupID, "user_id", userID)
	return rel, nil
}

// Leave removes the user's membership. The owner cannot leave their own
// group; they delete it instead.
func (s *GroupService) Leave(userID, groupID uuid.UUID) error {
	g, err := s.store.Groups().GetByID(groupID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Internal(err)
	}
	if g.OwnerID == userID {
		return common.ErrOwnerCannotLeave
	}

	if err := s.store.Relationships().Delete(userID, groupID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotMember
		}
		return common.Internal(err)
	}

	logger.Service("groups").Debug("User left group", "group_id", groupID, "user_id", userID)
	return nil
}
