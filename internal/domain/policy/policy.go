// Package policy is the single place visibility and management decisions
// are made. Handlers and services never test privacy flags or ownership
// themselves; they ask the engine.
//
// Ordering contract: callers resolve the object first, so a missing object
// is always NotFound and never masked as a denial (reveal-then-deny).
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/relationship"
)

// RelationshipFinder is the one capability the engine needs from storage.
// Find returns (nil, nil) when no relationship exists for the pair.
type RelationshipFinder interface {
	Find(userID, objectID uuid.UUID) (*relationship.Relationship, error)
}

// Engine decides ALLOW/DENY for read and management actions on shared
// objects. All decisions are pure functions of data read within the same
// request; the engine holds no mutable state.
type Engine struct {
	relationships RelationshipFinder
}

func NewEngine(relationships RelationshipFinder) *Engine {
	return &Engine{relationships: relationships}
}

// CanManage reports whether the user may update or delete the object.
// Ownership is the only grant; there is no delegated moderation.
func (e *Engine) CanManage(userID uuid.UUID, obj common.SharedObject) bool {
	return obj.GetOwnerID() == userID
}

// CanView reports whether the user may read the object.
//
// Public objects are visible to any authenticated user. Private groups and
// events are visible to the owner and to any user holding a relationship
// record, regardless of its status (even not_attending means the user is
// "in"). Private prayers are visible only to their author: support records
// are created after the fact and themselves require visibility, so
// consulting them here would be a circular grant.
func (e *Engine) CanView(userID uuid.UUID, obj common.SharedObject) (bool, error) {
	if !obj.IsPrivate() {
		return true, nil
	}
	if obj.GetOwnerID() == userID {
		return true, nil
	}

	switch obj.ObjectKind() {
	case common.ObjectKindGroup, common.ObjectKindEvent:
		rel, err := e.relationships.Find(userID, obj.GetID())
		if err != nil {
			return false, fmt.Errorf("failed to look up relationship: %w", err)
		}
		return rel != nil, nil
	default:
		return false, nil
	}
}

// CanSeeMembers reports whether the user may list the object's members,
// attendees or supporters. The roster shares the object's own visibility
// boundary; there is no separate disclosure rule.
func (e *Engine) CanSeeMembers(userID uuid.UUID, obj common.SharedObject) (bool, error) {
	return e.CanView(userID, obj)
}

// AuthorizeView returns ErrAccessDenied when CanView says no.
func (e *Engine) AuthorizeView(userID uuid.UUID, obj common.SharedObject) error {
	ok, err := e.CanView(userID, obj)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrAccessDenied
	}
	return nil
}

// AuthorizeManage returns ErrForbidden when the user does not own the object.
func (e *Engine) AuthorizeManage(userID uuid.UUID, obj common.SharedObject) error {
	if !e.CanManage(userID, obj) {
		return common.ErrForbidden
	}
	return nil
}
