package common

import "github.com/google/uuid"

// ObjectKind identifies which kind of shared object a record refers to.
type ObjectKind string

const (
	ObjectKindGroup  ObjectKind = "group"
	ObjectKindEvent  ObjectKind = "event"
	ObjectKindPrayer ObjectKind = "prayer"
	ObjectKindPost   ObjectKind = "post"
)

// SharedObject is the minimal contract every shareable entity satisfies.
// The visibility policy works exclusively through this interface so it
// never depends on a concrete domain package.
type SharedObject interface {
	GetID() uuid.UUID
	GetOwnerID() uuid.UUID
	IsPrivate() bool
	ObjectKind() ObjectKind
}
