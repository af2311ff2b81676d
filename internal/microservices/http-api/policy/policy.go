// Package policy holds the single ownership rule applied to posts,
// categories and comments.
package policy

import "errors"

var (
	// ErrUnauthenticated is returned for unsafe operations by anonymous actors.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrNotOwner is returned when an actor mutates a resource it does not own.
	ErrNotOwner = errors.New("you do not have permission to perform this action")
)

type Operation int

const (
	Read Operation = iota
	Create
	Update
	Delete
)

// Safe reports whether the operation leaves state untouched.
func (op Operation) Safe() bool {
	return op == Read
}

// Actor is the identity behind a request. A nil *Actor is anonymous.
type Actor struct {
	UserID   string
	Username string
}

// Authenticated reports whether a is a known identity.
func (a *Actor) Authenticated() bool {
	return a != nil && a.UserID != ""
}

// ID returns the actor's user id, or "" for anonymous actors.
func (a *Actor) ID() string {
	if a == nil {
		return ""
	}
	return a.UserID
}

// Authorize decides whether actor may perform op on a resource owned by ownerID.
// Reads are always allowed. Any other operation needs an authenticated actor,
// and Update/Delete additionally need actor == owner. An empty ownerID marks
// an unowned resource, for which authentication alone is enough.
func Authorize(actor *Actor, ownerID string, op Operation) error {
	if op.Safe() {
		return nil
	}
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if op == Create || ownerID == "" {
		return nil
	}
	if actor.UserID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// CanRead reports whether actor may see a resource that is only public when
// published. Owners always see their own resources.
func CanRead(actor *Actor, ownerID string, published bool) bool {
	return published || (actor.Authenticated() && actor.UserID == ownerID)
}
