package actor

import (
	"errors"

	"github.com/google/uuid"
)

var ErrNoActor = errors.New("no identified user or session token")

// Actor identifies who performed an action: an authenticated user or an
// anonymous visitor carrying an opaque session token. Exactly one of the
// two is set; the zero value is no actor at all.
type Actor struct {
	userID       *uuid.UUID
	sessionToken string
}

// Identified builds an actor for an authenticated user.
func Identified(userID uuid.UUID) Actor {
	return Actor{userID: &userID}
}

// Anonymous builds an actor for an anonymous session.
func Anonymous(sessionToken string) Actor {
	return Actor{sessionToken: sessionToken}
}

func (a Actor) IsIdentified() bool {
	return a.userID != nil
}

func (a Actor) IsAnonymous() bool {
	return a.userID == nil && a.sessionToken != ""
}

func (a Actor) Valid() bool {
	return a.userID != nil || a.sessionToken != ""
}

// UserID returns the user UUID for identified actors, uuid.Nil otherwise.
func (a Actor) UserID() uuid.UUID {
	if a.userID == nil {
		return uuid.Nil
	}
	return *a.userID
}

// UserIDPtr returns a pointer suitable for nullable owner columns.
func (a Actor) UserIDPtr() *uuid.UUID {
	if a.userID == nil {
		return nil
	}
	id := *a.userID
	return &id
}

// SessionTokenPtr returns a pointer suitable for nullable session columns.
func (a Actor) SessionTokenPtr() *string {
	if a.userID != nil || a.sessionToken == "" {
		return nil
	}
	tok := a.sessionToken
	return &tok
}

// Is reports whether the actor identifies the given user.
func (a Actor) Is(userID uuid.UUID) bool {
	return a.userID != nil && *a.userID == userID
}

// Key returns a stable string identifying the actor, used for coordination
// heuristics and logging. Never empty for a valid actor.
func (a Actor) Key() string {
	if a.userID != nil {
		return "user:" + a.userID.String()
	}
	return "session:" + a.sessionToken
}
