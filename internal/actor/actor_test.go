package actor

import (
	"testing"

	"github.com/google/uuid"
)

func TestActorStates(t *testing.T) {
	var none Actor
	if none.Valid() || none.IsIdentified() || none.IsAnonymous() {
		t.Fatal("zero actor should be invalid")
	}

	id := uuid.New()
	user := Identified(id)
	if !user.Valid() || !user.IsIdentified() || user.IsAnonymous() {
		t.Fatal("identified actor state wrong")
	}
	if user.UserID() != id || !user.Is(id) {
		t.Fatal("identified actor does not report its user")
	}
	if user.SessionTokenPtr() != nil {
		t.Fatal("identified actor should have no session token")
	}

	anon := Anonymous("visitor-session-token")
	if !anon.Valid() || anon.IsIdentified() || !anon.IsAnonymous() {
		t.Fatal("anonymous actor state wrong")
	}
	if anon.UserIDPtr() != nil || anon.Is(id) {
		t.Fatal("anonymous actor should not identify any user")
	}
}

func TestActorKey(t *testing.T) {
	id := uuid.New()
	if got := Identified(id).Key(); got != "user:"+id.String() {
		t.Fatalf("Key() = %s", got)
	}
	if got := Anonymous("tok-abcdefgh12345678").Key(); got != "session:tok-abcdefgh12345678" {
		t.Fatalf("Key() = %s", got)
	}
}
