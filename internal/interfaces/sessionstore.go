package interfaces

import "github.com/haguru/wakenbake/internal/session"

// SessionStore defines the contract for server-side session state. The state
// lives in-process; the store only hands out pointers, mutation goes through
// the session itself.
type SessionStore interface {
	Create(username string) (*session.Session, error)
	Get(id string) (*session.Session, bool)
	Delete(id string)
}
