package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL bounds how long a session lives without re-login.
	DefaultTTL = 24 * time.Hour
	// sweepInterval is how often expired sessions are reaped.
	sweepInterval = 5 * time.Minute
)

// Manager is an in-memory TTL session store. Cross-session concurrency is
// limited to map access; the sessions themselves guard their own state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts its expiry sweep.
// A non-positive ttl falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Create makes a new session for a user who just passed the credential
// check. The session starts on the login page; the caller drives it to home
// through the state machine. Login is the only way a session comes into
// being, so a fresh session always has a user set.
func (m *Manager) Create(username string) (*Session, error) {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		Page:      PageLogin,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, nil
}

// Get looks up a live session by ID. Expired sessions are treated as absent
// and removed on access rather than waiting for the sweep.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.Expired(time.Now()) {
		m.Delete(id)
		return nil, false
	}
	return s, true
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions, counting not-yet-swept expired ones.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the expiry sweep.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for id, s := range m.sessions {
				if s.Expired(now) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
