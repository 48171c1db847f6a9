package store

import (
	"sync"

	"github.com/ebarkhatov/kbkeeper/models"
)

// memorySessionStore is the volatile implementation of [SessionStore].
// It holds the session of the running process only; a restart always starts
// logged out unless a remembered session is restored from the durable store.
type memorySessionStore struct {
	mu      sync.RWMutex
	session models.Session
	set     bool
}

// NewMemorySessionStore constructs an empty in-memory [SessionStore].
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Put(session models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.set = true
}

func (s *memorySessionStore) Get() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.set
}

func (s *memorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{}
	s.set = false
}
