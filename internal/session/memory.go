package session

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	byUser   map[string]map[string]struct{}

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// NewMemoryStore starts a store whose janitor purges expired sessions every
// sweep interval. A non-positive interval disables the janitor.
func NewMemoryStore(sweep time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]Session),
		byUser:   make(map[string]map[string]struct{}),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if sweep > 0 {
		go s.janitor(sweep)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (Session, bool, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false, nil
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		s.removeLocked(id)
		s.mu.Unlock()
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *MemoryStore) Set(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.sessions[sess.ID]; ok && old.Principal.UserID != sess.Principal.UserID {
		s.unindexLocked(old)
	}
	s.sessions[sess.ID] = sess
	ids, ok := s.byUser[sess.Principal.UserID]
	if !ok {
		ids = make(map[string]struct{})
		s.byUser[sess.Principal.UserID] = ids
	}
	ids[sess.ID] = struct{}{}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.byUser[userID] {
		delete(s.sessions, id)
	}
	delete(s.byUser, userID)
	return nil
}

// Len counts stored sessions, expired ones included until swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) Sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			s.removeLocked(id)
		}
	}
}

func (s *MemoryStore) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) removeLocked(id string) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	s.unindexLocked(sess)
}

func (s *MemoryStore) unindexLocked(sess Session) {
	ids := s.byUser[sess.Principal.UserID]
	delete(ids, sess.ID)
	if len(ids) == 0 {
		delete(s.byUser, sess.Principal.UserID)
	}
}
