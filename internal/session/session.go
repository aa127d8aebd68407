package session

import "sync"

// Session is the explicit session context shared by the composer, feed
// and deletion coordinator. The identity is loaded once at startup and
// gates every mutating operation until logout clears it.
type Session struct {
	mu    sync.RWMutex
	name  string
	store *Store
}

// Load reads the persisted identity, if any, into a fresh session.
func Load(store *Store) *Session {
	s := &Session{store: store}
	if store != nil {
		if name, ok := store.Get(); ok {
			s.name = name
		}
	}
	return s
}

// Name returns the current display name; ok is false when no identity
// is set.
func (s *Session) Name() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name, s.name != ""
}

// Login persists the trimmed display name and activates it for the
// rest of the session.
func (s *Session) Login(name string) error {
	name = Trim(name)
	if name == "" {
		return ErrEmptyName
	}

	if s.store != nil {
		if err := s.store.Set(name); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	return nil
}

// Logout clears the persisted identity and drops it from the session.
func (s *Session) Logout() error {
	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.name = ""
	s.mu.Unlock()
	return nil
}
