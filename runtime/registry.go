package runtime

import (
	"sync"

	"github.com/hmZa-Sfyn/custom-irc-server/domain"
	"github.com/hmZa-Sfyn/custom-irc-server/errors"
)

// Registry is the authoritative directory of online sessions, keyed by
// case-folded nickname. It is the only shared mutable state in the server;
// every mutation and snapshot happens under its lock, and callers never see
// the map itself. Writes to session sinks must happen after the lock is
// released.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register claims the session's current key. It fails with ErrNicknameTaken
// when a different session already holds it.
func (r *Registry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := s.Key()
	if existing, ok := r.sessions[key]; ok && existing != s {
		return errors.ErrNicknameTaken
	}
	r.sessions[key] = s
	return nil
}

// Unregister removes the entry if present. A missing key is a no-op:
// a disconnect may race with a rename.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

func (r *Registry) Lookup(key string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Rename atomically moves the session to the key of newNick and updates the
// session's nickname, so the map key always equals the case-folded nickname
// of its value. Renaming to a key held by a different session fails and
// leaves both entries untouched; renaming to the session's own key (case
// variants included) succeeds.
func (r *Registry) Rename(s *Session, newNick string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	newKey := domain.NicknameKey(newNick)
	if existing, ok := r.sessions[newKey]; ok && existing != s {
		return errors.ErrNicknameTaken
	}

	delete(r.sessions, s.Key())
	s.setNickname(newNick)
	r.sessions[newKey] = s
	return nil
}

// Snapshot returns a consistent point-in-time view for iteration. Sessions
// joining or leaving after the snapshot may miss or still receive an
// in-flight broadcast; both outcomes are acceptable.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all
}

// Count reports how many sessions are online.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
