package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"cluborder/internal/domain"
)

// store keeps live sessions in memory. There is no persistence: a session
// exists from Create until it expires or the process stops.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func newStore(ttl time.Duration) *store {
	return &store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *store) create(sess *session) string {
	id := uuid.NewString()
	sess.id = id
	sess.touched = s.now()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	return id
}

// get returns the session and refreshes its expiry. Expired sessions are
// dropped lazily, the way stale tokens are.
func (s *store) get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	now := s.now()
	sess.mu.Lock()
	expired := now.Sub(sess.touched) > s.ttl
	if !expired {
		sess.touched = now
	}
	sess.mu.Unlock()
	if expired {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
