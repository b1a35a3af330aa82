package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Bolkyyy/YDChess/game/rules"
)

// ErrSessionNotFound is returned when a session ID does not resolve to a
// live session.
var ErrSessionNotFound = errors.New("session not found")

// DefaultRetention is how long a session lives after creation. Expiry is
// unconditional: a session still being played is removed all the same.
const DefaultRetention = 24 * time.Hour

const idBytes = 8

// Registry owns the set of live sessions.
type Registry struct {
	sessions  map[string]*Session
	retention time.Duration
	engines   rules.Factory
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the default retention window.
func NewRegistry(engines rules.Factory) *Registry {
	return NewRegistryWithRetention(engines, DefaultRetention)
}

// NewRegistryWithRetention creates a registry whose sessions expire after
// the given duration.
func NewRegistryWithRetention(engines rules.Factory, retention time.Duration) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		retention: retention,
		engines:   engines,
	}
}

// Create allocates a new waiting session with a fresh engine and
// schedules its expiry.
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := generateID()
	for _, exists := r.sessions[id]; exists; _, exists = r.sessions[id] {
		id = generateID()
	}

	sess := &Session{
		ID:        id,
		Status:    StatusWaiting,
		Players:   make(map[rules.Color]*Player, 2),
		Turn:      rules.White,
		CreatedAt: time.Now(),
		Engine:    r.engines(),
	}
	sess.expiry = time.AfterFunc(r.retention, func() {
		r.expire(id, sess)
	})

	r.sessions[id] = sess
	log.Printf("[SESSION] Created session %s (total: %d)", id, len(r.sessions))
	return sess
}

// Get retrieves a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, exists := r.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes a session and cancels its pending expiry. Deleting an
// unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, exists := r.sessions[id]
	if !exists {
		return
	}
	sess.expiry.Stop()
	delete(r.sessions, id)
	log.Printf("[SESSION] Deleted session %s (total: %d)", id, len(r.sessions))
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns a snapshot of all live sessions.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// expire is the timer callback. The pointer comparison guards against
// removing a different session that reused the ID slot after an earlier
// delete raced with the timer firing.
func (r *Registry) expire(id string, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.sessions[id]
	if !exists || current != sess {
		return
	}
	delete(r.sessions, id)
	log.Printf("[SESSION] Expired session %s after %s (total: %d)", id, r.retention, len(r.sessions))
}

func generateID() string {
	bytes := make([]byte, idBytes)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
