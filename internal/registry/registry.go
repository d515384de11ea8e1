// Package registry tracks live assessment sessions and enforces one live
// session per learner and skill.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/logger"
)

var (
	// ErrSessionLive is returned by Create while the learner already has a
	// live session for the skill.
	ErrSessionLive = errors.New("a session for this skill is already live")

	// ErrNotFound is returned when no session has the given ID for the learner.
	ErrNotFound = errors.New("session not found")
)

// DefaultTTL is how long an idle session keeps its lock.
const DefaultTTL = 2 * time.Hour

type entry struct {
	session  *assessment.Session
	key      string
	lastSeen time.Time
}

// Registry holds the sessions owned by this process.
type Registry struct {
	locker Locker
	ttl    time.Duration
	owner  string
	log    *logger.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	byKey    map[string]string
}

// New creates a Registry. A nil locker uses a MemoryLocker.
func New(locker Locker, ttl time.Duration, log *logger.Logger) *Registry {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		locker:   locker,
		ttl:      ttl,
		owner:    uuid.NewString(),
		log:      log.With("component", "registry"),
		now:      time.Now,
		sessions: make(map[string]*entry),
		byKey:    make(map[string]string),
	}
}

func lockKey(learnerID, skillID string) string {
	return "session:" + learnerID + ":" + skillID
}

// Create registers s as the live session for its learner and skill. An
// expired local session for the same pair is evicted first.
func (r *Registry) Create(ctx context.Context, s *assessment.Session) error {
	key := lockKey(s.LearnerID(), s.Skill().ID)

	r.mu.Lock()
	stale := ""
	if id, ok := r.byKey[key]; ok {
		e := r.sessions[id]
		if r.now().Sub(e.lastSeen) < r.ttl {
			r.mu.Unlock()
			return ErrSessionLive
		}
		r.removeLocked(id)
		stale = id
	}
	// Reserve the key so a concurrent Create fails fast.
	r.byKey[key] = s.ID()
	r.sessions[s.ID()] = &entry{session: s, key: key, lastSeen: r.now()}
	r.mu.Unlock()

	if stale != "" {
		if err := r.locker.Release(ctx, key, r.ownerFor(stale)); err != nil {
			r.log.Warn("releasing expired session lock failed", "session_id", stale, "error", err)
		}
		r.log.Debug("evicted expired session", "session_id", stale)
	}

	ok, err := r.locker.Acquire(ctx, key, r.ownerFor(s.ID()), r.ttl)
	if err != nil || !ok {
		r.mu.Lock()
		r.removeLocked(s.ID())
		r.mu.Unlock()
		if err != nil {
			return err
		}
		return ErrSessionLive
	}
	r.log.Info("session created", "session_id", s.ID(), "learner_id", s.LearnerID(), "skill_id", s.Skill().ID)
	return nil
}

// Get returns the session with id owned by learnerID and extends its lock.
func (r *Registry) Get(ctx context.Context, id, learnerID string) (*assessment.Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok || e.session.LearnerID() != learnerID {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	if r.now().Sub(e.lastSeen) >= r.ttl {
		r.removeLocked(id)
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	e.lastSeen = r.now()
	key := e.key
	r.mu.Unlock()

	if err := r.locker.Refresh(ctx, key, r.ownerFor(id), r.ttl); err != nil {
		r.log.Warn("session lock refresh failed", "session_id", id, "error", err)
	}
	return e.session, nil
}

// Delete ends the session and releases its lock.
func (r *Registry) Delete(ctx context.Context, id, learnerID string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if !ok || e.session.LearnerID() != learnerID {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.removeLocked(id)
	r.mu.Unlock()

	if err := r.locker.Release(ctx, e.key, r.ownerFor(id)); err != nil {
		return err
	}
	r.log.Info("session deleted", "session_id", id)
	return nil
}

// Len returns the number of sessions held by this process.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) removeLocked(id string) {
	e, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	if r.byKey[e.key] == id {
		delete(r.byKey, e.key)
	}
}

// ownerFor scopes the lock value to this process and session so another
// instance can tell a lock it does not hold.
func (r *Registry) ownerFor(sessionID string) string {
	return r.owner + "/" + sessionID
}
