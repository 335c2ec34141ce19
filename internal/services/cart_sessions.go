package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-food-storefront/internal/repositories"

	"github.com/sirupsen/logrus"
)

// CartSessions hands out one CartManager per session. Calls for the same
// session run one at a time, different sessions never block each other.
// Managers are a cache over the store and may be evicted at any time.
type CartSessions struct {
	store repositories.CartStore
	log   logrus.FieldLogger
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*cartSession
}

type cartSession struct {
	mu       sync.Mutex
	loaded   bool
	evicted  bool
	lastUsed time.Time
	manager  *CartManager
}

func NewCartSessions(store repositories.CartStore, log logrus.FieldLogger) *CartSessions {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CartSessions{
		store:    store,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*cartSession),
	}
}

// CartKey is the store key of a session's cart.
func CartKey(sessionID string) string {
	return DefaultCartKey + ":" + sessionID
}

func (s *CartSessions) session(sessionID string) *cartSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		logger := s.log.WithField("session_id", sessionID)
		sess = &cartSession{manager: NewCartManager(s.store, CartKey(sessionID), logger)}
		s.sessions[sessionID] = sess
	}
	return sess
}

// lock returns the live session for sessionID with its mutex held.
func (s *CartSessions) lock(sessionID string) *cartSession {
	for {
		sess := s.session(sessionID)
		sess.mu.Lock()
		if !sess.evicted {
			return sess
		}
		sess.mu.Unlock()
	}
}

// WithCart runs fn against the session's cart, loading it from the store on
// first use. The manager must not be retained after fn returns.
func (s *CartSessions) WithCart(ctx context.Context, sessionID string, fn func(cart *CartManager) error) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", ErrInvalidArgument)
	}

	sess := s.lock(sessionID)
	defer sess.mu.Unlock()

	if !sess.loaded {
		sess.manager.Load(ctx)
		sess.loaded = true
	}
	defer func() { sess.lastUsed = s.now() }()
	return fn(sess.manager)
}

// evict drops sess from the registry once no call is using it. keep is
// checked with the session lock held and can veto the eviction.
func (s *CartSessions) evict(sessionID string, sess *cartSession, keep func(*cartSession) bool) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.evicted || (keep != nil && keep(sess)) {
		return false
	}
	sess.evicted = true

	s.mu.Lock()
	if s.sessions[sessionID] == sess {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	return true
}

// Forget drops the in-memory cart of a session. The persisted copy stays and
// is loaded again on the next WithCart.
func (s *CartSessions) Forget(sessionID string) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if ok {
		s.evict(sessionID, sess, nil)
	}
}

// Discard ends a session: its manager is dropped and the persisted cart deleted.
func (s *CartSessions) Discard(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", ErrInvalidArgument)
	}

	sess := s.lock(sessionID)
	defer sess.mu.Unlock()

	if err := s.store.Delete(ctx, CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	sess.evicted = true
	s.mu.Lock()
	if s.sessions[sessionID] == sess {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	return nil
}

// EvictIdle drops every manager unused for longer than maxIdle and returns
// how many went.
func (s *CartSessions) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	candidates := make(map[string]*cartSession, len(s.sessions))
	for id, sess := range s.sessions {
		candidates[id] = sess
	}
	s.mu.Unlock()

	evicted := 0
	for id, sess := range candidates {
		if s.evict(id, sess, func(cs *cartSession) bool { return cs.lastUsed.After(cutoff) }) {
			evicted++
		}
	}
	return evicted
}

// RunJanitor evicts idle managers every interval until ctx is done.
func (s *CartSessions) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.EvictIdle(maxIdle); n > 0 {
				s.log.WithFields(logrus.Fields{"evicted": n, "active": s.Active()}).Debug("evicted idle carts")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *CartSessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
