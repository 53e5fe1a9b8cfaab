package repository

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout/internal/models"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
)

// Session is one checkout flow and the cart it pays for
type Session struct {
	ID         string
	Cart       models.Cart
	Controller *checkout.Controller
	CreatedAt  time.Time
}

// SessionRepository stores live checkout sessions
type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Count() int
}

// InMemorySessionRepository keeps sessions in a TTL cache. Every access
// slides the expiry; evicted sessions have their pending processing stopped.
type InMemorySessionRepository struct {
	sessions *cache.Cache
}

// NewInMemorySessionRepository creates a session store. onEvict, if set, is
// called after a session leaves the store.
func NewInMemorySessionRepository(ttl, cleanupInterval time.Duration, onEvict func(id string)) *InMemorySessionRepository {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Controller.Close()
		}
		if onEvict != nil {
			onEvict(id)
		}
	})

	return &InMemorySessionRepository{sessions: c}
}

// Save stores or refreshes a session
func (r *InMemorySessionRepository) Save(ctx context.Context, s *Session) error {
	r.sessions.Set(s.ID, s, cache.DefaultExpiration)
	return nil
}

// Get returns a session by its ID and refreshes its expiry
func (r *InMemorySessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	v, found := r.sessions.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	s := v.(*Session)
	// Replace fails if the janitor evicted the session after the Get above
	if err := r.sessions.Replace(id, s, cache.DefaultExpiration); err != nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session
func (r *InMemorySessionRepository) Delete(ctx context.Context, id string) error {
	if _, found := r.sessions.Get(id); !found {
		return ErrSessionNotFound
	}
	r.sessions.Delete(id)
	return nil
}

// Count returns the number of stored sessions, including expired ones not yet cleaned up
func (r *InMemorySessionRepository) Count() int {
	return r.sessions.ItemCount()
}
