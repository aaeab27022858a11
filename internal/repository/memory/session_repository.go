package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"kb-assistant-be/pkg/store"
)

// SessionRepository keeps chat sessions in process memory. Sessions live
// until explicit deactivation (no TTL); the flag states time out so an
// abandoned password prompt or upload session resets itself.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Purge interval only matters for expiring entries
	c := cache.New(cache.NoExpiration, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	ttl := cache.NoExpiration
	switch session.State {
	case store.StateAwaitingPassword, store.StateAwaitingUpload:
		ttl = 30 * time.Minute
	}
	r.cache.Set(session.ChatID, session, ttl)
}

func (r *SessionRepository) Get(chatID string) (*store.Session, bool) {
	if x, found := r.cache.Get(chatID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// LoadOrCreate returns the existing session or a fresh idle one.
func (r *SessionRepository) LoadOrCreate(chatID string) *store.Session {
	if s, found := r.Get(chatID); found {
		return s
	}
	return store.NewSession(chatID)
}

func (r *SessionRepository) Delete(chatID string) {
	r.cache.Delete(chatID)
}
