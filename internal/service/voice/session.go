package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const sessionKeyPrefix = "voice:session:"

// SessionStore keeps one voice session per merchant in the cache.
type SessionStore struct {
	cache ports.Cache
	ttl   time.Duration

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	inflight map[string]bool
}

func NewSessionStore(cache ports.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache,
		ttl:   ttl,
		locks:    make(map[string]*sync.Mutex),
		inflight: make(map[string]bool),
	}
}

// Lock serialises state transitions for one merchant within this process.
func (s *SessionStore) Lock(merchantID string) func() {
	s.mu.Lock()
	l, ok := s.locks[merchantID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[merchantID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// beginParse marks a model call as running for merchantID. It reports false when one already is.
func (s *SessionStore) beginParse(merchantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[merchantID] {
		return false
	}
	s.inflight[merchantID] = true
	return true
}

func (s *SessionStore) endParse(merchantID string) {
	s.mu.Lock()
	delete(s.inflight, merchantID)
	s.mu.Unlock()
}

// Parsing reports whether a model call for merchantID is running in this process.
// A stored processing state without one is left over from a failed write.
func (s *SessionStore) Parsing(merchantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[merchantID]
}

// Get returns the stored session or nil when none exists.
func (s *SessionStore) Get(ctx context.Context, merchantID string) (*domain.VoiceSession, error) {
	raw, err := s.cache.Get(ctx, sessionKeyPrefix+merchantID)
	if errors.Is(err, ports.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load voice session: %w", err)
	}

	var session domain.VoiceSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode voice session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Put(ctx context.Context, session *domain.VoiceSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode voice session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.MerchantID, string(data), s.ttl); err != nil {
		return fmt.Errorf("store voice session: %w", err)
	}
	return nil
}
