package service

import (
	"sync"
	"time"

	"domli-search/internal/model"
)

// SessionStore keeps per-session conversation history.
type SessionStore interface {
	Get(sessionID string) []model.ChatMessage
	Append(sessionID string, messages ...model.ChatMessage)
	Delete(sessionID string)
	Len() int
}

type sessionEntry struct {
	messages  []model.ChatMessage
	updatedAt time.Time
}

// MemorySessionStore is an in-process SessionStore. Histories are trimmed
// to maxMessages and idle sessions are swept on write after ttl.
type MemorySessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*sessionEntry
	ttl         time.Duration
	maxMessages int
	now         func() time.Time
}

// NewMemorySessionStore creates a store with the given idle TTL and
// per-session history cap.
func NewMemorySessionStore(ttl time.Duration, maxMessages int) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:    make(map[string]*sessionEntry),
		ttl:         ttl,
		maxMessages: maxMessages,
		now:         time.Now,
	}
}

// Get returns a copy of the session history, or nil for unknown sessions.
func (s *MemorySessionStore) Get(sessionID string) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]model.ChatMessage, len(entry.messages))
	copy(out, entry.messages)
	return out
}

// Append adds messages to the session history, creating the session if
// needed, and trims the history to the configured cap.
func (s *MemorySessionStore) Append(sessionID string, messages ...model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	entry, ok := s.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{}
		s.sessions[sessionID] = entry
	}
	entry.messages = append(entry.messages, messages...)
	if len(entry.messages) > s.maxMessages {
		entry.messages = entry.messages[len(entry.messages)-s.maxMessages:]
	}
	entry.updatedAt = now
}

// Delete removes the session history.
func (s *MemorySessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) sweepLocked(now time.Time) {
	for id, entry := range s.sessions {
		if now.Sub(entry.updatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
