package history

import (
	"sort"
	"sync"
	"time"

	"vet-chatter/internal/llm"
)

// DefaultSession is used by callers that do not name a conversation.
const DefaultSession = "default"

type session struct {
	turns    []llm.Message
	lastSeen time.Time
}

// Manager keeps one append-only transcript per session id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*session), now: time.Now}
}

func (m *Manager) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Commit appends all msgs to the session in one step, so no other writer
// can interleave between them.
func (m *Manager) Commit(sessionID string, msgs ...llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = &session{}
		m.sessions[sessionID] = s
	}
	s.turns = append(s.turns, msgs...)
	s.lastSeen = m.now()
}

// Get returns a copy of the session transcript.
func (m *Manager) Get(sessionID string) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]llm.Message, len(s.turns))
	copy(out, s.turns)
	return out
}

func (m *Manager) Len(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[sessionID]; ok {
		return len(s.turns)
	}
	return 0
}

// Sessions lists known session ids in sorted order.
func (m *Manager) Sessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ExpireIdle drops sessions whose last write happened before cutoff and
// returns how many were removed.
func (m *Manager) ExpireIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
