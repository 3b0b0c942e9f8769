package conversation

import (
	"sync"
	"time"

	"smartsite/internal/gateway/repository/ideastore"
	"smartsite/internal/llmclient"
)

// Result is the outcome of one user message: either an assistant reply to
// render, or a completed submission.
type Result struct {
	Reply     string
	Submitted *ideastore.Idea
}

type session struct {
	turns     []llmclient.Message
	updatedAt time.Time
}

// sessionMap guards the per-session turn lists. Remote calls never run
// under its lock; callers take a history snapshot, call out, then append.
type sessionMap struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionMap() *sessionMap {
	return &sessionMap{sessions: make(map[string]*session)}
}

func (m *sessionMap) getOrCreateLocked(id string) *session {
	if st, ok := m.sessions[id]; ok {
		return st
	}
	st := &session{updatedAt: time.Now()}
	m.sessions[id] = st
	return st
}

func (m *sessionMap) append(id, role, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.getOrCreateLocked(id)
	st.turns = append(st.turns, llmclient.Message{Role: role, Text: text})
	st.updatedAt = time.Now()
}

func (m *sessionMap) history(id string) []llmclient.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.getOrCreateLocked(id)
	out := make([]llmclient.Message, len(st.turns))
	copy(out, st.turns)
	return out
}

func (m *sessionMap) drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
