// Copyright 2024 Restaurant AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dialogue tracks per-session conversational state. State is keyed by
// session identifier so concurrent conversations never observe each other's
// progress.
package dialogue

import (
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle session is retained before cleanup.
const DefaultSessionTTL = 30 * time.Minute

// Session holds the conversational state for one visitor session.
type Session struct {
	ID string

	mutex        sync.Mutex
	greetingUsed bool
	lastActive   time.Time
}

// ClaimGreeting reports whether this is the session's first greeting and
// records that the greeting has now been used. It returns true exactly once
// per session.
func (s *Session) ClaimGreeting() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.greetingUsed {
		return false
	}
	s.greetingUsed = true
	return true
}

// Manager owns the session table and evicts idle sessions in the background.
type Manager struct {
	sessions map[string]*Session
	ttl      time.Duration
	mutex    sync.RWMutex
	done     chan struct{}
	closeOne sync.Once
}

// NewManager creates a session manager and starts its cleanup loop. A
// non-positive ttl falls back to DefaultSessionTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go m.cleanupLoop()

	return m
}

// Session returns the session for the given ID, creating it on first use.
func (m *Manager) Session(id string) *Session {
	m.mutex.RLock()
	s, ok := m.sessions[id]
	m.mutex.RUnlock()
	if ok {
		m.touch(s)
		return s
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Re-check under the write lock, another goroutine may have created it.
	if s, ok := m.sessions[id]; ok {
		s.mutex.Lock()
		s.lastActive = time.Now()
		s.mutex.Unlock()
		return s
	}

	s = &Session{ID: id, lastActive: time.Now()}
	m.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup loop. Safe to call more than once.
func (m *Manager) Close() {
	m.closeOne.Do(func() { close(m.done) })
}

func (m *Manager) touch(s *Session) {
	s.mutex.Lock()
	s.lastActive = time.Now()
	s.mutex.Unlock()
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.done:
			return
		}
	}
}

// evictIdle drops sessions whose last activity is older than the TTL.
func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, s := range m.sessions {
		s.mutex.Lock()
		idle := s.lastActive.Before(cutoff)
		s.mutex.Unlock()
		if idle {
			delete(m.sessions, id)
		}
	}
}
