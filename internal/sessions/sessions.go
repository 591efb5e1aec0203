// Package sessions tracks who is currently viewing or editing which song,
// and at what transposition. The list is held in memory behind a lock and
// written through to redis on every change, the same way the old karaoke
// line was kept, so a restarted bot picks up where it left off.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Stages of a session.
const (
	StageViewing = "viewing"
	StageEditing = "editing"
)

// Session is one user's open song.
type Session struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username"`
	SongID    string    `json:"song_id"`
	SongName  string    `json:"song_name"`
	Semitones int       `json:"semitones"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"started_at"`
}

// Store is the persistence hook; *cache.Manager satisfies it via the raw
// accessors. Tests plug in an in-memory fake.
type Store interface {
	SetRaw(ctx context.Context, key string, value []byte) error
	GetRaw(ctx context.Context, key string) ([]byte, bool, error)
}

const storeKey = "sessions"

// Manager owns the session list.
type Manager struct {
	mu     sync.RWMutex
	list   []Session
	nextID int64
	store  Store
}

// NewManager creates an empty manager writing through to store.
func NewManager(store Store) *Manager {
	return &Manager{list: []Session{}, nextID: 1, store: store}
}

// Init loads the list from the store.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok, err := m.store.GetRaw(ctx, storeKey)
	if err != nil {
		return fmt.Errorf("sessions: load: %w", err)
	}
	if !ok {
		return nil
	}
	var list []Session
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("sessions: decode: %w", err)
	}
	m.list = list
	for _, s := range list {
		if s.ID >= m.nextID {
			m.nextID = s.ID + 1
		}
	}
	return nil
}

// sync writes the current list through to the store. Callers hold the lock.
func (m *Manager) sync(ctx context.Context) error {
	data, err := json.Marshal(m.list)
	if err != nil {
		return err
	}
	return m.store.SetRaw(ctx, storeKey, data)
}

// Add appends a session and returns its id.
func (m *Manager) Add(ctx context.Context, session Session) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.ID = m.nextID
	m.nextID++
	m.list = append(m.list, session)
	return session.ID, m.sync(ctx)
}

// Get finds a session by id.
func (m *Manager) Get(sessionID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.list {
		if s.ID == sessionID {
			return s, true
		}
	}
	return Session{}, false
}

// Active returns the most recently started session of a chat, if any.
func (m *Manager) Active(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.list) - 1; i >= 0; i-- {
		if m.list[i].ChatID == chatID {
			return m.list[i], true
		}
	}
	return Session{}, false
}

// All returns a copy of every session.
func (m *Manager) All() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Session(nil), m.list...)
}

// Edit replaces the session with the given id.
func (m *Manager) Edit(ctx context.Context, sessionID int64, updated Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.list {
		if s.ID == sessionID {
			updated.ID = sessionID
			m.list[i] = updated
			return m.sync(ctx)
		}
	}
	return fmt.Errorf("session with ID %d not found", sessionID)
}

// Remove deletes a session by id.
func (m *Manager) Remove(ctx context.Context, sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.list[:0:0]
	for _, s := range m.list {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	m.list = kept
	return m.sync(ctx)
}

// RemoveByChatID deletes every session of a chat.
func (m *Manager) RemoveByChatID(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.list[:0:0]
	for _, s := range m.list {
		if s.ChatID != chatID {
			kept = append(kept, s)
		}
	}
	m.list = kept
	return m.sync(ctx)
}

// Clear drops all sessions.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.list = []Session{}
	return m.sync(ctx)
}
