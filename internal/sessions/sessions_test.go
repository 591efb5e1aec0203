package sessions

import (
	"context"
	"testing"
	"time"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) SetRaw(_ context.Context, key string, value []byte) error {
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) GetRaw(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := s.data[key]
	return value, ok, nil
}

func TestManagerAddEditRemove(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newMemStore())

	id, err := m.Add(ctx, Session{ChatID: 7, SongID: "s1", Stage: StageViewing, StartedAt: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok := m.Get(id)
	if !ok || got.SongID != "s1" {
		t.Fatalf("Get(%d) = %+v, %v", id, got, ok)
	}

	got.Semitones = 2
	if err := m.Edit(ctx, id, got); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, _ = m.Get(id)
	if got.Semitones != 2 {
		t.Errorf("Semitones = %d, want 2", got.Semitones)
	}

	if err := m.Edit(ctx, 999, got); err == nil {
		t.Errorf("Edit of missing session should fail")
	}

	if err := m.Remove(ctx, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := m.Get(id); ok {
		t.Errorf("session still present after Remove")
	}
}

func TestManagerActive(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newMemStore())

	if _, ok := m.Active(5); ok {
		t.Errorf("Active on empty manager should be false")
	}

	m.Add(ctx, Session{ChatID: 5, SongID: "first"})
	m.Add(ctx, Session{ChatID: 5, SongID: "second"})
	m.Add(ctx, Session{ChatID: 6, SongID: "other"})

	active, ok := m.Active(5)
	if !ok || active.SongID != "second" {
		t.Errorf("Active(5) = %+v, %v; want the most recent", active, ok)
	}
}

func TestManagerPersistsAcrossInit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	first := NewManager(store)
	id, _ := first.Add(ctx, Session{ChatID: 1, SongID: "s1"})
	first.Add(ctx, Session{ChatID: 2, SongID: "s2"})

	second := NewManager(store)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(second.All()) != 2 {
		t.Fatalf("restored %d sessions, want 2", len(second.All()))
	}
	if _, ok := second.Get(id); !ok {
		t.Errorf("restored manager lost session %d", id)
	}

	// New ids must not collide with restored ones.
	newID, _ := second.Add(ctx, Session{ChatID: 3, SongID: "s3"})
	if newID <= 2 {
		t.Errorf("new id %d collides with restored ids", newID)
	}
}

func TestManagerClear(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newMemStore())
	m.Add(ctx, Session{ChatID: 1})
	m.Add(ctx, Session{ChatID: 2})

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(m.All()) != 0 {
		t.Errorf("sessions remain after Clear: %+v", m.All())
	}
}
