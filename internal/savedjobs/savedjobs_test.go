package savedjobs

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

type stubStore struct {
	mu     sync.Mutex
	ids    map[string][]string
	getErr error
	setErr error
	writes int
}

func (s *stubStore) GetSavedJobs(ctx context.Context, userKey string) ([]string, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[userKey], nil
}

func (s *stubStore) SetSavedJobs(ctx context.Context, userKey string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.setErr != nil {
		return s.setErr
	}
	if s.ids == nil {
		s.ids = make(map[string][]string)
	}
	s.ids[userKey] = ids
	return nil
}

func (s *stubStore) stored(userKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[userKey]
}

func TestLoadReplacesSet(t *testing.T) {
	t.Parallel()

	store := &stubStore{ids: map[string][]string{"user-1": {"7", "42"}}}
	saved := New(store, "user-1", nil)

	if err := saved.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !saved.Has("42") || !saved.Has("7") {
		t.Fatalf("expected stored ids to be loaded, got %v", saved.IDs())
	}
	if saved.Has("1") {
		t.Fatalf("unexpected id in set")
	}
}

func TestLoadFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{getErr: errors.New("db locked")}
	saved := New(store, "user-1", nil)

	if err := saved.Load(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestToggleFlipsAndPersists(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	saved := New(store, "user-1", nil)

	if !saved.Toggle("42") {
		t.Fatalf("first toggle must save")
	}
	if saved.Toggle("42") {
		t.Fatalf("second toggle must unsave")
	}
	saved.Flush()

	if got := store.stored("user-1"); len(got) != 0 {
		t.Fatalf("expected empty stored set after unsave, got %v", got)
	}
}

func TestToggleSurvivesWriteFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{setErr: errors.New("disk full")}
	saved := New(store, "user-1", nil)

	if !saved.Toggle("42") {
		t.Fatalf("expected toggle to save")
	}
	saved.Flush()

	// The failed write never rolls the in-memory set back, and is not retried.
	if !saved.Has("42") {
		t.Fatalf("write failure must not undo the toggle")
	}
	store.mu.Lock()
	writes := store.writes
	store.mu.Unlock()
	if writes != 1 {
		t.Fatalf("expected exactly one write attempt, got %d", writes)
	}
}

func TestIDsAreSorted(t *testing.T) {
	t.Parallel()

	saved := New(&stubStore{}, "user-1", nil)
	saved.Toggle("9")
	saved.Toggle("1")
	saved.Toggle("42")
	saved.Flush()

	if got := saved.IDs(); !reflect.DeepEqual(got, []string{"1", "42", "9"}) {
		t.Fatalf("expected lexically sorted ids, got %v", got)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	t.Parallel()

	saved := New(&stubStore{}, "user-1", nil)
	saved.Toggle("42")

	snapshot := saved.Snapshot()
	delete(snapshot, "42")

	if !saved.Has("42") {
		t.Fatalf("mutating a snapshot must not affect the set")
	}
	saved.Flush()
}

func TestClearEmptiesOnlyMemory(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	saved := New(store, "user-1", nil)
	saved.Toggle("42")
	saved.Flush()

	saved.Clear()

	if len(saved.IDs()) != 0 {
		t.Fatalf("clear must empty the in-memory set")
	}
	if got := store.stored("user-1"); !reflect.DeepEqual(got, []string{"42"}) {
		t.Fatalf("clear must not touch the store, got %v", got)
	}
}
