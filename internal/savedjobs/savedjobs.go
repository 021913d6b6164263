// Package savedjobs maintains the per-user set of saved job ids. The
// in-memory set is authoritative; the durable store is updated best-effort,
// at most once per change, with no retry. A failed write is logged and never
// rolls the set back.
package savedjobs

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Store is the durable backend, keyed by a stable user identifier.
type Store interface {
	GetSavedJobs(ctx context.Context, userKey string) ([]string, error)
	SetSavedJobs(ctx context.Context, userKey string, ids []string) error
}

// Sync owns a user's saved-job set for the lifetime of a login.
type Sync struct {
	store   Store
	logger  *zap.Logger
	userKey string

	mu  sync.Mutex
	ids map[string]struct{}
	seq uint64

	writeMu   sync.Mutex
	persisted uint64

	pending sync.WaitGroup
}

// New creates a synchronizer for the given user. The logger may be nil.
func New(store Store, userKey string, logger *zap.Logger) *Sync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sync{
		store:   store,
		logger:  logger,
		userKey: userKey,
		ids:     make(map[string]struct{}),
	}
}

// Load replaces the in-memory set with the stored one.
func (s *Sync) Load(ctx context.Context) error {
	stored, err := s.store.GetSavedJobs(ctx, s.userKey)
	if err != nil {
		return err
	}

	ids := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		ids[id] = struct{}{}
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()
	return nil
}

// Toggle flips membership of the job id and reports the new membership. The
// durable write happens asynchronously; its failure does not undo the flip.
func (s *Sync) Toggle(jobID string) bool {
	s.mu.Lock()
	_, saved := s.ids[jobID]
	if saved {
		delete(s.ids, jobID)
	} else {
		s.ids[jobID] = struct{}{}
	}
	snapshot := s.sortedLocked()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.pending.Add(1)
	go s.persist(snapshot, seq)

	return !saved
}

// persist serializes writes and drops snapshots that a newer write already
// superseded, keeping the store last-write-wins.
func (s *Sync) persist(ids []string, seq uint64) {
	defer s.pending.Done()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq <= s.persisted {
		return
	}

	if err := s.store.SetSavedJobs(context.Background(), s.userKey, ids); err != nil {
		s.logger.Warn("persisting saved jobs failed",
			zap.String("user", s.userKey),
			zap.Error(err),
		)
		return
	}
	s.persisted = seq
}

// Has reports whether the job id is currently saved.
func (s *Sync) Has(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[jobID]
	return ok
}

// IDs returns the saved ids in sorted order.
func (s *Sync) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Snapshot returns a copy of the saved set for filtering.
func (s *Sync) Snapshot() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		snapshot[id] = struct{}{}
	}
	return snapshot
}

// Clear empties the in-memory set without touching the store. Used on logout,
// where clearing durable state is the account layer's job.
func (s *Sync) Clear() {
	s.mu.Lock()
	s.ids = make(map[string]struct{})
	s.mu.Unlock()
}

// Flush waits for in-flight writes. Intended for shutdown and tests.
func (s *Sync) Flush() {
	s.pending.Wait()
}

func (s *Sync) sortedLocked() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
