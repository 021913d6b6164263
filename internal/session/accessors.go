package session

import (
	"fmt"

	"github.com/lee00100/ResumeRAG/internal/ai"
	"github.com/lee00100/ResumeRAG/internal/filtering"
	"github.com/lee00100/ResumeRAG/internal/jobs"
)

func summaryMessage(matched int) string {
	return fmt.Sprintf("Found %d matching jobs.", matched)
}

// State reports the coarse lifecycle state.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.processing:
		return StateProcessing
	case s.analysis != nil:
		return StateReady
	case s.queryError != "":
		return StateError
	default:
		return StateIdle
	}
}

// Jobs returns the currently visible (filtered) job list.
func (s *Session) Jobs() []*jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*jobs.Job(nil), s.visible...)
}

// AllJobs returns the full scored list, sorted by relevance.
func (s *Session) AllJobs() []*jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*jobs.Job(nil), s.allJobs...)
}

// Analysis returns the current resume analysis, or nil before a successful
// submission.
func (s *Session) Analysis() *ai.ResumeAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// ResumeText returns the text of the in-flight or completed submission.
func (s *Session) ResumeText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeText
}

// Filters returns the current criteria.
func (s *Session) Filters() filtering.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Log returns a copy of the session trail.
func (s *Session) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.trail...)
}

// QueryError returns the latest pipeline error message, empty when none.
func (s *Session) QueryError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryError
}

// IsProcessing reports whether a submission is in flight.
func (s *Session) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Profile returns the smart profile, or nil when not generated.
func (s *Session) Profile() *ai.SmartProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// IsGeneratingProfile reports whether profile generation is in flight.
func (s *Session) IsGeneratingProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatingProfile
}

// ProfileError returns the latest profile error message, empty when none.
func (s *Session) ProfileError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileError
}

// SavedJobIDs returns the saved ids, empty without an authenticated user.
func (s *Session) SavedJobIDs() []string {
	if s.saved == nil {
		return nil
	}
	return s.saved.IDs()
}

// IsSaved reports whether the job id is in the saved set.
func (s *Session) IsSaved(jobID string) bool {
	return s.saved != nil && s.saved.Has(jobID)
}
