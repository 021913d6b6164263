// Package session owns the lifecycle of one resume-search session: the
// analyze-and-score pipeline, the filter state, the saved-set view and the
// event trail.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lee00100/ResumeRAG/internal/ai"
	"github.com/lee00100/ResumeRAG/internal/filtering"
	"github.com/lee00100/ResumeRAG/internal/jobs"
	"github.com/lee00100/ResumeRAG/internal/savedjobs"
)

// Session states exposed by State.
const (
	StateIdle       = "idle"
	StateProcessing = "processing"
	StateReady      = "ready"
	StateError      = "idle-with-error"
)

var (
	// ErrBusy is returned when a submission arrives while one is in flight.
	// Re-entrant submissions are rejected, never interleaved.
	ErrBusy = errors.New("a resume is already being processed")
	// ErrSessionReset is returned by an in-flight operation whose session was
	// reset underneath it. Its results are discarded.
	ErrSessionReset = errors.New("session was reset while processing")
)

// Session drives the resume pipeline. All exported methods are safe for
// concurrent use; the pipeline itself runs one submission at a time.
type Session struct {
	id      string
	logger  *zap.Logger
	oracle  ai.Oracle
	catalog *jobs.List
	saved   *savedjobs.Sync

	mu sync.Mutex
	// generation guards asynchronous completions: a reset bumps it, and any
	// in-flight oracle call that returns to a different generation abandons
	// its writes instead of corrupting the fresh session.
	generation uint64

	resumeText        string
	analysis          *ai.ResumeAnalysis
	allJobs           []*jobs.Job
	visible           []*jobs.Job
	filters           filtering.Options
	trail             []LogEntry
	queryError        string
	processing        bool
	profile           *ai.SmartProfile
	generatingProfile bool
	profileError      string
}

// New creates an idle session. saved may be nil when no user is
// authenticated; save toggles are then silent no-ops.
func New(oracle ai.Oracle, catalog *jobs.List, saved *savedjobs.Sync, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		logger:  logger.With(zap.String("session_id", id)),
		oracle:  oracle,
		catalog: catalog,
		saved:   saved,
		filters: filtering.Defaults(),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Submit runs the full pipeline for the given resume text: reset (preserving
// saved jobs), analyze, score, sort, filter. Oracle failures are terminal for
// the attempt; the caller must resubmit.
func (s *Session) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return ErrBusy
	}

	s.resetLocked()
	s.resumeText = text
	s.processing = true
	gen := s.generation
	s.appendLocked("Analysis", "Analyzing your resume...", StatusInfo)
	s.mu.Unlock()

	s.logger.Info("analyzing resume", zap.Int("text_length", len(text)))

	analysis, err := s.oracle.Analyze(ctx, text)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return ErrSessionReset
	}
	if err != nil {
		s.failLocked(err)
		s.mu.Unlock()
		return err
	}

	s.analysis = analysis
	s.appendLocked("Analysis", "Successfully extracted skills and summary.", StatusSuccess)
	s.appendLocked("Job Matching", "Searching for relevant jobs...", StatusInfo)
	s.mu.Unlock()

	s.logger.Info("scoring catalog",
		zap.Int("skills", len(analysis.Skills)),
		zap.Int("jobs", s.catalog.Len()),
	)

	scored, err := s.oracle.ScoreJobs(ctx, analysis, s.catalog.Items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSessionReset
	}
	if err != nil {
		s.failLocked(err)
		return err
	}

	jobs.SortByRelevance(scored)
	s.allJobs = scored
	s.applyFiltersLocked()
	s.appendSummaryLocked(len(scored))
	s.processing = false

	s.logger.Info("matching finished",
		zap.Int("matched", len(scored)),
		zap.Int("visible", len(s.visible)),
	)

	return nil
}

// failLocked records the terminal failure of the current attempt. The resume
// text is cleared so a new upload is accepted, and the error becomes both the
// latest-error field and a permanent trail entry.
func (s *Session) failLocked(err error) {
	msg := err.Error()
	if msg == "" {
		msg = "an unknown error occurred"
	}
	s.queryError = msg
	s.resumeText = ""
	s.processing = false
	s.appendLocked("ERROR", msg, StatusError)
	s.logger.Warn("pipeline failed", zap.Error(err))
}

// Reset discards all session-scoped state and returns to idle. The saved-job
// set survives; any in-flight completion is abandoned via the generation
// counter.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.resumeText = ""
	s.analysis = nil
	s.allJobs = nil
	s.visible = nil
	s.filters = filtering.Defaults()
	s.trail = nil
	s.queryError = ""
	s.processing = false
	s.profile = nil
	s.generatingProfile = false
	s.profileError = ""
}

// GenerateSmartProfile produces the enrichment profile from the current
// analysis. Without an analysis it is a silent no-op; a prior profile error
// does not block a retry.
func (s *Session) GenerateSmartProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.analysis == nil || s.generatingProfile {
		s.mu.Unlock()
		return nil
	}

	s.generatingProfile = true
	s.profileError = ""
	gen := s.generation
	analysis := s.analysis
	s.appendLocked("Smart Profile", "Generating AI career advice...", StatusInfo)
	s.mu.Unlock()

	profile, err := s.oracle.GenerateProfile(ctx, analysis)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrSessionReset
	}

	s.generatingProfile = false
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "an unknown error occurred"
		}
		s.profileError = msg
		s.appendLocked("ERROR", msg, StatusError)
		return err
	}

	s.profile = profile
	s.appendLocked("Smart Profile", "Successfully generated insights.", StatusSuccess)
	return nil
}

// FilterPatch carries a partial criteria update; nil fields keep their
// current value.
type FilterPatch struct {
	Location       *string
	EmploymentType *string
	DatePosted     *string
	Experience     *string
	MinSalary      *string
	MaxSalary      *string
	ShowSavedOnly  *bool
}

// UpdateFilters merges the patch into the current criteria and recomputes the
// visible list. Pure recomputation: no oracle calls, no trail entries.
func (s *Session) UpdateFilters(patch FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Location != nil {
		s.filters.Location = *patch.Location
	}
	if patch.EmploymentType != nil {
		s.filters.EmploymentType = *patch.EmploymentType
	}
	if patch.DatePosted != nil {
		s.filters.DatePosted = *patch.DatePosted
	}
	if patch.Experience != nil {
		s.filters.Experience = *patch.Experience
	}
	if patch.MinSalary != nil {
		s.filters.MinSalary = *patch.MinSalary
	}
	if patch.MaxSalary != nil {
		s.filters.MaxSalary = *patch.MaxSalary
	}
	if patch.ShowSavedOnly != nil {
		s.filters.ShowSavedOnly = *patch.ShowSavedOnly
	}

	s.applyFiltersLocked()
}

// ResetFilters restores the default criteria and recomputes the visible list.
func (s *Session) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filtering.Defaults()
	s.applyFiltersLocked()
}

// ToggleSave flips membership of the job id in the saved set and reports the
// new membership. Without an authenticated user it is a silent no-op.
// Persistence is requested asynchronously; a write failure never reverts the
// in-memory toggle.
func (s *Session) ToggleSave(jobID string) bool {
	if s.saved == nil {
		return false
	}

	saved := s.saved.Toggle(jobID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filters.ShowSavedOnly {
		s.applyFiltersLocked()
	}
	return saved
}

func (s *Session) applyFiltersLocked() {
	s.visible, _ = filtering.Apply(s.allJobs, s.filters, s.savedSet())
}

func (s *Session) savedSet() map[string]struct{} {
	if s.saved == nil {
		return nil
	}
	return s.saved.Snapshot()
}

func (s *Session) appendLocked(label, value string, status Status) {
	s.trail = append(s.trail, LogEntry{
		Time:   time.Now(),
		Label:  label,
		Value:  value,
		Status: status,
	})
}

func (s *Session) appendSummaryLocked(matched int) {
	s.trail = append(s.trail, LogEntry{
		Time:   time.Now(),
		Label:  "SUMMARY",
		Value:  summaryMessage(matched),
		Status: StatusSummary,
	})
}
