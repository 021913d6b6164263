package ai

import "fmt"

// AnalysisError wraps a failure of the resume-analysis call, including
// malformed model output and transport failures.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return fmt.Sprintf("resume analysis: %v", e.Err) }

func (e *AnalysisError) Unwrap() error { return e.Err }

// ScoringError wraps a failure of the job-scoring call.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string { return fmt.Sprintf("job scoring: %v", e.Err) }

func (e *ScoringError) Unwrap() error { return e.Err }

// ProfileError wraps a failure of smart-profile generation.
type ProfileError struct {
	Err error
}

func (e *ProfileError) Error() string { return fmt.Sprintf("smart profile: %v", e.Err) }

func (e *ProfileError) Unwrap() error { return e.Err }
