package ai

import (
	"context"

	"github.com/lee00100/ResumeRAG/internal/jobs"
)

// Oracle abstracts the external analyzer/matcher service. Implementations are
// expected to be safe for sequential use from a single session; none of the
// methods are called concurrently by the pipeline.
type Oracle interface {
	// Analyze extracts a structured analysis from raw resume text.
	Analyze(ctx context.Context, resumeText string) (*ResumeAnalysis, error)
	// ScoreJobs returns scored copies of the given jobs. RelevanceScore is
	// populated in the 0-100 range; any job the service does not mention
	// keeps the zero score. Catalog entries are never mutated.
	ScoreJobs(ctx context.Context, analysis *ResumeAnalysis, list []*jobs.Job) ([]*jobs.Job, error)
	// GenerateProfile produces the smart-profile enrichment from an analysis.
	GenerateProfile(ctx context.Context, analysis *ResumeAnalysis) (*SmartProfile, error)
}
