// Package gemini implements the analysis oracle on top of the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/lee00100/ResumeRAG/internal/ai"
	"github.com/lee00100/ResumeRAG/internal/jobs"
	"github.com/lee00100/ResumeRAG/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed analyze_prompt.md
var analyzePromptTemplate string

//go:embed score_prompt.md
var scorePromptTemplate string

//go:embed profile_prompt.md
var profilePromptTemplate string

const (
	defaultMaxLogLength = 200

	// Job descriptions are truncated in score payloads to keep prompts small.
	scoreDescriptionLimit = 500
)

// Oracle implements ai.Oracle against a content generator.
type Oracle struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewOracle wraps a generator into the oracle interface.
func NewOracle(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Oracle {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze extracts the structured resume analysis.
func (o *Oracle) Analyze(ctx context.Context, resumeText string) (*ai.ResumeAnalysis, error) {
	prompt := strings.ReplaceAll(analyzePromptTemplate, "{{RESUME_TEXT}}", resumeText)

	raw, err := o.generate(ctx, "analyze", prompt)
	if err != nil {
		return nil, &ai.AnalysisError{Err: err}
	}

	var analysis ai.ResumeAnalysis
	if err := json.Unmarshal([]byte(extractJSON(raw)), &analysis); err != nil {
		return nil, &ai.AnalysisError{Err: fmt.Errorf("parse analysis response: %w", err)}
	}

	if analysis.ExperienceYears < 0 {
		analysis.ExperienceYears = 0
	}

	return &analysis, nil
}

// scorePayload is the trimmed job view sent to the model.
type scorePayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
}

type scoreRow struct {
	ID             string  `json:"id" mapstructure:"id"`
	RelevanceScore float64 `json:"relevanceScore" mapstructure:"relevanceScore"`
}

// ScoreJobs asks the model to rate every job and returns scored copies.
// Jobs absent from the response keep a zero score.
func (o *Oracle) ScoreJobs(ctx context.Context, analysis *ai.ResumeAnalysis, list []*jobs.Job) ([]*jobs.Job, error) {
	payload := make([]scorePayload, 0, len(list))
	for _, job := range list {
		payload = append(payload, scorePayload{
			ID:             job.ID,
			Title:          job.Title,
			Description:    truncate(job.Description, scoreDescriptionLimit),
			RequiredSkills: job.RequiredSkills,
		})
	}

	jobsJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, &ai.ScoringError{Err: fmt.Errorf("marshal jobs payload: %w", err)}
	}

	prompt := fillAnalysis(scorePromptTemplate, analysis)
	prompt = strings.ReplaceAll(prompt, "{{JOBS_JSON}}", string(jobsJSON))

	raw, err := o.generate(ctx, "score", prompt)
	if err != nil {
		return nil, &ai.ScoringError{Err: err}
	}

	rows, err := parseScoreRows(raw)
	if err != nil {
		return nil, &ai.ScoringError{Err: err}
	}

	scores := make(map[string]float64, len(rows))
	for _, row := range rows {
		scores[row.ID] = row.RelevanceScore
	}

	scored := make([]*jobs.Job, 0, len(list))
	for _, job := range list {
		dup := job.Clone()
		dup.RelevanceScore = scores[job.ID]
		scored = append(scored, dup)
	}

	return scored, nil
}

// GenerateProfile produces the smart-profile enrichment.
func (o *Oracle) GenerateProfile(ctx context.Context, analysis *ai.ResumeAnalysis) (*ai.SmartProfile, error) {
	prompt := fillAnalysis(profilePromptTemplate, analysis)

	raw, err := o.generate(ctx, "profile", prompt)
	if err != nil {
		return nil, &ai.ProfileError{Err: err}
	}

	var profile ai.SmartProfile
	if err := json.Unmarshal([]byte(extractJSON(raw)), &profile); err != nil {
		return nil, &ai.ProfileError{Err: fmt.Errorf("parse profile response: %w", err)}
	}

	return &profile, nil
}

func (o *Oracle) generate(ctx context.Context, kind, prompt string) (string, error) {
	o.logger.Debug("gemini generate content request",
		zap.String("kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, o.maxLogLen)),
	)

	raw, err := o.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	o.logger.Debug("gemini generate content response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, o.maxLogLen)),
	)

	return raw, nil
}

// parseScoreRows tolerates loosely typed model output: scores may come back
// as numbers or numeric strings, so rows are decoded weakly.
func parseScoreRows(raw string) ([]scoreRow, error) {
	var entries []map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &entries); err != nil {
		return nil, fmt.Errorf("parse score response: %w", err)
	}

	var rows []scoreRow
	cfg := &mapstructure.DecoderConfig{
		Result:           &rows,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build score decoder: %w", err)
	}
	if err := decoder.Decode(entries); err != nil {
		return nil, fmt.Errorf("decode score rows: %w", err)
	}

	return rows, nil
}

func fillAnalysis(template string, analysis *ai.ResumeAnalysis) string {
	out := strings.ReplaceAll(template, "{{SUMMARY}}", analysis.Summary)
	out = strings.ReplaceAll(out, "{{SKILLS}}", strings.Join(analysis.SkillNames(), ", "))
	out = strings.ReplaceAll(out, "{{EXPERIENCE_YEARS}}", strconv.FormatFloat(analysis.ExperienceYears, 'f', -1, 64))
	return out
}

// extractJSON strips a surrounding markdown code fence if present.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
