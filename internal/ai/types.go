package ai

// Skill is a single skill extracted from a resume. Context holds the verbatim
// sentence or phrase the skill appeared in; it feeds tooltips downstream.
// Names are compared case-insensitively wherever skills are looked up.
type Skill struct {
	Name    string `json:"name"`
	Context string `json:"context"`
}

// ResumeAnalysis is the structured result of analyzing one resume. It is
// immutable once produced and replaced wholesale on the next submission.
type ResumeAnalysis struct {
	Summary         string  `json:"summary"`
	Skills          []Skill `json:"skills"`
	ExperienceYears float64 `json:"experience_years"`
}

// SkillNames returns the skill names in extraction order.
func (a *ResumeAnalysis) SkillNames() []string {
	names := make([]string, 0, len(a.Skills))
	for _, skill := range a.Skills {
		names = append(names, skill.Name)
	}
	return names
}

// SuggestedSkill is a complementary skill recommendation with a short reason.
type SuggestedSkill struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SmartProfile is the optional enrichment artifact generated on demand from
// an existing analysis. It has its own lifecycle and can fail or be retried
// without touching job matches.
type SmartProfile struct {
	EnhancedSummary        string           `json:"enhanced_summary"`
	SuggestedSkills        []SuggestedSkill `json:"suggested_skills"`
	InterviewTalkingPoints []string         `json:"interview_talking_points"`
}
