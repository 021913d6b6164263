// Package highlight derives skill annotations for job descriptions.
package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lee00100/ResumeRAG/internal/ai"
	"github.com/lee00100/ResumeRAG/internal/util"
)

// Context tooltips are capped at this many runes before display.
const contextLimit = 180

// MatchedSkills returns the subset of a job's required skills that appear in
// the user's extracted skills, compared case-insensitively and preserving the
// job's own ordering.
func MatchedSkills(required []string, skills []ai.Skill) []string {
	if len(required) == 0 || len(skills) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		known[strings.ToLower(skill.Name)] = struct{}{}
	}

	var matched []string
	for _, name := range required {
		if _, ok := known[strings.ToLower(name)]; ok {
			matched = append(matched, name)
		}
	}
	return matched
}

// Segment is one span of a rendered text block. Skill and Context are empty
// for pass-through spans; highlighted spans carry the originating skill name
// and its (truncated) resume context.
type Segment struct {
	Text    string
	Skill   string
	Context string
}

// Matcher splits text on word-boundary, case-insensitive occurrences of the
// configured skill names. Names are regex-escaped and compiled into a single
// alternation. Branches are ordered longest name first, so when one skill
// name is a prefix of another ("Java" vs "JavaScript") the longer name wins;
// this is the one deterministic policy chosen for overlapping names.
type Matcher struct {
	pattern *regexp.Regexp
	context map[string]string
}

// NewMatcher compiles a matcher for the given skills. An empty skill set
// yields a matcher that passes text through unchanged.
func NewMatcher(skills []ai.Skill) *Matcher {
	if len(skills) == 0 {
		return &Matcher{}
	}

	context := make(map[string]string, len(skills))
	names := make([]string, 0, len(skills))
	for _, skill := range skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		// First extraction wins for duplicate names.
		lower := strings.ToLower(name)
		if _, ok := context[lower]; ok {
			continue
		}
		names = append(names, name)
		context[lower] = skill.Context
	}

	if len(names) == 0 {
		return &Matcher{}
	}

	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})

	escaped := make([]string, 0, len(names))
	for _, name := range names {
		escaped = append(escaped, regexp.QuoteMeta(name))
	}

	pattern := regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)

	return &Matcher{pattern: pattern, context: context}
}

// Segments produces the rendering plan for the text. Non-matching spans pass
// through unchanged; matched spans are tagged with the skill's resume
// context, truncated to the display limit.
func (m *Matcher) Segments(text string) []Segment {
	if m.pattern == nil || text == "" {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for _, loc := range m.pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		match := text[loc[0]:loc[1]]
		segments = append(segments, Segment{
			Text:    match,
			Skill:   match,
			Context: util.TruncateForLog(m.context[strings.ToLower(match)], contextLimit),
		})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}
