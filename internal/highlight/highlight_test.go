package highlight

import (
	"strings"
	"testing"

	"github.com/lee00100/ResumeRAG/internal/ai"
)

func TestMatchedSkillsCaseInsensitive(t *testing.T) {
	t.Parallel()

	required := []string{"Python", "SQL"}
	skills := []ai.Skill{{Name: "python"}, {Name: "Go"}}

	matched := MatchedSkills(required, skills)
	if len(matched) != 1 || matched[0] != "Python" {
		t.Fatalf("expected [Python], got %v", matched)
	}
}

func TestMatchedSkillsPreservesJobOrder(t *testing.T) {
	t.Parallel()

	required := []string{"Kubernetes", "Go", "Docker"}
	skills := []ai.Skill{{Name: "docker"}, {Name: "kubernetes"}, {Name: "go"}}

	matched := MatchedSkills(required, skills)
	want := []string{"Kubernetes", "Go", "Docker"}
	if len(matched) != len(want) {
		t.Fatalf("expected %v, got %v", want, matched)
	}
	for i := range want {
		if matched[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, matched)
		}
	}
}

func TestMatchedSkillsEmpty(t *testing.T) {
	t.Parallel()

	if got := MatchedSkills(nil, []ai.Skill{{Name: "Go"}}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := MatchedSkills([]string{"Go"}, nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSegmentsHighlightsSkills(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher([]ai.Skill{
		{Name: "Go", Context: "Built services in Go."},
	})

	segments := matcher.Segments("We build Go services.")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Text != "We build " || segments[0].Skill != "" {
		t.Fatalf("unexpected leading segment: %+v", segments[0])
	}
	if segments[1].Text != "Go" || segments[1].Skill != "Go" {
		t.Fatalf("unexpected highlighted segment: %+v", segments[1])
	}
	if segments[1].Context != "Built services in Go." {
		t.Fatalf("unexpected context: %q", segments[1].Context)
	}
	if segments[2].Text != " services." {
		t.Fatalf("unexpected trailing segment: %+v", segments[2])
	}
}

func TestSegmentsCaseInsensitiveWordBoundary(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher([]ai.Skill{{Name: "SQL", Context: "ctx"}})

	segments := matcher.Segments("We use sql and MySQL.")

	var highlighted []string
	for _, segment := range segments {
		if segment.Skill != "" {
			highlighted = append(highlighted, segment.Text)
		}
	}

	// "MySQL" must not match: the pattern is word-bounded.
	if len(highlighted) != 1 || highlighted[0] != "sql" {
		t.Fatalf("expected only lowercase standalone sql highlighted, got %v", highlighted)
	}
}

func TestSegmentsLongestNameWins(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher([]ai.Skill{
		{Name: "Java", Context: "java ctx"},
		{Name: "JavaScript", Context: "js ctx"},
	})

	segments := matcher.Segments("JavaScript and Java")

	var highlighted []string
	for _, segment := range segments {
		if segment.Skill != "" {
			highlighted = append(highlighted, segment.Text)
		}
	}

	if len(highlighted) != 2 || highlighted[0] != "JavaScript" || highlighted[1] != "Java" {
		t.Fatalf("expected [JavaScript Java], got %v", highlighted)
	}
}

func TestSegmentsTruncatesLongContext(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 240)
	matcher := NewMatcher([]ai.Skill{{Name: "Go", Context: long}})

	segments := matcher.Segments("Go")
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}

	context := segments[0].Context
	if !strings.HasSuffix(context, "...") {
		t.Fatalf("expected truncated context to end with ellipsis, got %q", context)
	}
	if len(context) != 180+3 {
		t.Fatalf("expected 183 characters, got %d", len(context))
	}
}

func TestSegmentsEmptySkillSetPassthrough(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher(nil)

	segments := matcher.Segments("unchanged text")
	if len(segments) != 1 || segments[0].Text != "unchanged text" || segments[0].Skill != "" {
		t.Fatalf("expected identity pass-through, got %+v", segments)
	}
}

func TestSegmentsEscapesRegexMetacharacters(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher([]ai.Skill{{Name: "Node.js", Context: "ctx"}})

	// The dot must be escaped: "Nodexjs" must not match, "Node.js" must.
	segments := matcher.Segments("Nodexjs and Node.js")
	var highlighted []string
	for _, segment := range segments {
		if segment.Skill != "" {
			highlighted = append(highlighted, segment.Text)
		}
	}
	if len(highlighted) != 1 || highlighted[0] != "Node.js" {
		t.Fatalf("expected only the literal Node.js highlighted, got %v", highlighted)
	}
}
