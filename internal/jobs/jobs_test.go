package jobs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSortByRelevanceIsStable(t *testing.T) {
	t.Parallel()

	items := []*Job{
		{ID: "a", RelevanceScore: 50},
		{ID: "b", RelevanceScore: 90},
		{ID: "c", RelevanceScore: 50},
		{ID: "d", RelevanceScore: 50},
		{ID: "e", RelevanceScore: 10},
	}

	SortByRelevance(items)

	want := []string{"b", "a", "c", "d", "e"}
	for i, job := range items {
		if job.ID != want[i] {
			t.Fatalf("expected order %v, got %s at %d", want, job.ID, i)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := &Job{ID: "1", RequiredSkills: []string{"Go"}}
	dup := original.Clone()

	dup.RelevanceScore = 80
	dup.RequiredSkills[0] = "Rust"

	if original.RelevanceScore != 0 {
		t.Fatalf("clone mutated the original score")
	}
	if original.RequiredSkills[0] != "Go" {
		t.Fatalf("clone shares the skills slice")
	}
}

func TestScoreTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  string
	}{
		{95, "Great Match"},
		{86, "Great Match"},
		{85, "Good Match"},
		{61, "Good Match"},
		{41, "Fair Match"},
		{40, "Possible Match"},
		{0, "Possible Match"},
	}

	for _, tc := range tests {
		if got := ScoreTier(tc.score); got != tc.want {
			t.Fatalf("score %v: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestFormatSalary(t *testing.T) {
	t.Parallel()

	job := &Job{MinSalary: 110000, MaxSalary: 142500}
	if got := job.FormatSalary(); got != "$110k - $143k" {
		t.Fatalf("unexpected salary format: %q", got)
	}
}

func TestDefaultCatalogParses(t *testing.T) {
	t.Parallel()

	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.Len() == 0 {
		t.Fatalf("expected embedded catalog to contain jobs")
	}
	for _, job := range catalog.Items {
		if job.RelevanceScore != 0 {
			t.Fatalf("catalog job %s must start unscored", job.ID)
		}
	}
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return path
}

func TestLoadCatalogRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `
jobs:
  - id: "1"
    title: One
    employment_type: Full-time
  - id: "1"
    title: Two
    employment_type: Full-time
`)

	_, err := LoadCatalog(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate job id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadCatalogRejectsUnknownEmploymentType(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `
jobs:
  - id: "1"
    title: One
    employment_type: Gig
`)

	_, err := LoadCatalog(path)
	if err == nil || !strings.Contains(err.Error(), "unknown employment type") {
		t.Fatalf("expected employment type error, got %v", err)
	}
}

func TestLoadCatalogRejectsEmpty(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, "jobs: []\n")

	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestListFindByID(t *testing.T) {
	t.Parallel()

	list := &List{Items: []*Job{{ID: "1"}, {ID: "2"}}}
	if job := list.FindByID("2"); job == nil || job.ID != "2" {
		t.Fatalf("expected to find job 2")
	}
	if job := list.FindByID("3"); job != nil {
		t.Fatalf("expected nil for unknown id")
	}
}
