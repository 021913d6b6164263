package jobs

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Employment types known to the catalog.
const (
	EmploymentFullTime   = "Full-time"
	EmploymentPartTime   = "Part-time"
	EmploymentContract   = "Contract"
	EmploymentInternship = "Internship"
)

// Job is a single catalog posting. Catalog entries are immutable after load;
// RelevanceScore is only ever set on scored copies handed out by the oracle.
type Job struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Company        string   `json:"company" yaml:"company"`
	Location       string   `json:"location" yaml:"location"`
	Description    string   `json:"description" yaml:"description"`
	RequiredSkills []string `json:"required_skills" yaml:"required_skills"`
	URL            string   `json:"url" yaml:"url"`
	EmploymentType string   `json:"employmentType" yaml:"employment_type"`
	// PostedDate is relative text like "3 days ago" or "Just now", not a
	// machine date. The upstream source never provides timestamps.
	PostedDate     string  `json:"postedDate" yaml:"posted_date"`
	RelevanceScore float64 `json:"relevanceScore" yaml:"-"`
	MinExperience  float64 `json:"minExperience" yaml:"min_experience"`
	MinSalary      int     `json:"minSalary" yaml:"min_salary"`
	MaxSalary      int     `json:"maxSalary" yaml:"max_salary"`
	IsNew          bool    `json:"isNew,omitempty" yaml:"is_new,omitempty"`
}

// Clone returns a copy of the job that is safe to score.
func (j *Job) Clone() *Job {
	dup := *j
	dup.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	return &dup
}

// FormatSalary renders the salary range the way the UI shows it, e.g. "$90k - $120k".
func (j *Job) FormatSalary() string {
	format := func(n int) string {
		return fmt.Sprintf("%dk", int(math.Round(float64(n)/1000)))
	}
	return fmt.Sprintf("$%s - $%s", format(j.MinSalary), format(j.MaxSalary))
}

// ScoreTier maps a relevance score to its display label.
func ScoreTier(score float64) string {
	switch {
	case score > 85:
		return "Great Match"
	case score > 60:
		return "Good Match"
	case score > 40:
		return "Fair Match"
	default:
		return "Possible Match"
	}
}

// List is an ordered collection of jobs.
type List struct {
	Items []*Job
}

func (l *List) Len() int {
	return len(l.Items)
}

func (l *List) FindByID(id string) *Job {
	for _, job := range l.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Cloned returns a deep copy of the list.
func (l *List) Cloned() *List {
	items := make([]*Job, 0, len(l.Items))
	for _, job := range l.Items {
		items = append(items, job.Clone())
	}
	return &List{Items: items}
}

// SortByRelevance orders jobs by descending relevance score. The sort is
// stable: ties keep their original catalog order.
func SortByRelevance(items []*Job) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelevanceScore > items[j].RelevanceScore
	})
}

// DumpToTmpFile writes the jobs to a temporary JSON file and returns its name.
func (l *List) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}
