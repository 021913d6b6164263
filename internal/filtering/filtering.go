// Package filtering narrows a scored job list according to user criteria.
// It is deliberately pure: no clock, no I/O, no logging. The relative-date
// heuristic reproduces the upstream behavior exactly, because the catalog
// only ever carries relative text instead of timestamps.
package filtering

import (
	"strings"

	"github.com/lee00100/ResumeRAG/internal/jobs"
)

// Any is the sentinel for an absent categorical constraint. Criteria are
// always fully populated; absence is expressed by this value or by an empty
// salary string, never by a missing key.
const Any = "all"

// Date-posted windows.
const (
	DatePastWeek  = "past-week"
	DatePastMonth = "past-month"
)

// Experience brackets, matched against a job's minimum experience.
const (
	ExperienceJunior = "0-2"
	ExperienceMiddle = "3-5"
	ExperienceSenior = "5+"
)

// Options holds the filter criteria. MinSalary and MaxSalary are expressed in
// thousands; the empty string means unset.
type Options struct {
	Location       string
	EmploymentType string
	DatePosted     string
	Experience     string
	MinSalary      string
	MaxSalary      string
	ShowSavedOnly  bool
}

// Defaults returns the criteria that match every job.
func Defaults() Options {
	return Options{
		Location:       Any,
		EmploymentType: Any,
		DatePosted:     Any,
		Experience:     Any,
		MinSalary:      "",
		MaxSalary:      "",
		ShowSavedOnly:  false,
	}
}

// Result describes the outcome of one filter pass.
type Result struct {
	Initial int
	Dropped int
	Left    int
}

// Apply returns the jobs satisfying every criterion, preserving input order.
// The input slice is never modified.
func Apply(items []*jobs.Job, opts Options, saved map[string]struct{}) ([]*jobs.Job, Result) {
	initial := len(items)
	kept := make([]*jobs.Job, 0, initial)

	for _, job := range items {
		if opts.ShowSavedOnly {
			if _, ok := saved[job.ID]; !ok {
				continue
			}
		}
		if !matches(job, opts) {
			continue
		}
		kept = append(kept, job)
	}

	return kept, Result{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}

func matches(job *jobs.Job, opts Options) bool {
	if opts.Location != Any && job.Location != opts.Location {
		return false
	}
	if opts.EmploymentType != Any && job.EmploymentType != opts.EmploymentType {
		return false
	}
	if !dateMatch(job.PostedDate, opts.DatePosted) {
		return false
	}
	if !experienceMatch(job.MinExperience, opts.Experience) {
		return false
	}
	return salaryMatch(job, opts)
}

func dateMatch(postedDate, window string) bool {
	switch window {
	case DatePastWeek:
		days, ok := daysAgo(postedDate)
		return ok && days <= 7
	case DatePastMonth:
		days, ok := daysAgo(postedDate)
		return ok && days <= 30
	default:
		return true
	}
}

// daysAgo converts relative posted-date text into an age in days. The second
// return value is false when the text is unparseable; such jobs are treated
// as infinitely old and never match a bounded window.
func daysAgo(postedDate string) (int, bool) {
	lower := strings.ToLower(strings.TrimSpace(postedDate))
	if lower == "just now" || strings.Contains(lower, "today") {
		return 0, true
	}

	num, ok := leadingInt(lower)
	if !ok {
		return 0, false
	}

	switch {
	case strings.Contains(lower, "day"):
		return num, true
	case strings.Contains(lower, "week"):
		return num * 7, true
	case strings.Contains(lower, "month"):
		return num * 30, true
	default:
		return 0, false
	}
}

func experienceMatch(minExp float64, bracket string) bool {
	switch bracket {
	case ExperienceJunior:
		return minExp >= 0 && minExp <= 2
	case ExperienceMiddle:
		return minExp >= 3 && minExp <= 5
	case ExperienceSenior:
		return minExp >= 5
	default:
		return true
	}
}

// salaryMatch applies a range-overlap test, not containment. Both bounds are
// evaluated independently; a min above the max is not swapped.
func salaryMatch(job *jobs.Job, opts Options) bool {
	if minK, ok := leadingInt(opts.MinSalary); ok {
		if job.MaxSalary < minK*1000 {
			return false
		}
	}
	if maxK, ok := leadingInt(opts.MaxSalary); ok {
		if job.MinSalary > maxK*1000 {
			return false
		}
	}
	return true
}

// leadingInt extracts the leading decimal integer of the string, ignoring
// anything after it, matching how the upstream parsed user input.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n := 0
	for _, c := range s[:end] {
		n = n*10 + int(c-'0')
	}
	return n, true
}
