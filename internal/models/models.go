package models

import (
	"time"
)

// Issue represents a GitHub issue as fetched for a single sync run.
// Issues are transient snapshots; nothing is cached between runs.
type Issue struct {
	Number    int
	Title     string
	Body      string
	State     string
	Labels    []string
	Milestone *Milestone
	Assignees []string
	HTMLURL   string
}

// Milestone represents an issue's milestone
type Milestone struct {
	Title string
	DueOn *time.Time
}

// Comment represents a GitHub issue comment
type Comment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// SameLabels reports whether two label slices contain the same label names,
// ignoring order and duplicates.
func SameLabels(a, b []string) bool {
	as, bs := toSet(a), toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for name := range as {
		if !bs[name] {
			return false
		}
	}
	return true
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}
