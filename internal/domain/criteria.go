package domain

import (
	"slices"
	"strings"
	"time"
)

// Criteria is a storage-agnostic predicate over articles.
// Scalar fields match exactly, set fields by membership and Keyword as a
// case-insensitive substring of title or description. Zero values impose no constraint.
type Criteria struct {
	Keyword  string
	Day      *time.Time
	Category string
	Source   string

	Sources    []string
	Categories []string
	Authors    []string
}

// DayRange returns the half-open UTC interval covering Day.
func (c Criteria) DayRange() (from, to time.Time, ok bool) {
	if c.Day == nil {
		return time.Time{}, time.Time{}, false
	}
	d := c.Day.UTC()
	from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1), true
}

func (c Criteria) Matches(a Article) bool {
	if c.Keyword != "" {
		kw := strings.ToLower(c.Keyword)
		if !strings.Contains(strings.ToLower(a.Title), kw) &&
			!strings.Contains(strings.ToLower(a.Description), kw) {
			return false
		}
	}
	if from, to, ok := c.DayRange(); ok {
		p := a.PublishedAt.UTC()
		if p.Before(from) || !p.Before(to) {
			return false
		}
	}
	if c.Category != "" && a.Category != c.Category {
		return false
	}
	if c.Source != "" && a.Source != c.Source {
		return false
	}
	if len(c.Sources) > 0 && !slices.Contains(c.Sources, a.Source) {
		return false
	}
	if len(c.Categories) > 0 && !slices.Contains(c.Categories, a.Category) {
		return false
	}
	if len(c.Authors) > 0 && !slices.Contains(c.Authors, a.Author) {
		return false
	}
	return true
}
