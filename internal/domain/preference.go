package domain

import (
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

// UserPreference is the per-user narrowing applied by the personalized feed.
// An empty dimension places no restriction.
type UserPreference struct {
	UserID     string    `json:"userId"`
	Sources    []string  `json:"sources"`
	Categories []string  `json:"categories"`
	Authors    []string  `json:"authors"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PreferenceUpdate is a submitted preference set. A nil slice means the field was not provided.
type PreferenceUpdate struct {
	Sources    []string
	Categories []string
	Authors    []string
}

// Apply replaces every provided dimension of p and keeps the others.
func (u PreferenceUpdate) Apply(p UserPreference) UserPreference {
	if u.Sources != nil {
		p.Sources = utils.NormalizeSet(u.Sources)
	}
	if u.Categories != nil {
		p.Categories = utils.NormalizeSet(u.Categories)
	}
	if u.Authors != nil {
		p.Authors = utils.NormalizeSet(u.Authors)
	}
	return p
}

// Criteria returns the set-membership criteria expressed by the preference.
func (p UserPreference) Criteria() Criteria {
	return Criteria{
		Sources:    p.Sources,
		Categories: p.Categories,
		Authors:    p.Authors,
	}
}
