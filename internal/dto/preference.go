package dto

import (
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const (
	maxPreferenceValues = 100
	maxPreferenceLength = 200
)

// PreferenceRequest replaces the provided dimensions. An omitted (or null)
// field keeps its stored value; an empty list clears it. A request with every
// field omitted is accepted and creates an unrestricted preference set.
type PreferenceRequest struct {
	Sources    []string `json:"sources" example:"Tech Source"`
	Categories []string `json:"categories" example:"Technology"`
	Authors    []string `json:"authors" example:"Jane Doe"`
}

func (r *PreferenceRequest) Validate() error {
	for name, values := range map[string][]string{
		"sources":    r.Sources,
		"categories": r.Categories,
		"authors":    r.Authors,
	} {
		if len(values) > maxPreferenceValues {
			return apperr.NewValidation(name + " accepts at most 100 values")
		}
		for _, v := range values {
			if len(v) > maxPreferenceLength {
				return apperr.NewValidation(name + " values must be at most 200 characters")
			}
		}
	}
	return nil
}

func (r *PreferenceRequest) Update() domain.PreferenceUpdate {
	return domain.PreferenceUpdate{
		Sources:    r.Sources,
		Categories: r.Categories,
		Authors:    r.Authors,
	}
}

type Preference struct {
	UserID     string    `json:"userId"`
	Sources    []string  `json:"sources"`
	Categories []string  `json:"categories"`
	Authors    []string  `json:"authors"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func FromPreference(p domain.UserPreference) Preference {
	return Preference{
		UserID:     p.UserID,
		Sources:    nonNil(p.Sources),
		Categories: nonNil(p.Categories),
		Authors:    nonNil(p.Authors),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
