package career

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("occupation not found")

// Occupation is one career candidate. Interests, Skills and Styles are
// requirement profiles on a 0-100 scale keyed by instrument category.
type Occupation struct {
	Code         string             `json:"code" yaml:"code"`
	Title        string             `json:"title" yaml:"title"`
	Description  string             `json:"description,omitempty" yaml:"description"`
	JobZone      int                `json:"job_zone,omitempty" yaml:"job_zone"`
	SampleTitles []string           `json:"sample_titles,omitempty" yaml:"sample_titles"`
	Interests    map[string]float64 `json:"interests,omitempty" yaml:"interests"`
	Skills       map[string]float64 `json:"skills,omitempty" yaml:"skills"`
	Styles       map[string]float64 `json:"styles,omitempty" yaml:"styles"`
}

var jobZoneEducation = map[int]string{
	1: "Little or no preparation needed",
	2: "High school diploma",
	3: "Vocational training or associate's degree",
	4: "Bachelor's degree",
	5: "Graduate degree",
}

// Education describes the typical preparation for the occupation's job zone.
func (o Occupation) Education() string {
	return jobZoneEducation[o.JobZone]
}

// Source provides occupations for matching and browsing.
type Source interface {
	List(ctx context.Context) ([]Occupation, error)
	Get(ctx context.Context, code string) (Occupation, error)
}
