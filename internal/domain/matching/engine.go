package matching

import (
	"errors"
	"math"
	"sort"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/career"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

var ErrInvalidWeights = errors.New("invalid matching weights")

type Weights struct {
	Interest    float64 `json:"interest"`
	Skills      float64 `json:"skills"`
	Personality float64 `json:"personality"`
}

func DefaultWeights() Weights {
	return Weights{Interest: 0.40, Skills: 0.35, Personality: 0.25}
}

func (w Weights) Validate() error {
	if w.Interest < 0 || w.Skills < 0 || w.Personality < 0 {
		return ErrInvalidWeights
	}
	if w.Interest+w.Skills+w.Personality <= 0 {
		return ErrInvalidWeights
	}
	return nil
}

// Normalized scales the weights so they sum to 1. Invalid weights fall back to
// the defaults.
func (w Weights) Normalized() Weights {
	if w.Validate() != nil {
		return DefaultWeights()
	}
	sum := w.Interest + w.Skills + w.Personality
	return Weights{Interest: w.Interest / sum, Skills: w.Skills / sum, Personality: w.Personality / sum}
}

// Profile holds a user's 0-100 category scores per instrument. A nil map means
// the user has no completed attempt for that instrument.
type Profile struct {
	Interests   map[string]float64
	Skills      map[string]float64
	Personality map[string]float64
}

type Candidate struct {
	Occupation     career.Occupation `json:"occupation"`
	InterestFit    *float64          `json:"interest_fit"`
	SkillsFit      *float64          `json:"skills_fit"`
	PersonalityFit *float64          `json:"personality_fit"`
	Score          float64           `json:"score"`
	Rank           int               `json:"rank"`
	Gaps           []SkillGap        `json:"skill_gaps"`
}

// Fit is the requirement-weighted mean of the user's scores over the
// categories the requirement profile asks for. ok is false when either side
// is empty.
func Fit(user, req map[string]float64) (float64, bool) {
	if len(user) == 0 || len(req) == 0 {
		return 0, false
	}

	keys := make([]string, 0, len(req))
	for k := range req {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var num, den float64
	for _, k := range keys {
		w := req[k]
		if w <= 0 {
			continue
		}
		num += clampScore(user[k]) * w
		den += w
	}
	if den == 0 {
		return 0, false
	}
	return round2(num / den), true
}

type componentFit struct {
	value  float64
	ok     bool
	weight float64
}

// Blend combines the defined fits linearly. Weights of undefined components are
// redistributed proportionally over the defined ones.
func Blend(interest, skills, personality *float64, w Weights) float64 {
	w = w.Normalized()
	parts := []componentFit{
		{weight: w.Interest},
		{weight: w.Skills},
		{weight: w.Personality},
	}
	for i, f := range []*float64{interest, skills, personality} {
		if f != nil {
			parts[i].value = *f
			parts[i].ok = true
		}
	}

	var total, wsum float64
	for _, p := range parts {
		if !p.ok || p.weight <= 0 {
			continue
		}
		total += p.value * p.weight
		wsum += p.weight
	}
	if wsum == 0 {
		return 0
	}
	return round2(total / wsum)
}

// Score computes the fits and blended score of a single occupation.
func Score(p Profile, occ career.Occupation, w Weights) Candidate {
	c := Candidate{Occupation: occ}
	if v, ok := Fit(p.Interests, occ.Interests); ok {
		c.InterestFit = &v
	}
	if v, ok := Fit(p.Skills, occ.Skills); ok {
		c.SkillsFit = &v
	}
	if v, ok := Fit(p.Personality, occ.Styles); ok {
		c.PersonalityFit = &v
	}
	c.Score = Blend(c.InterestFit, c.SkillsFit, c.PersonalityFit, w)
	c.Gaps = SkillGaps(p.Skills, occ)
	return c
}

// Rank scores every occupation and returns the best limit candidates, ordered
// by score descending, then title and code ascending.
func Rank(p Profile, occs []career.Occupation, w Weights, limit int) []Candidate {
	limit = ClampLimit(limit)

	out := make([]Candidate, 0, len(occs))
	for _, occ := range occs {
		if occ.Code == "" {
			continue
		}
		out = append(out, Score(p, occ, w))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Occupation.Title != out[j].Occupation.Title {
			return out[i].Occupation.Title < out[j].Occupation.Title
		}
		return out[i].Occupation.Code < out[j].Occupation.Code
	})

	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return clampInt(limit, 1, MaxLimit)
}

func skillOrder(category string) int {
	if idx, ok := assessment.InstrumentSkills.CategoryIndex(category); ok {
		return idx
	}
	return math.MaxInt
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
