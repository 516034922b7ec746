package assessment

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinLikert = 1
	MaxLikert = 5
)

var ErrUnknownInstrument = errors.New("unknown instrument")

type Instrument string

const (
	InstrumentRIASEC      Instrument = "riasec"
	InstrumentSkills      Instrument = "skills"
	InstrumentPersonality Instrument = "personality"
)

// Instruments lists every instrument in report order.
var Instruments = []Instrument{InstrumentRIASEC, InstrumentSkills, InstrumentPersonality}

var instrumentCategories = map[Instrument][]string{
	InstrumentRIASEC: {"R", "I", "A", "S", "E", "C"},
	InstrumentSkills: {
		"analytical",
		"communication",
		"technical",
		"creative",
		"leadership",
		"organizational",
		"interpersonal",
		"numerical",
	},
	InstrumentPersonality: {
		"openness",
		"conscientiousness",
		"extraversion",
		"agreeableness",
		"emotional_stability",
	},
}

var categoryLabels = map[string]string{
	"R":                   "Realistic",
	"I":                   "Investigative",
	"A":                   "Artistic",
	"S":                   "Social",
	"E":                   "Enterprising",
	"C":                   "Conventional",
	"analytical":          "Analytical",
	"communication":       "Communication",
	"technical":           "Technical",
	"creative":            "Creative",
	"leadership":          "Leadership",
	"organizational":      "Organizational",
	"interpersonal":       "Interpersonal",
	"numerical":           "Numerical",
	"openness":            "Openness",
	"conscientiousness":   "Conscientiousness",
	"extraversion":        "Extraversion",
	"agreeableness":       "Agreeableness",
	"emotional_stability": "Emotional Stability",
}

func ParseInstrument(s string) (Instrument, error) {
	i := Instrument(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", ErrUnknownInstrument
	}
	return i, nil
}

func (i Instrument) Valid() bool {
	_, ok := instrumentCategories[i]
	return ok
}

// Categories returns the declared categories in their canonical order.
func (i Instrument) Categories() []string {
	cats := instrumentCategories[i]
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}

func (i Instrument) CategoryIndex(category string) (int, bool) {
	for idx, c := range instrumentCategories[i] {
		if c == category {
			return idx, true
		}
	}
	return 0, false
}

func CategoryLabel(category string) string {
	if l, ok := categoryLabels[category]; ok {
		return l
	}
	return category
}

type Assessment struct {
	ID            uuid.UUID
	Slug          string
	Instrument    Instrument
	Title         string
	Description   string
	QuestionCount int
	Questions     []Question
	CreatedAt     time.Time
}

type Question struct {
	ID            uuid.UUID
	AssessmentID  uuid.UUID
	Category      string
	Prompt        string
	ReverseScored bool
	Position      int
}

type Response struct {
	QuestionID uuid.UUID
	Value      int
}

func ValidLikert(v int) bool {
	return v >= MinLikert && v <= MaxLikert
}

type Attempt struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	AssessmentID uuid.UUID
	Instrument   Instrument
	StartedAt    time.Time
	CompletedAt  *time.Time
}

func (a Attempt) Completed() bool {
	return a.CompletedAt != nil && !a.CompletedAt.IsZero()
}

// CategoryScore is the normalized 0-100 score of one category. Rank is 1-based
// and only set on scores that went through a ranking step.
type CategoryScore struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Answered int     `json:"answered"`
	Rank     int     `json:"rank,omitempty"`
}
