// Package catalog holds the built-in occupation list and question banks.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/career"

	"gopkg.in/yaml.v3"
)

//go:embed careers.yaml
var careersYAML []byte

//go:embed assessments.yaml
var assessmentsYAML []byte

type QuestionDef struct {
	Category string `yaml:"category"`
	Prompt   string `yaml:"prompt"`
	Reverse  bool   `yaml:"reverse"`
}

type AssessmentDef struct {
	Slug        string        `yaml:"slug"`
	Instrument  string        `yaml:"instrument"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Questions   []QuestionDef `yaml:"questions"`
}

func ParseOccupations(data []byte) ([]career.Occupation, error) {
	var out []career.Occupation
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode occupations: %w", err)
	}
	seen := make(map[string]struct{}, len(out))
	for i, o := range out {
		code := strings.TrimSpace(o.Code)
		if code == "" {
			return nil, fmt.Errorf("occupation %d: missing code", i)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("occupation %s: duplicate code", code)
		}
		seen[code] = struct{}{}
		if err := checkCategories(assessment.InstrumentRIASEC, o.Interests); err != nil {
			return nil, fmt.Errorf("occupation %s: %w", code, err)
		}
		if err := checkCategories(assessment.InstrumentSkills, o.Skills); err != nil {
			return nil, fmt.Errorf("occupation %s: %w", code, err)
		}
		if err := checkCategories(assessment.InstrumentPersonality, o.Styles); err != nil {
			return nil, fmt.Errorf("occupation %s: %w", code, err)
		}
		out[i].Code = code
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func ParseAssessments(data []byte) ([]AssessmentDef, error) {
	var out []AssessmentDef
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode assessments: %w", err)
	}
	for _, a := range out {
		inst, err := assessment.ParseInstrument(a.Instrument)
		if err != nil {
			return nil, fmt.Errorf("assessment %s: %w", a.Slug, err)
		}
		if strings.TrimSpace(a.Slug) == "" {
			return nil, fmt.Errorf("assessment with instrument %s: missing slug", inst)
		}
		if len(a.Questions) == 0 {
			return nil, fmt.Errorf("assessment %s: no questions", a.Slug)
		}
		for i, q := range a.Questions {
			if _, ok := inst.CategoryIndex(q.Category); !ok {
				return nil, fmt.Errorf("assessment %s question %d: unknown category %q", a.Slug, i+1, q.Category)
			}
		}
	}
	return out, nil
}

func checkCategories(inst assessment.Instrument, profile map[string]float64) error {
	for c, v := range profile {
		if _, ok := inst.CategoryIndex(c); !ok {
			return fmt.Errorf("unknown %s category %q", inst, c)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%s weight %v out of range", c, v)
		}
	}
	return nil
}

var (
	loadOnce    sync.Once
	occupations []career.Occupation
	loadErr     error
)

// Occupations returns the embedded occupation list, sorted by code.
func Occupations() ([]career.Occupation, error) {
	loadOnce.Do(func() {
		occupations, loadErr = ParseOccupations(careersYAML)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]career.Occupation, len(occupations))
	copy(out, occupations)
	return out, nil
}

// Assessments returns the embedded question banks.
func Assessments() ([]AssessmentDef, error) {
	return ParseAssessments(assessmentsYAML)
}

// Source serves the embedded occupations.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) List(ctx context.Context) ([]career.Occupation, error) {
	return Occupations()
}

func (s *Source) Get(ctx context.Context, code string) (career.Occupation, error) {
	occs, err := Occupations()
	if err != nil {
		return career.Occupation{}, err
	}
	code = strings.TrimSpace(code)
	for _, o := range occs {
		if o.Code == code {
			return o, nil
		}
	}
	return career.Occupation{}, career.ErrNotFound
}
