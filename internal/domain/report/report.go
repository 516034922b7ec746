package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/matching"
	"careerpath/internal/domain/scoring"

	"github.com/google/uuid"
)

var ErrInterestProfileMissing = errors.New("interest profile missing")

const (
	sectionTopN = 3
	gapSources  = 3
)

type Section struct {
	Instrument assessment.Instrument      `json:"instrument"`
	AttemptID  uuid.UUID                  `json:"attempt_id"`
	Scores     []assessment.CategoryScore `json:"scores"`
	Top        []assessment.CategoryScore `json:"top"`
	Summary    string                     `json:"summary"`
}

type Report struct {
	ID          uuid.UUID            `json:"id,omitempty"`
	UserID      uuid.UUID            `json:"user_id"`
	HollandCode string               `json:"holland_code"`
	Interests   *Section             `json:"interests"`
	Skills      *Section             `json:"skills,omitempty"`
	Personality *Section             `json:"personality,omitempty"`
	Careers     []matching.Candidate `json:"careers"`
	SkillGaps   []matching.SkillGap  `json:"skill_gaps"`
	Weights     matching.Weights     `json:"weights"`
	Summary     string               `json:"summary"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Scores is one instrument's completed attempt.
type Scores struct {
	AttemptID uuid.UUID
	Scores    []assessment.CategoryScore
}

type Input struct {
	UserID     uuid.UUID
	Results    map[assessment.Instrument]Scores
	Candidates []matching.Candidate
	Weights    matching.Weights
	Now        time.Time
}

// Profile converts completed instrument scores into a matching profile.
func Profile(results map[assessment.Instrument]Scores) matching.Profile {
	return matching.Profile{
		Interests:   scoring.ScoreMap(results[assessment.InstrumentRIASEC].Scores),
		Skills:      scoring.ScoreMap(results[assessment.InstrumentSkills].Scores),
		Personality: scoring.ScoreMap(results[assessment.InstrumentPersonality].Scores),
	}
}

func Assemble(in Input) (Report, error) {
	riasec, ok := in.Results[assessment.InstrumentRIASEC]
	if !ok || len(riasec.Scores) == 0 {
		return Report{}, ErrInterestProfileMissing
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	rep := Report{
		UserID:      in.UserID,
		HollandCode: scoring.HollandCode(riasec.Scores),
		Careers:     in.Candidates,
		Weights:     in.Weights.Normalized(),
		GeneratedAt: now.UTC(),
	}
	if rep.Careers == nil {
		rep.Careers = []matching.Candidate{}
	}

	rep.Interests = section(assessment.InstrumentRIASEC, riasec, "Your strongest interests are %s.")
	if s, ok := in.Results[assessment.InstrumentSkills]; ok && len(s.Scores) > 0 {
		rep.Skills = section(assessment.InstrumentSkills, s, "Your strongest skill areas are %s.")
	}
	if s, ok := in.Results[assessment.InstrumentPersonality]; ok && len(s.Scores) > 0 {
		rep.Personality = section(assessment.InstrumentPersonality, s, "Your most pronounced traits are %s.")
	}

	src := rep.Careers
	if len(src) > gapSources {
		src = src[:gapSources]
	}
	rep.SkillGaps = matching.MergeGaps(src)

	rep.Summary = summarize(rep)
	return rep, nil
}

func section(inst assessment.Instrument, s Scores, format string) *Section {
	top := scoring.TopN(inst, s.Scores, sectionTopN)
	labels := make([]string, 0, len(top))
	for _, t := range top {
		labels = append(labels, assessment.CategoryLabel(t.Category))
	}
	return &Section{
		Instrument: inst,
		AttemptID:  s.AttemptID,
		Scores:     scoring.Rank(inst, s.Scores),
		Top:        top,
		Summary:    fmt.Sprintf(format, JoinLabels(labels)),
	}
}

func summarize(rep Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your Holland code is %s.", rep.HollandCode)
	if len(rep.Careers) == 0 {
		b.WriteString(" No career matches were found.")
		return b.String()
	}
	top := rep.Careers[0]
	fmt.Fprintf(&b, " Your top career match is %s (score %.1f).", top.Occupation.Title, top.Score)
	if len(rep.SkillGaps) > 0 {
		fmt.Fprintf(&b, " Focus first on %s.", assessment.CategoryLabel(rep.SkillGaps[0].Category))
	}
	return b.String()
}

// JoinLabels renders "A", "A and B", "A, B and C".
func JoinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}
