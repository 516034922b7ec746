package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"careerpath/internal/domain/assessment"

	"github.com/google/uuid"
)

var (
	ErrUnknownQuestion = errors.New("response references unknown question")
	ErrInvalidValue    = errors.New("response value out of range")
	ErrUnknownCategory = errors.New("question category not declared by instrument")
)

// Normalize maps a Likert mean (1-5) onto 0-100.
func Normalize(avg float64) float64 {
	v := (avg - assessment.MinLikert) / (assessment.MaxLikert - assessment.MinLikert) * 100
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return Round2(v)
}

// ScoreInstrument averages responses per category and normalizes each mean.
// The result holds one entry per declared category in declaration order;
// categories without responses score 0. A later response to the same question
// replaces an earlier one.
func ScoreInstrument(inst assessment.Instrument, questions []assessment.Question, responses []assessment.Response) ([]assessment.CategoryScore, error) {
	if !inst.Valid() {
		return nil, assessment.ErrUnknownInstrument
	}

	byID := make(map[uuid.UUID]assessment.Question, len(questions))
	for _, q := range questions {
		if _, ok := inst.CategoryIndex(q.Category); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, q.Category)
		}
		byID[q.ID] = q
	}

	latest := make(map[uuid.UUID]int, len(responses))
	for _, r := range responses {
		if _, ok := byID[r.QuestionID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, r.QuestionID)
		}
		if !assessment.ValidLikert(r.Value) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidValue, r.Value)
		}
		latest[r.QuestionID] = r.Value
	}

	sums := map[string]int{}
	counts := map[string]int{}
	for qid, v := range latest {
		q := byID[qid]
		if q.ReverseScored {
			v = assessment.MinLikert + assessment.MaxLikert - v
		}
		sums[q.Category] += v
		counts[q.Category]++
	}

	cats := inst.Categories()
	out := make([]assessment.CategoryScore, 0, len(cats))
	for _, c := range cats {
		s := assessment.CategoryScore{Category: c, Label: assessment.CategoryLabel(c)}
		if n := counts[c]; n > 0 {
			s.Answered = n
			s.Score = Normalize(float64(sums[c]) / float64(n))
		}
		out = append(out, s)
	}
	return out, nil
}

// TopN orders scores by descending score, breaking ties by the instrument's
// declaration order, and returns the first n with 1-based ranks. n <= 0 or n
// larger than the input returns every score. The input is not modified.
func TopN(inst assessment.Instrument, scores []assessment.CategoryScore, n int) []assessment.CategoryScore {
	out := make([]assessment.CategoryScore, len(scores))
	copy(out, scores)

	order := func(c string) int {
		if idx, ok := inst.CategoryIndex(c); ok {
			return idx
		}
		return math.MaxInt
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return order(out[i].Category) < order(out[j].Category)
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Rank returns scores in declaration order with Rank filled from TopN.
func Rank(inst assessment.Instrument, scores []assessment.CategoryScore) []assessment.CategoryScore {
	ranked := TopN(inst, scores, 0)
	rankOf := make(map[string]int, len(ranked))
	for _, s := range ranked {
		rankOf[s.Category] = s.Rank
	}
	out := make([]assessment.CategoryScore, len(scores))
	copy(out, scores)
	for i := range out {
		out[i].Rank = rankOf[out[i].Category]
	}
	return out
}

// HollandCode joins the letters of the three highest RIASEC categories.
func HollandCode(riasec []assessment.CategoryScore) string {
	top := TopN(assessment.InstrumentRIASEC, riasec, 3)
	var b strings.Builder
	for _, s := range top {
		b.WriteString(s.Category)
	}
	return b.String()
}

func ScoreMap(scores []assessment.CategoryScore) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}
	out := make(map[string]float64, len(scores))
	for _, s := range scores {
		out[s.Category] = s.Score
	}
	return out
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
