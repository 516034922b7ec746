package scoring

import (
	"testing"

	"careerpath/internal/domain/assessment"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riasecQuestions(perCategory int) []assessment.Question {
	out := make([]assessment.Question, 0, 6*perCategory)
	pos := 1
	for _, c := range assessment.InstrumentRIASEC.Categories() {
		for i := 0; i < perCategory; i++ {
			out = append(out, assessment.Question{ID: uuid.New(), Category: c, Position: pos})
			pos++
		}
	}
	return out
}

func answerAll(qs []assessment.Question, value func(q assessment.Question) int) []assessment.Response {
	out := make([]assessment.Response, 0, len(qs))
	for _, q := range qs {
		out = append(out, assessment.Response{QuestionID: q.ID, Value: value(q)})
	}
	return out
}

func TestNormalize(t *testing.T) {
	cases := map[float64]float64{
		1:    0,
		5:    100,
		3:    50,
		4.5:  87.5,
		2.33: 33.25,
		0:    0,
		7:    100,
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%v)", in)
	}
}

func TestScoreInstrument_AveragesPerCategory(t *testing.T) {
	qs := riasecQuestions(2)
	values := map[string]int{"R": 5, "I": 4, "A": 3, "S": 2, "E": 1, "C": 3}
	resp := answerAll(qs, func(q assessment.Question) int { return values[q.Category] })

	got, err := ScoreInstrument(assessment.InstrumentRIASEC, qs, resp)
	require.NoError(t, err)

	want := []assessment.CategoryScore{
		{Category: "R", Label: "Realistic", Score: 100, Answered: 2},
		{Category: "I", Label: "Investigative", Score: 75, Answered: 2},
		{Category: "A", Label: "Artistic", Score: 50, Answered: 2},
		{Category: "S", Label: "Social", Score: 25, Answered: 2},
		{Category: "E", Label: "Enterprising", Score: 0, Answered: 2},
		{Category: "C", Label: "Conventional", Score: 50, Answered: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreInstrument_ReverseScored(t *testing.T) {
	q1 := assessment.Question{ID: uuid.New(), Category: "openness"}
	q2 := assessment.Question{ID: uuid.New(), Category: "openness", ReverseScored: true}

	got, err := ScoreInstrument(assessment.InstrumentPersonality,
		[]assessment.Question{q1, q2},
		[]assessment.Response{{QuestionID: q1.ID, Value: 5}, {QuestionID: q2.ID, Value: 1}},
	)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[0].Score)
}

func TestScoreInstrument_MissingCategoryScoresZero(t *testing.T) {
	q := assessment.Question{ID: uuid.New(), Category: "I"}
	got, err := ScoreInstrument(assessment.InstrumentRIASEC,
		[]assessment.Question{q, {ID: uuid.New(), Category: "R"}},
		[]assessment.Response{{QuestionID: q.ID, Value: 4}},
	)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, 0.0, got[0].Score)
	assert.Equal(t, 0, got[0].Answered)
	assert.Equal(t, 75.0, got[1].Score)
}

func TestScoreInstrument_LaterResponseWins(t *testing.T) {
	q := assessment.Question{ID: uuid.New(), Category: "R"}
	got, err := ScoreInstrument(assessment.InstrumentRIASEC,
		[]assessment.Question{q},
		[]assessment.Response{{QuestionID: q.ID, Value: 1}, {QuestionID: q.ID, Value: 5}},
	)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got[0].Score)
	assert.Equal(t, 1, got[0].Answered)
}

func TestScoreInstrument_Errors(t *testing.T) {
	q := assessment.Question{ID: uuid.New(), Category: "R"}

	_, err := ScoreInstrument(assessment.InstrumentRIASEC, []assessment.Question{q},
		[]assessment.Response{{QuestionID: uuid.New(), Value: 3}})
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	_, err = ScoreInstrument(assessment.InstrumentRIASEC, []assessment.Question{q},
		[]assessment.Response{{QuestionID: q.ID, Value: 6}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = ScoreInstrument(assessment.InstrumentSkills, []assessment.Question{q}, nil)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = ScoreInstrument("mbti", nil, nil)
	assert.ErrorIs(t, err, assessment.ErrUnknownInstrument)
}

func TestTopN_TiesFollowDeclarationOrder(t *testing.T) {
	scores := []assessment.CategoryScore{
		{Category: "R", Score: 50},
		{Category: "I", Score: 80},
		{Category: "A", Score: 50},
		{Category: "S", Score: 80},
		{Category: "E", Score: 10},
		{Category: "C", Score: 50},
	}

	top := TopN(assessment.InstrumentRIASEC, scores, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"I", "S", "R"}, []string{top[0].Category, top[1].Category, top[2].Category})
	assert.Equal(t, []int{1, 2, 3}, []int{top[0].Rank, top[1].Rank, top[2].Rank})
	assert.Equal(t, 0, scores[0].Rank, "input must not be modified")
}

func TestTopN_Bounds(t *testing.T) {
	scores := []assessment.CategoryScore{{Category: "R", Score: 1}, {Category: "I", Score: 2}}
	assert.Len(t, TopN(assessment.InstrumentRIASEC, scores, 0), 2)
	assert.Len(t, TopN(assessment.InstrumentRIASEC, scores, 10), 2)
	assert.Empty(t, TopN(assessment.InstrumentRIASEC, nil, 3))
}

func TestRank_KeepsDeclarationOrder(t *testing.T) {
	scores := []assessment.CategoryScore{
		{Category: "openness", Score: 10},
		{Category: "conscientiousness", Score: 90},
	}
	got := Rank(assessment.InstrumentPersonality, scores)
	assert.Equal(t, "openness", got[0].Category)
	assert.Equal(t, 2, got[0].Rank)
	assert.Equal(t, 1, got[1].Rank)
}

func TestHollandCode(t *testing.T) {
	scores := []assessment.CategoryScore{
		{Category: "R", Score: 90},
		{Category: "I", Score: 70},
		{Category: "A", Score: 20},
		{Category: "S", Score: 70},
		{Category: "E", Score: 30},
		{Category: "C", Score: 85},
	}
	assert.Equal(t, "RCI", HollandCode(scores))
	assert.Equal(t, "", HollandCode(nil))
}

func TestScoreMap(t *testing.T) {
	assert.Nil(t, ScoreMap(nil))
	m := ScoreMap([]assessment.CategoryScore{{Category: "R", Score: 12.5}})
	assert.Equal(t, map[string]float64{"R": 12.5}, m)
}
