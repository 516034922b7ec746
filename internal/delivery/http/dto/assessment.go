package dto

import (
	"time"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/usecase"

	"github.com/ecodeclub/ekit/slice"
	"github.com/google/uuid"
)

type AssessmentSummary struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Instrument    string    `json:"instrument"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
}

type QuestionResponse struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Prompt   string    `json:"prompt"`
	Position int       `json:"position"`
}

type AssessmentDetail struct {
	AssessmentSummary
	Questions []QuestionResponse `json:"questions"`
}

func NewAssessmentSummary(a assessment.Assessment) AssessmentSummary {
	return AssessmentSummary{
		ID:            a.ID,
		Slug:          a.Slug,
		Instrument:    string(a.Instrument),
		Title:         a.Title,
		Description:   a.Description,
		QuestionCount: a.QuestionCount,
	}
}

func NewAssessmentSummaries(items []assessment.Assessment) []AssessmentSummary {
	return slice.Map(items, func(_ int, a assessment.Assessment) AssessmentSummary {
		return NewAssessmentSummary(a)
	})
}

// NewAssessmentDetail omits reverse-scoring flags so clients cannot tell
// which items are inverted.
func NewAssessmentDetail(a assessment.Assessment) AssessmentDetail {
	return AssessmentDetail{
		AssessmentSummary: NewAssessmentSummary(a),
		Questions: slice.Map(a.Questions, func(_ int, q assessment.Question) QuestionResponse {
			return QuestionResponse{ID: q.ID, Category: q.Category, Prompt: q.Prompt, Position: q.Position}
		}),
	}
}

type ResponseItem struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Value      int    `json:"value" validate:"min=1,max=5"`
}

type SubmitResponsesRequest struct {
	Responses []ResponseItem `json:"responses" validate:"required,min=1,max=200,dive"`
}

// ToDomain assumes the request passed validation.
func (r SubmitResponsesRequest) ToDomain() []assessment.Response {
	return slice.Map(r.Responses, func(_ int, it ResponseItem) assessment.Response {
		return assessment.Response{QuestionID: uuid.MustParse(it.QuestionID), Value: it.Value}
	})
}

type AnswerResponse struct {
	QuestionID uuid.UUID `json:"question_id"`
	Value      int       `json:"value"`
}

type AttemptResponse struct {
	ID          uuid.UUID        `json:"id"`
	Resumed     bool             `json:"resumed"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at"`
	Assessment  AssessmentDetail `json:"assessment"`
	Answers     []AnswerResponse `json:"answers"`
}

func NewAttemptResponse(s usecase.AttemptState) AttemptResponse {
	return AttemptResponse{
		ID:          s.Attempt.ID,
		Resumed:     s.Resumed,
		StartedAt:   s.Attempt.StartedAt,
		CompletedAt: s.Attempt.CompletedAt,
		Assessment:  NewAssessmentDetail(s.Assessment),
		Answers: slice.Map(s.Responses, func(_ int, r assessment.Response) AnswerResponse {
			return AnswerResponse{QuestionID: r.QuestionID, Value: r.Value}
		}),
	}
}

type ProgressResponse struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Answered  int       `json:"answered"`
	Total     int       `json:"total"`
}

func NewProgressResponse(p usecase.SubmitProgress) ProgressResponse {
	return ProgressResponse{AttemptID: p.AttemptID, Answered: p.Answered, Total: p.Total}
}

type AttemptResultResponse struct {
	AttemptID   uuid.UUID                  `json:"attempt_id"`
	Assessment  string                     `json:"assessment"`
	Instrument  string                     `json:"instrument"`
	HollandCode string                     `json:"holland_code,omitempty"`
	Scores      []assessment.CategoryScore `json:"scores"`
	Top         []assessment.CategoryScore `json:"top"`
	CompletedAt time.Time                  `json:"completed_at"`
}

func NewAttemptResultResponse(r usecase.AttemptResult) AttemptResultResponse {
	return AttemptResultResponse{
		AttemptID:   r.AttemptID,
		Assessment:  r.Assessment,
		Instrument:  string(r.Instrument),
		HollandCode: r.HollandCode,
		Scores:      r.Scores,
		Top:         r.Top,
		CompletedAt: r.CompletedAt,
	}
}
