package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/domain/scoring"
	"careerpath/internal/repository"
	"careerpath/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resultTopN = 3

type ReportInvalidator interface {
	InvalidateReports(ctx context.Context, userID uuid.UUID) error
}

type AttemptRecorder interface {
	AttemptCompleted(instrument string)
}

type AttemptNotifier interface {
	AssessmentCompleted(userID uuid.UUID, data ws.AssessmentCompletedData)
}

// AttemptState is an attempt together with its assessment and the answers
// recorded so far.
type AttemptState struct {
	Attempt    assessment.Attempt
	Assessment assessment.Assessment
	Responses  []assessment.Response
	Resumed    bool
}

type SubmitProgress struct {
	AttemptID uuid.UUID
	Answered  int
	Total     int
}

type AttemptResult struct {
	AttemptID   uuid.UUID
	Assessment  string
	Instrument  assessment.Instrument
	Scores      []assessment.CategoryScore
	Top         []assessment.CategoryScore
	HollandCode string
	CompletedAt time.Time
}

type AttemptUsecase interface {
	StartAttempt(ctx context.Context, userID uuid.UUID, slug string) (AttemptState, error)
	SubmitResponses(ctx context.Context, userID, attemptID uuid.UUID, responses []assessment.Response) (SubmitProgress, error)
	CompleteAttempt(ctx context.Context, userID, attemptID uuid.UUID) (AttemptResult, error)
	GetAttemptResult(ctx context.Context, userID, attemptID uuid.UUID) (AttemptResult, error)
}

type Attempt struct {
	assessments repository.AssessmentRepository
	attempts    repository.AttemptRepository
	reports     ReportInvalidator
	metrics     AttemptRecorder
	notifier    AttemptNotifier
	logger      *zap.Logger
	now         func() time.Time
}

func NewAttemptUsecase(
	assessments repository.AssessmentRepository,
	attempts repository.AttemptRepository,
	reports ReportInvalidator,
	metrics AttemptRecorder,
	notifier AttemptNotifier,
	logger *zap.Logger,
) *Attempt {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Attempt{
		assessments: assessments,
		attempts:    attempts,
		reports:     reports,
		metrics:     metrics,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// StartAttempt resumes the user's open attempt on the assessment or opens a
// new one.
func (u *Attempt) StartAttempt(ctx context.Context, userID uuid.UUID, slug string) (AttemptState, error) {
	if userID == uuid.Nil {
		return AttemptState{}, ErrUnauthorized
	}
	a, err := u.assessments.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return AttemptState{}, ErrAssessmentNotFound
		}
		return AttemptState{}, ErrInternal
	}

	open, err := u.attempts.FindOpen(ctx, userID, a.ID)
	switch {
	case err == nil:
		return u.resume(ctx, open, a)
	case !errors.Is(err, repository.ErrAttemptNotFound):
		return AttemptState{}, ErrInternal
	}

	created, err := u.attempts.Create(ctx, assessment.Attempt{
		UserID:       userID,
		AssessmentID: a.ID,
		StartedAt:    u.now().UTC(),
	})
	if err != nil {
		// A concurrent start won the race for the single open slot.
		if errors.Is(err, repository.ErrAttemptOpen) {
			open, err := u.attempts.FindOpen(ctx, userID, a.ID)
			if err != nil {
				return AttemptState{}, ErrInternal
			}
			return u.resume(ctx, open, a)
		}
		return AttemptState{}, ErrInternal
	}

	u.logger.Info("attempt started",
		zap.String("user_id", userID.String()),
		zap.String("attempt_id", created.ID.String()),
		zap.String("assessment", a.Slug),
	)
	return AttemptState{Attempt: created, Assessment: a, Responses: []assessment.Response{}}, nil
}

func (u *Attempt) resume(ctx context.Context, at assessment.Attempt, a assessment.Assessment) (AttemptState, error) {
	responses, err := u.attempts.Responses(ctx, at.ID)
	if err != nil {
		return AttemptState{}, ErrInternal
	}
	return AttemptState{Attempt: at, Assessment: a, Responses: latestResponses(responses), Resumed: true}, nil
}

func (u *Attempt) SubmitResponses(ctx context.Context, userID, attemptID uuid.UUID, responses []assessment.Response) (SubmitProgress, error) {
	if len(responses) == 0 {
		return SubmitProgress{}, ErrInvalidInput
	}
	for _, r := range responses {
		if r.QuestionID == uuid.Nil || !assessment.ValidLikert(r.Value) {
			return SubmitProgress{}, ErrInvalidInput
		}
	}

	at, a, err := u.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return SubmitProgress{}, err
	}
	if at.Completed() {
		return SubmitProgress{}, ErrAttemptCompleted
	}

	known := make(map[uuid.UUID]struct{}, len(a.Questions))
	for _, q := range a.Questions {
		known[q.ID] = struct{}{}
	}
	for _, r := range responses {
		if _, ok := known[r.QuestionID]; !ok {
			return SubmitProgress{}, ErrInvalidInput
		}
	}

	if err := u.attempts.UpsertResponses(ctx, at.ID, latestResponses(responses)); err != nil {
		if errors.Is(err, repository.ErrAttemptClosed) {
			return SubmitProgress{}, ErrAttemptCompleted
		}
		return SubmitProgress{}, ErrInternal
	}

	stored, err := u.attempts.Responses(ctx, at.ID)
	if err != nil {
		return SubmitProgress{}, ErrInternal
	}
	return SubmitProgress{AttemptID: at.ID, Answered: len(latestResponses(stored)), Total: len(a.Questions)}, nil
}

// CompleteAttempt scores a fully answered attempt and closes it.
func (u *Attempt) CompleteAttempt(ctx context.Context, userID, attemptID uuid.UUID) (AttemptResult, error) {
	at, a, err := u.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return AttemptResult{}, err
	}
	if at.Completed() {
		return AttemptResult{}, ErrAttemptCompleted
	}

	responses, err := u.attempts.Responses(ctx, at.ID)
	if err != nil {
		return AttemptResult{}, ErrInternal
	}
	responses = latestResponses(responses)
	if len(responses) < len(a.Questions) || len(a.Questions) == 0 {
		return AttemptResult{}, ErrAttemptIncomplete
	}

	scores, err := scoring.ScoreInstrument(a.Instrument, a.Questions, responses)
	if err != nil {
		u.logger.Error("attempt scoring failed", zap.String("attempt_id", at.ID.String()), zap.Error(err))
		return AttemptResult{}, ErrInternal
	}

	completedAt := u.now().UTC()
	if completedAt.Before(at.StartedAt) {
		completedAt = at.StartedAt
	}
	if err := u.attempts.Complete(ctx, at.ID, scores, completedAt); err != nil {
		if errors.Is(err, repository.ErrAttemptClosed) {
			return AttemptResult{}, ErrAttemptCompleted
		}
		return AttemptResult{}, ErrInternal
	}
	at.CompletedAt = &completedAt

	if u.reports != nil {
		if err := u.reports.InvalidateReports(ctx, userID); err != nil {
			u.logger.Warn("report cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	if u.metrics != nil {
		u.metrics.AttemptCompleted(string(a.Instrument))
	}

	res := buildResult(at, a, scores)
	if u.notifier != nil {
		u.notifier.AssessmentCompleted(userID, ws.AssessmentCompletedData{
			AttemptID:   at.ID,
			Assessment:  a.Slug,
			Instrument:  string(a.Instrument),
			HollandCode: res.HollandCode,
		})
	}

	u.logger.Info("attempt completed",
		zap.String("user_id", userID.String()),
		zap.String("attempt_id", at.ID.String()),
		zap.String("instrument", string(a.Instrument)),
	)
	return res, nil
}

func (u *Attempt) GetAttemptResult(ctx context.Context, userID, attemptID uuid.UUID) (AttemptResult, error) {
	at, a, err := u.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return AttemptResult{}, err
	}
	if !at.Completed() {
		return AttemptResult{}, ErrAttemptNotCompleted
	}
	scores, err := u.attempts.Scores(ctx, at.ID)
	if err != nil {
		return AttemptResult{}, ErrInternal
	}
	return buildResult(at, a, scores), nil
}

// ownedAttempt loads the attempt and its assessment, rejecting attempts that
// belong to someone else.
func (u *Attempt) ownedAttempt(ctx context.Context, userID, attemptID uuid.UUID) (assessment.Attempt, assessment.Assessment, error) {
	if userID == uuid.Nil {
		return assessment.Attempt{}, assessment.Assessment{}, ErrUnauthorized
	}
	at, err := u.attempts.Get(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return assessment.Attempt{}, assessment.Assessment{}, ErrAttemptNotFound
		}
		return assessment.Attempt{}, assessment.Assessment{}, ErrInternal
	}
	if at.UserID != userID {
		return assessment.Attempt{}, assessment.Assessment{}, ErrForbidden
	}
	a, err := u.assessments.GetByID(ctx, at.AssessmentID)
	if err != nil {
		return assessment.Attempt{}, assessment.Assessment{}, ErrInternal
	}
	return at, a, nil
}

func buildResult(at assessment.Attempt, a assessment.Assessment, scores []assessment.CategoryScore) AttemptResult {
	ordered := make([]assessment.CategoryScore, len(scores))
	copy(ordered, scores)
	sort.SliceStable(ordered, func(i, j int) bool {
		ii, _ := a.Instrument.CategoryIndex(ordered[i].Category)
		jj, _ := a.Instrument.CategoryIndex(ordered[j].Category)
		return ii < jj
	})

	res := AttemptResult{
		AttemptID:  at.ID,
		Assessment: a.Slug,
		Instrument: a.Instrument,
		Scores:     scoring.Rank(a.Instrument, ordered),
		Top:        scoring.TopN(a.Instrument, ordered, resultTopN),
	}
	if at.CompletedAt != nil {
		res.CompletedAt = at.CompletedAt.UTC()
	}
	if a.Instrument == assessment.InstrumentRIASEC {
		res.HollandCode = scoring.HollandCode(ordered)
	}
	return res
}

// latestResponses keeps the last value given per question, in first-seen
// order.
func latestResponses(in []assessment.Response) []assessment.Response {
	idx := make(map[uuid.UUID]int, len(in))
	out := make([]assessment.Response, 0, len(in))
	for _, r := range in {
		if i, ok := idx[r.QuestionID]; ok {
			out[i].Value = r.Value
			continue
		}
		idx[r.QuestionID] = len(out)
		out = append(out, r)
	}
	return out
}
