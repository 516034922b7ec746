package repository

import (
	"context"
	"errors"
	"time"

	"careerpath/internal/database"
	"careerpath/internal/domain/assessment"

	"github.com/ecodeclub/ekit/slice"
	"github.com/google/uuid"
)

var (
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrAttemptClosed   = errors.New("attempt already completed")
	ErrAttemptOpen     = errors.New("open attempt already exists")
)

type AttemptRepository interface {
	FindOpen(ctx context.Context, userID, assessmentID uuid.UUID) (assessment.Attempt, error)
	Create(ctx context.Context, a assessment.Attempt) (assessment.Attempt, error)
	Get(ctx context.Context, id uuid.UUID) (assessment.Attempt, error)
	UpsertResponses(ctx context.Context, attemptID uuid.UUID, responses []assessment.Response) error
	Responses(ctx context.Context, attemptID uuid.UUID) ([]assessment.Response, error)
	Complete(ctx context.Context, attemptID uuid.UUID, scores []assessment.CategoryScore, completedAt time.Time) error
	Scores(ctx context.Context, attemptID uuid.UUID) ([]assessment.CategoryScore, error)
	LatestCompleted(ctx context.Context, userID uuid.UUID, inst assessment.Instrument) (assessment.Attempt, []assessment.CategoryScore, error)
}

type PostgresAttemptRepository struct {
	db database.DB
}

func NewPostgresAttemptRepository(db database.DB) *PostgresAttemptRepository {
	return &PostgresAttemptRepository{db: db}
}

const attemptSelect = `SELECT t.id, t.user_id, t.assessment_id, a.instrument, t.started_at, t.completed_at
	FROM attempts t
	JOIN assessments a ON a.id = t.assessment_id `

func scanAttempt(row database.Row) (assessment.Attempt, error) {
	var at assessment.Attempt
	var inst string
	if err := row.Scan(&at.ID, &at.UserID, &at.AssessmentID, &inst, &at.StartedAt, &at.CompletedAt); err != nil {
		if database.IsNoRows(err) {
			return assessment.Attempt{}, ErrAttemptNotFound
		}
		return assessment.Attempt{}, err
	}
	at.Instrument = assessment.Instrument(inst)
	return at, nil
}

func (r *PostgresAttemptRepository) FindOpen(ctx context.Context, userID, assessmentID uuid.UUID) (assessment.Attempt, error) {
	return scanAttempt(r.db.QueryRow(ctx,
		attemptSelect+`WHERE t.user_id = $1 AND t.assessment_id = $2 AND t.completed_at IS NULL
		ORDER BY t.started_at DESC
		LIMIT 1`,
		userID, assessmentID,
	))
}

func (r *PostgresAttemptRepository) Create(ctx context.Context, a assessment.Attempt) (assessment.Attempt, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO attempts (id, user_id, assessment_id, started_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.UserID, a.AssessmentID, a.StartedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return assessment.Attempt{}, ErrAttemptOpen
		}
		return assessment.Attempt{}, err
	}
	return r.Get(ctx, a.ID)
}

func (r *PostgresAttemptRepository) Get(ctx context.Context, id uuid.UUID) (assessment.Attempt, error) {
	return scanAttempt(r.db.QueryRow(ctx, attemptSelect+`WHERE t.id = $1`, id))
}

// lockOpen locks the attempt row for the rest of tx and fails with
// ErrAttemptClosed once it has been completed.
func lockOpen(ctx context.Context, tx database.Tx, attemptID uuid.UUID) error {
	var completedAt *time.Time
	row := tx.QueryRow(ctx, `SELECT completed_at FROM attempts WHERE id = $1 FOR UPDATE`, attemptID)
	if err := row.Scan(&completedAt); err != nil {
		if database.IsNoRows(err) {
			return ErrAttemptNotFound
		}
		return err
	}
	if completedAt != nil {
		return ErrAttemptClosed
	}
	return nil
}

func (r *PostgresAttemptRepository) UpsertResponses(ctx context.Context, attemptID uuid.UUID, responses []assessment.Response) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := lockOpen(ctx, tx, attemptID); err != nil {
			return err
		}
		for _, resp := range responses {
			_, err := tx.Exec(ctx,
				`INSERT INTO responses (attempt_id, question_id, value, answered_at)
				 VALUES ($1, $2, $3, now())
				 ON CONFLICT (attempt_id, question_id)
				 DO UPDATE SET value = EXCLUDED.value, answered_at = EXCLUDED.answered_at`,
				attemptID, resp.QuestionID, resp.Value,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

type responseRow struct {
	QuestionID uuid.UUID
	Value      int16
}

func (r *PostgresAttemptRepository) Responses(ctx context.Context, attemptID uuid.UUID) ([]assessment.Response, error) {
	rows, err := r.db.Query(ctx,
		`SELECT question_id, value FROM responses WHERE attempt_id = $1 ORDER BY answered_at ASC`,
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raw := make([]responseRow, 0)
	for rows.Next() {
		var rr responseRow
		if err := rows.Scan(&rr.QuestionID, &rr.Value); err != nil {
			return nil, err
		}
		raw = append(raw, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slice.Map(raw, func(_ int, src responseRow) assessment.Response {
		return assessment.Response{QuestionID: src.QuestionID, Value: int(src.Value)}
	}), nil
}

func (r *PostgresAttemptRepository) Complete(ctx context.Context, attemptID uuid.UUID, scores []assessment.CategoryScore, completedAt time.Time) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := lockOpen(ctx, tx, attemptID); err != nil {
			return err
		}
		for _, s := range scores {
			_, err := tx.Exec(ctx,
				`INSERT INTO attempt_scores (attempt_id, category, score, answered) VALUES ($1, $2, $3, $4)`,
				attemptID, s.Category, s.Score, s.Answered,
			)
			if err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx,
			`UPDATE attempts SET completed_at = GREATEST($2, started_at) WHERE id = $1`,
			attemptID, completedAt,
		)
		return err
	})
}

func (r *PostgresAttemptRepository) Scores(ctx context.Context, attemptID uuid.UUID) ([]assessment.CategoryScore, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, score::float8, answered FROM attempt_scores WHERE attempt_id = $1`,
		attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.CategoryScore, 0)
	for rows.Next() {
		var s assessment.CategoryScore
		if err := rows.Scan(&s.Category, &s.Score, &s.Answered); err != nil {
			return nil, err
		}
		s.Label = assessment.CategoryLabel(s.Category)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAttemptRepository) LatestCompleted(ctx context.Context, userID uuid.UUID, inst assessment.Instrument) (assessment.Attempt, []assessment.CategoryScore, error) {
	at, err := scanAttempt(r.db.QueryRow(ctx,
		attemptSelect+`WHERE t.user_id = $1 AND a.instrument = $2 AND t.completed_at IS NOT NULL
		ORDER BY t.completed_at DESC
		LIMIT 1`,
		userID, string(inst),
	))
	if err != nil {
		return assessment.Attempt{}, nil, err
	}
	scores, err := r.Scores(ctx, at.ID)
	if err != nil {
		return assessment.Attempt{}, nil, err
	}
	return at, scores, nil
}
