package repository

import (
	"context"
	"errors"

	"careerpath/internal/database"
	"careerpath/internal/domain/assessment"

	"github.com/google/uuid"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type AssessmentRepository interface {
	List(ctx context.Context) ([]assessment.Assessment, error)
	GetBySlug(ctx context.Context, slug string) (assessment.Assessment, error)
	GetByID(ctx context.Context, id uuid.UUID) (assessment.Assessment, error)
}

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

func (r *PostgresAssessmentRepository) List(ctx context.Context) ([]assessment.Assessment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.slug, a.instrument, a.title, a.description, a.created_at, COUNT(q.id)
		 FROM assessments a
		 LEFT JOIN questions q ON q.assessment_id = a.id
		 GROUP BY a.id
		 ORDER BY a.created_at ASC, a.slug ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Assessment, 0)
	for rows.Next() {
		var a assessment.Assessment
		var inst string
		if err := rows.Scan(&a.ID, &a.Slug, &inst, &a.Title, &a.Description, &a.CreatedAt, &a.QuestionCount); err != nil {
			return nil, err
		}
		a.Instrument = assessment.Instrument(inst)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAssessmentRepository) GetBySlug(ctx context.Context, slug string) (assessment.Assessment, error) {
	return r.get(ctx, `WHERE slug = $1`, slug)
}

func (r *PostgresAssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (assessment.Assessment, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PostgresAssessmentRepository) get(ctx context.Context, where string, arg any) (assessment.Assessment, error) {
	var a assessment.Assessment
	var inst string
	row := r.db.QueryRow(ctx,
		`SELECT id, slug, instrument, title, description, created_at FROM assessments `+where,
		arg,
	)
	if err := row.Scan(&a.ID, &a.Slug, &inst, &a.Title, &a.Description, &a.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, err
	}
	a.Instrument = assessment.Instrument(inst)

	qs, err := r.questions(ctx, a.ID)
	if err != nil {
		return assessment.Assessment{}, err
	}
	a.Questions = qs
	a.QuestionCount = len(qs)
	return a, nil
}

func (r *PostgresAssessmentRepository) questions(ctx context.Context, assessmentID uuid.UUID) ([]assessment.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, assessment_id, category, prompt, reverse_scored, position
		 FROM questions
		 WHERE assessment_id = $1
		 ORDER BY position ASC`,
		assessmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assessment.Question, 0)
	for rows.Next() {
		var q assessment.Question
		if err := rows.Scan(&q.ID, &q.AssessmentID, &q.Category, &q.Prompt, &q.ReverseScored, &q.Position); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
