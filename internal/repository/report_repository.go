package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"careerpath/internal/database"
	"careerpath/internal/domain/report"

	"github.com/google/uuid"
)

var ErrReportNotFound = errors.New("career report not found")

type ReportRepository interface {
	Save(ctx context.Context, rep report.Report) (uuid.UUID, error)
	Latest(ctx context.Context, userID uuid.UUID) (report.Report, error)
}

type PostgresReportRepository struct {
	db database.DB
}

func NewPostgresReportRepository(db database.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// Save stores the report snapshot and its ranked careers in one transaction.
// A report without an ID gets a fresh one; the stored payload carries it.
func (r *PostgresReportRepository) Save(ctx context.Context, rep report.Report) (uuid.UUID, error) {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	id := rep.ID

	payload, err := json.Marshal(rep)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode report: %w", err)
	}

	err = database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO career_reports (id, user_id, holland_code, payload, generated_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, rep.UserID, rep.HollandCode, payload, rep.GeneratedAt,
		)
		if err != nil {
			return err
		}
		for _, c := range rep.Careers {
			_, err := tx.Exec(ctx,
				`INSERT INTO career_recommendations
				   (report_id, rank, onetsoc_code, title, score, interest_fit, skills_fit, personality_fit)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				id, c.Rank, c.Occupation.Code, c.Occupation.Title, c.Score,
				c.InterestFit, c.SkillsFit, c.PersonalityFit,
			)
			if err != nil {
				return fmt.Errorf("insert recommendation %d: %w", c.Rank, err)
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *PostgresReportRepository) Latest(ctx context.Context, userID uuid.UUID) (report.Report, error) {
	var payload []byte
	row := r.db.QueryRow(ctx,
		`SELECT payload FROM career_reports WHERE user_id = $1 ORDER BY generated_at DESC LIMIT 1`,
		userID,
	)
	if err := row.Scan(&payload); err != nil {
		if database.IsNoRows(err) {
			return report.Report{}, ErrReportNotFound
		}
		return report.Report{}, err
	}

	var rep report.Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		return report.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return rep, nil
}
