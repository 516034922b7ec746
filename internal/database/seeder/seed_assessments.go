package seeder

import (
	"context"
	"fmt"

	"careerpath/internal/catalog"
	"careerpath/internal/database"
)

type AssessmentsSeeder struct{}

func (AssessmentsSeeder) Name() string { return "assessments" }

func (AssessmentsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "assessments", "id", "slug", "instrument", "title", "description"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "questions", "id", "assessment_id", "category", "prompt", "reverse_scored", "position"); err != nil {
		return err
	}

	defs, err := catalog.Assessments()
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, d := range defs {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO assessments (id, slug, instrument, title, description)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4)
				 ON CONFLICT (slug) DO NOTHING`,
				d.Slug, d.Instrument, d.Title, d.Description,
			)
			if err != nil {
				return fmt.Errorf("insert assessment %s: %w", d.Slug, err)
			}

			var id string
			if err := tx.QueryRow(ctx, `SELECT id::text FROM assessments WHERE slug = $1`, d.Slug).Scan(&id); err != nil {
				return fmt.Errorf("lookup assessment %s: %w", d.Slug, err)
			}

			for i, q := range d.Questions {
				_, err := tx.Exec(
					ctx,
					`INSERT INTO questions (id, assessment_id, category, prompt, reverse_scored, position)
					 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
					 ON CONFLICT (assessment_id, position) DO NOTHING`,
					id, q.Category, q.Prompt, q.Reverse, i+1,
				)
				if err != nil {
					return fmt.Errorf("insert question %s/%d: %w", d.Slug, i+1, err)
				}
			}
		}
		return nil
	})
}
