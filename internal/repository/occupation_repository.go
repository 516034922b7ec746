package repository

import (
	"context"
	"fmt"

	"careerpath/internal/database"
	"careerpath/internal/domain/career"
)

// RatingTable names one of the O*NET descriptor tables.
type RatingTable string

const (
	TableInterests  RatingTable = "onet_interests"
	TableSkills     RatingTable = "onet_skills"
	TableWorkStyles RatingTable = "onet_work_styles"
)

func (t RatingTable) valid() bool {
	switch t {
	case TableInterests, TableSkills, TableWorkStyles:
		return true
	default:
		return false
	}
}

type OnetOccupation struct {
	Code        string
	Title       string
	Description string
}

type OnetRating struct {
	Code      string
	ElementID string
	ScaleID   string
	Value     float64
}

type OnetJobZone struct {
	Code    string
	JobZone int
}

type OccupationRepository interface {
	List(ctx context.Context) ([]career.Occupation, error)
	Get(ctx context.Context, code string) (career.Occupation, error)
	Count(ctx context.Context) (int, error)
}

type OnetImportRepository interface {
	UpsertOccupations(ctx context.Context, rows []OnetOccupation) (int, error)
	UpsertRatings(ctx context.Context, table RatingTable, rows []OnetRating) (int, error)
	UpsertJobZones(ctx context.Context, rows []OnetJobZone) (int, error)
}

type OnetEnrichmentRepository interface {
	PendingEnrichment(ctx context.Context, limit int) ([]OnetOccupation, error)
	UpdateEnrichment(ctx context.Context, code, description string, sampleTitles []string) error
}

type PostgresOccupationRepository struct {
	db database.DB
}

func NewPostgresOccupationRepository(db database.DB) *PostgresOccupationRepository {
	return &PostgresOccupationRepository{db: db}
}

// profile sources read with fixed scale predicates.
var profileQueries = []struct {
	table     RatingTable
	scale     string
	elements  map[string]string
	normalize func(float64) float64
	assign    func(o *career.Occupation, p map[string]float64)
}{
	{TableInterests, career.ScaleOccupationalInterest, career.InterestElements, career.NormalizeInterest,
		func(o *career.Occupation, p map[string]float64) { o.Interests = p }},
	{TableSkills, career.ScaleImportance, career.SkillElements, career.NormalizeImportance,
		func(o *career.Occupation, p map[string]float64) { o.Skills = p }},
	{TableWorkStyles, career.ScaleImportance, career.WorkStyleElements, career.NormalizeImportance,
		func(o *career.Occupation, p map[string]float64) { o.Styles = p }},
}

func (r *PostgresOccupationRepository) List(ctx context.Context) ([]career.Occupation, error) {
	return r.load(ctx, "")
}

func (r *PostgresOccupationRepository) Get(ctx context.Context, code string) (career.Occupation, error) {
	occs, err := r.load(ctx, code)
	if err != nil {
		return career.Occupation{}, err
	}
	if len(occs) == 0 {
		return career.Occupation{}, career.ErrNotFound
	}
	return occs[0], nil
}

func (r *PostgresOccupationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM onet_occupations`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// load reads occupations and their profiles. An empty code loads all of them.
func (r *PostgresOccupationRepository) load(ctx context.Context, code string) ([]career.Occupation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT o.onetsoc_code, o.title, o.description, o.sample_titles, COALESCE(z.job_zone, 0)
		 FROM onet_occupations o
		 LEFT JOIN onet_job_zones z ON z.onetsoc_code = o.onetsoc_code
		 WHERE ($1 = '' OR o.onetsoc_code = $1)
		 ORDER BY o.onetsoc_code ASC`,
		code,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCode := map[string]*career.Occupation{}
	order := make([]string, 0)
	for rows.Next() {
		var o career.Occupation
		var zone int16
		if err := rows.Scan(&o.Code, &o.Title, &o.Description, &o.SampleTitles, &zone); err != nil {
			return nil, err
		}
		o.JobZone = int(zone)
		byCode[o.Code] = &o
		order = append(order, o.Code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return []career.Occupation{}, nil
	}

	for _, q := range profileQueries {
		ratings, err := r.ratings(ctx, q.table, q.scale, code)
		if err != nil {
			return nil, err
		}
		byOcc := map[string][]career.ElementRating{}
		for _, rt := range ratings {
			byOcc[rt.Code] = append(byOcc[rt.Code], rt)
		}
		for c, rs := range byOcc {
			if o, ok := byCode[c]; ok {
				q.assign(o, career.AggregateProfile(rs, q.elements, q.normalize))
			}
		}
	}

	out := make([]career.Occupation, 0, len(order))
	for _, c := range order {
		o := byCode[c]
		if len(o.Interests) == 0 && len(o.Skills) == 0 && len(o.Styles) == 0 {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *PostgresOccupationRepository) ratings(ctx context.Context, table RatingTable, scale, code string) ([]career.ElementRating, error) {
	if !table.valid() {
		return nil, fmt.Errorf("unknown rating table %q", table)
	}
	rows, err := r.db.Query(ctx,
		`SELECT onetsoc_code, element_id, data_value::float8
		 FROM `+string(table)+`
		 WHERE scale_id = $1 AND ($2 = '' OR onetsoc_code = $2)`,
		scale, code,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]career.ElementRating, 0)
	for rows.Next() {
		var rt career.ElementRating
		if err := rows.Scan(&rt.Code, &rt.ElementID, &rt.Value); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOccupationRepository) UpsertOccupations(ctx context.Context, rows []OnetOccupation) (int, error) {
	n := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, o := range rows {
			affected, err := tx.Exec(ctx,
				`INSERT INTO onet_occupations (onetsoc_code, title, description)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (onetsoc_code)
				 DO UPDATE SET title = EXCLUDED.title,
				   description = CASE WHEN EXCLUDED.description <> '' THEN EXCLUDED.description ELSE onet_occupations.description END,
				   updated_at = now()`,
				o.Code, o.Title, o.Description,
			)
			if err != nil {
				return fmt.Errorf("upsert occupation %s: %w", o.Code, err)
			}
			n += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresOccupationRepository) UpsertRatings(ctx context.Context, table RatingTable, rows []OnetRating) (int, error) {
	if !table.valid() {
		return 0, fmt.Errorf("unknown rating table %q", table)
	}
	n := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, rt := range rows {
			affected, err := tx.Exec(ctx,
				`INSERT INTO `+string(table)+` (onetsoc_code, element_id, scale_id, data_value)
				 SELECT $1, $2, $3, $4
				 WHERE EXISTS (SELECT 1 FROM onet_occupations WHERE onetsoc_code = $1)
				 ON CONFLICT (onetsoc_code, element_id, scale_id)
				 DO UPDATE SET data_value = EXCLUDED.data_value`,
				rt.Code, rt.ElementID, rt.ScaleID, rt.Value,
			)
			if err != nil {
				return fmt.Errorf("upsert %s %s/%s: %w", table, rt.Code, rt.ElementID, err)
			}
			n += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresOccupationRepository) UpsertJobZones(ctx context.Context, rows []OnetJobZone) (int, error) {
	n := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		for _, z := range rows {
			affected, err := tx.Exec(ctx,
				`INSERT INTO onet_job_zones (onetsoc_code, job_zone)
				 SELECT $1, $2
				 WHERE EXISTS (SELECT 1 FROM onet_occupations WHERE onetsoc_code = $1)
				 ON CONFLICT (onetsoc_code) DO UPDATE SET job_zone = EXCLUDED.job_zone`,
				z.Code, z.JobZone,
			)
			if err != nil {
				return fmt.Errorf("upsert job zone %s: %w", z.Code, err)
			}
			n += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresOccupationRepository) PendingEnrichment(ctx context.Context, limit int) ([]OnetOccupation, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT onetsoc_code, title, description
		 FROM onet_occupations
		 WHERE description = '' AND enriched_at IS NULL
		 ORDER BY onetsoc_code ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OnetOccupation, 0)
	for rows.Next() {
		var o OnetOccupation
		if err := rows.Scan(&o.Code, &o.Title, &o.Description); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOccupationRepository) UpdateEnrichment(ctx context.Context, code, description string, sampleTitles []string) error {
	if sampleTitles == nil {
		sampleTitles = []string{}
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE onet_occupations
		 SET description = $2, sample_titles = $3, enriched_at = now(), updated_at = now()
		 WHERE onetsoc_code = $1`,
		code, description, sampleTitles,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return career.ErrNotFound
	}
	return nil
}
