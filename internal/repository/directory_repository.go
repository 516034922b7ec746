package repository

import (
	"context"
	"strings"

	"careerpath/internal/database"
	"careerpath/internal/domain/directory"

	"github.com/google/uuid"
)

type UniversityRepository interface {
	List(ctx context.Context, p directory.ListParams, sort directory.Sort) ([]directory.University, int, error)
	Get(ctx context.Context, id uuid.UUID) (directory.University, error)
	Create(ctx context.Context, u directory.University) (directory.University, error)
	Update(ctx context.Context, u directory.University) (directory.University, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CompanyRepository interface {
	List(ctx context.Context, p directory.ListParams, sort directory.Sort) ([]directory.Company, int, error)
	Get(ctx context.Context, id uuid.UUID) (directory.Company, error)
	Create(ctx context.Context, c directory.Company) (directory.Company, error)
	Update(ctx context.Context, c directory.Company) (directory.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func mapWriteErr(err error) error {
	if database.IsUniqueViolation(err) {
		return directory.ErrDuplicate
	}
	if database.IsNoRows(err) {
		return directory.ErrNotFound
	}
	return err
}

// likePattern escapes LIKE wildcards so q matches literally.
func likePattern(q string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
}

func deleteByID(ctx context.Context, db database.DB, table string, id uuid.UUID) error {
	affected, err := db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return directory.ErrNotFound
	}
	return nil
}

type PostgresUniversityRepository struct {
	db database.DB
}

func NewPostgresUniversityRepository(db database.DB) *PostgresUniversityRepository {
	return &PostgresUniversityRepository{db: db}
}

const universityColumns = `id, name, country, city, website, world_rank, created_at, updated_at`

func scanUniversity(row database.Row) (directory.University, error) {
	var u directory.University
	err := row.Scan(&u.ID, &u.Name, &u.Country, &u.City, &u.Website, &u.WorldRank, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List matches q against name and city. sort must come from
// directory.ListParams.Normalize.
func (r *PostgresUniversityRepository) List(ctx context.Context, p directory.ListParams, sort directory.Sort) ([]directory.University, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM universities
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%'`,
		likePattern(p.Query),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+universityColumns+` FROM universities
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR city ILIKE '%' || $1 || '%'
		 ORDER BY `+sort.SQL()+`, id ASC
		 LIMIT $2 OFFSET $3`,
		likePattern(p.Query), p.Limit, p.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]directory.University, 0)
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresUniversityRepository) Get(ctx context.Context, id uuid.UUID) (directory.University, error) {
	u, err := scanUniversity(r.db.QueryRow(ctx, `SELECT `+universityColumns+` FROM universities WHERE id = $1`, id))
	if err != nil {
		return directory.University{}, mapWriteErr(err)
	}
	return u, nil
}

func (r *PostgresUniversityRepository) Create(ctx context.Context, u directory.University) (directory.University, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	created, err := scanUniversity(r.db.QueryRow(ctx,
		`INSERT INTO universities (id, name, country, city, website, world_rank)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+universityColumns,
		u.ID, u.Name, u.Country, u.City, u.Website, u.WorldRank,
	))
	if err != nil {
		return directory.University{}, mapWriteErr(err)
	}
	return created, nil
}

func (r *PostgresUniversityRepository) Update(ctx context.Context, u directory.University) (directory.University, error) {
	updated, err := scanUniversity(r.db.QueryRow(ctx,
		`UPDATE universities
		 SET name = $2, country = $3, city = $4, website = $5, world_rank = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+universityColumns,
		u.ID, u.Name, u.Country, u.City, u.Website, u.WorldRank,
	))
	if err != nil {
		return directory.University{}, mapWriteErr(err)
	}
	return updated, nil
}

func (r *PostgresUniversityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "universities", id)
}

type PostgresCompanyRepository struct {
	db database.DB
}

func NewPostgresCompanyRepository(db database.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const companyColumns = `id, name, industry, headquarters, website, created_at, updated_at`

func scanCompany(row database.Row) (directory.Company, error) {
	var c directory.Company
	err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Headquarters, &c.Website, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List matches q against name and industry.
func (r *PostgresCompanyRepository) List(ctx context.Context, p directory.ListParams, sort directory.Sort) ([]directory.Company, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM companies
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR industry ILIKE '%' || $1 || '%'`,
		likePattern(p.Query),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+companyColumns+` FROM companies
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR industry ILIKE '%' || $1 || '%'
		 ORDER BY `+sort.SQL()+`, id ASC
		 LIMIT $2 OFFSET $3`,
		likePattern(p.Query), p.Limit, p.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]directory.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresCompanyRepository) Get(ctx context.Context, id uuid.UUID) (directory.Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		return directory.Company{}, mapWriteErr(err)
	}
	return c, nil
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, c directory.Company) (directory.Company, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	created, err := scanCompany(r.db.QueryRow(ctx,
		`INSERT INTO companies (id, name, industry, headquarters, website)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+companyColumns,
		c.ID, c.Name, c.Industry, c.Headquarters, c.Website,
	))
	if err != nil {
		return directory.Company{}, mapWriteErr(err)
	}
	return created, nil
}

func (r *PostgresCompanyRepository) Update(ctx context.Context, c directory.Company) (directory.Company, error) {
	updated, err := scanCompany(r.db.QueryRow(ctx,
		`UPDATE companies
		 SET name = $2, industry = $3, headquarters = $4, website = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+companyColumns,
		c.ID, c.Name, c.Industry, c.Headquarters, c.Website,
	))
	if err != nil {
		return directory.Company{}, mapWriteErr(err)
	}
	return updated, nil
}

func (r *PostgresCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "companies", id)
}
