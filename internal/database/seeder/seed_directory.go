package seeder

import (
	"context"
	"fmt"

	"careerpath/internal/database"
)

type UniversitiesSeeder struct{}

func (UniversitiesSeeder) Name() string { return "universities" }

func (UniversitiesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "universities", "id", "name", "country", "city", "website", "world_rank"); err != nil {
		return err
	}

	items := []struct {
		Name    string
		Country string
		City    string
		Website string
		Rank    int
	}{
		{"Massachusetts Institute of Technology", "United States", "Cambridge", "https://www.mit.edu", 1},
		{"University of Cambridge", "United Kingdom", "Cambridge", "https://www.cam.ac.uk", 2},
		{"University of Oxford", "United Kingdom", "Oxford", "https://www.ox.ac.uk", 3},
		{"Stanford University", "United States", "Stanford", "https://www.stanford.edu", 6},
		{"ETH Zurich", "Switzerland", "Zurich", "https://ethz.ch", 7},
		{"National University of Singapore", "Singapore", "Singapore", "https://nus.edu.sg", 8},
		{"University of Tokyo", "Japan", "Tokyo", "https://www.u-tokyo.ac.jp", 32},
		{"University of Toronto", "Canada", "Toronto", "https://www.utoronto.ca", 25},
		{"University of Melbourne", "Australia", "Melbourne", "https://www.unimelb.edu.au", 13},
		{"Universitas Indonesia", "Indonesia", "Depok", "https://www.ui.ac.id", 206},
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO universities (id, name, country, city, website, world_rank)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
				 ON CONFLICT (name) DO NOTHING`,
				it.Name, it.Country, it.City, it.Website, it.Rank,
			)
			if err != nil {
				return fmt.Errorf("insert university %s: %w", it.Name, err)
			}
		}
		return nil
	})
}

type CompaniesSeeder struct{}

func (CompaniesSeeder) Name() string { return "companies" }

func (CompaniesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "companies", "id", "name", "industry", "headquarters", "website"); err != nil {
		return err
	}

	items := []struct {
		Name         string
		Industry     string
		Headquarters string
		Website      string
	}{
		{"Google", "Technology", "Mountain View, United States", "https://about.google"},
		{"Microsoft", "Technology", "Redmond, United States", "https://www.microsoft.com"},
		{"Siemens", "Industrial Manufacturing", "Munich, Germany", "https://www.siemens.com"},
		{"Unilever", "Consumer Goods", "London, United Kingdom", "https://www.unilever.com"},
		{"Deloitte", "Professional Services", "London, United Kingdom", "https://www.deloitte.com"},
		{"Mayo Clinic", "Healthcare", "Rochester, United States", "https://www.mayoclinic.org"},
		{"Toyota", "Automotive", "Toyota City, Japan", "https://global.toyota"},
		{"Gojek", "Technology", "Jakarta, Indonesia", "https://www.gojek.com"},
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO companies (id, name, industry, headquarters, website)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4)
				 ON CONFLICT (name) DO NOTHING`,
				it.Name, it.Industry, it.Headquarters, it.Website,
			)
			if err != nil {
				return fmt.Errorf("insert company %s: %w", it.Name, err)
			}
		}
		return nil
	})
}
