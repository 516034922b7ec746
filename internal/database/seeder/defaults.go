package seeder

import "careerpath/internal/config"

func Defaults(cfg config.SeedConfig) []Seeder {
	return []Seeder{
		AssessmentsSeeder{},
		UniversitiesSeeder{},
		CompaniesSeeder{},
		AdminSeeder{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
	}
}
