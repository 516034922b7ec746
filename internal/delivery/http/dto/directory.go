package dto

import (
	"careerpath/internal/domain/directory"

	"github.com/google/uuid"
)

type DirectoryQuery struct {
	Q      string `query:"q" validate:"max=100"`
	Sort   string `query:"sort" validate:"max=32"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

func (q DirectoryQuery) Params() directory.ListParams {
	return directory.ListParams{Query: q.Q, Sort: q.Sort, Limit: q.Limit, Offset: q.Offset}
}

type UniversityRequest struct {
	Name      string `json:"name" validate:"notblank,max=200"`
	Country   string `json:"country" validate:"max=100"`
	City      string `json:"city" validate:"max=100"`
	Website   string `json:"website" validate:"omitempty,url,max=300"`
	WorldRank *int   `json:"world_rank" validate:"omitempty,min=1"`
}

func (r UniversityRequest) ToDomain(id uuid.UUID) directory.University {
	return directory.University{
		ID:        id,
		Name:      r.Name,
		Country:   r.Country,
		City:      r.City,
		Website:   r.Website,
		WorldRank: r.WorldRank,
	}
}

type CompanyRequest struct {
	Name         string `json:"name" validate:"notblank,max=200"`
	Industry     string `json:"industry" validate:"max=100"`
	Headquarters string `json:"headquarters" validate:"max=100"`
	Website      string `json:"website" validate:"omitempty,url,max=300"`
}

func (r CompanyRequest) ToDomain(id uuid.UUID) directory.Company {
	return directory.Company{
		ID:           id,
		Name:         r.Name,
		Industry:     r.Industry,
		Headquarters: r.Headquarters,
		Website:      r.Website,
	}
}
