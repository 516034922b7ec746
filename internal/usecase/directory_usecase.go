package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"careerpath/internal/domain/directory"
	"careerpath/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DirectoryUsecase interface {
	ListUniversities(ctx context.Context, p directory.ListParams) (directory.Page[directory.University], error)
	CreateUniversity(ctx context.Context, u directory.University) (directory.University, error)
	UpdateUniversity(ctx context.Context, u directory.University) (directory.University, error)
	DeleteUniversity(ctx context.Context, id uuid.UUID) error

	ListCompanies(ctx context.Context, p directory.ListParams) (directory.Page[directory.Company], error)
	CreateCompany(ctx context.Context, c directory.Company) (directory.Company, error)
	UpdateCompany(ctx context.Context, c directory.Company) (directory.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

type Directory struct {
	universities repository.UniversityRepository
	companies    repository.CompanyRepository
	cache        DirectoryCache
	cacheTTL     time.Duration
	logger       *zap.Logger
}

func NewDirectoryUsecase(universities repository.UniversityRepository, companies repository.CompanyRepository, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{universities: universities, companies: companies, logger: logger}
}

func (u *Directory) ListUniversities(ctx context.Context, p directory.ListParams) (directory.Page[directory.University], error) {
	p, sort, err := p.Normalize(directory.KindUniversity)
	if err != nil {
		return directory.Page[directory.University]{}, ErrInvalidInput
	}
	return cachedPage(ctx, u, directory.KindUniversity, p, func() (directory.Page[directory.University], error) {
		items, total, err := u.universities.List(ctx, p, sort)
		if err != nil {
			u.logger.Error("list universities failed", zap.Error(err))
			return directory.Page[directory.University]{}, ErrInternal
		}
		return directory.Page[directory.University]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}, nil
	})
}

func (u *Directory) CreateUniversity(ctx context.Context, in directory.University) (directory.University, error) {
	in, err := cleanUniversity(in)
	if err != nil {
		return directory.University{}, err
	}
	out, err := u.universities.Create(ctx, in)
	if err != nil {
		return directory.University{}, u.mapWriteErr("create university", err)
	}
	u.invalidate(ctx, directory.KindUniversity)
	return out, nil
}

func (u *Directory) UpdateUniversity(ctx context.Context, in directory.University) (directory.University, error) {
	if in.ID == uuid.Nil {
		return directory.University{}, ErrInvalidInput
	}
	in, err := cleanUniversity(in)
	if err != nil {
		return directory.University{}, err
	}
	out, err := u.universities.Update(ctx, in)
	if err != nil {
		return directory.University{}, u.mapWriteErr("update university", err)
	}
	u.invalidate(ctx, directory.KindUniversity)
	return out, nil
}

func (u *Directory) DeleteUniversity(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.universities.Delete(ctx, id); err != nil {
		return u.mapWriteErr("delete university", err)
	}
	u.invalidate(ctx, directory.KindUniversity)
	return nil
}

func (u *Directory) ListCompanies(ctx context.Context, p directory.ListParams) (directory.Page[directory.Company], error) {
	p, sort, err := p.Normalize(directory.KindCompany)
	if err != nil {
		return directory.Page[directory.Company]{}, ErrInvalidInput
	}
	return cachedPage(ctx, u, directory.KindCompany, p, func() (directory.Page[directory.Company], error) {
		items, total, err := u.companies.List(ctx, p, sort)
		if err != nil {
			u.logger.Error("list companies failed", zap.Error(err))
			return directory.Page[directory.Company]{}, ErrInternal
		}
		return directory.Page[directory.Company]{Items: items, Total: total, Limit: p.Limit, Offset: p.Offset}, nil
	})
}

func (u *Directory) CreateCompany(ctx context.Context, in directory.Company) (directory.Company, error) {
	in, err := cleanCompany(in)
	if err != nil {
		return directory.Company{}, err
	}
	out, err := u.companies.Create(ctx, in)
	if err != nil {
		return directory.Company{}, u.mapWriteErr("create company", err)
	}
	u.invalidate(ctx, directory.KindCompany)
	return out, nil
}

func (u *Directory) UpdateCompany(ctx context.Context, in directory.Company) (directory.Company, error) {
	if in.ID == uuid.Nil {
		return directory.Company{}, ErrInvalidInput
	}
	in, err := cleanCompany(in)
	if err != nil {
		return directory.Company{}, err
	}
	out, err := u.companies.Update(ctx, in)
	if err != nil {
		return directory.Company{}, u.mapWriteErr("update company", err)
	}
	u.invalidate(ctx, directory.KindCompany)
	return out, nil
}

func (u *Directory) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.companies.Delete(ctx, id); err != nil {
		return u.mapWriteErr("delete company", err)
	}
	u.invalidate(ctx, directory.KindCompany)
	return nil
}

func (u *Directory) mapWriteErr(op string, err error) error {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return ErrEntryNotFound
	case errors.Is(err, directory.ErrDuplicate):
		return ErrDuplicateEntry
	default:
		u.logger.Error(op+" failed", zap.Error(err))
		return ErrInternal
	}
}

func cleanUniversity(in directory.University) (directory.University, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Country = strings.TrimSpace(in.Country)
	in.City = strings.TrimSpace(in.City)
	in.Website = strings.TrimSpace(in.Website)
	if in.Name == "" {
		return directory.University{}, ErrInvalidInput
	}
	if in.WorldRank != nil && *in.WorldRank <= 0 {
		return directory.University{}, ErrInvalidInput
	}
	return in, nil
}

func cleanCompany(in directory.Company) (directory.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Industry = strings.TrimSpace(in.Industry)
	in.Headquarters = strings.TrimSpace(in.Headquarters)
	in.Website = strings.TrimSpace(in.Website)
	if in.Name == "" {
		return directory.Company{}, ErrInvalidInput
	}
	return in, nil
}
