package usecase

import (
	"context"
	"errors"
	"strings"

	"careerpath/internal/domain/assessment"
	"careerpath/internal/repository"
)

type AssessmentUsecase interface {
	ListAssessments(ctx context.Context) ([]assessment.Assessment, error)
	GetAssessment(ctx context.Context, slug string) (assessment.Assessment, error)
}

type Assessment struct {
	assessments repository.AssessmentRepository
}

func NewAssessmentUsecase(assessments repository.AssessmentRepository) *Assessment {
	return &Assessment{assessments: assessments}
}

func (u *Assessment) ListAssessments(ctx context.Context) ([]assessment.Assessment, error) {
	items, err := u.assessments.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Assessment) GetAssessment(ctx context.Context, slug string) (assessment.Assessment, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return assessment.Assessment{}, ErrInvalidInput
	}
	a, err := u.assessments.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return assessment.Assessment{}, ErrAssessmentNotFound
		}
		return assessment.Assessment{}, ErrInternal
	}
	return a, nil
}
