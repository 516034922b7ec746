package usecase

import (
	"errors"

	"careerpath/internal/domain/report"
)

var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptCompleted    = errors.New("attempt already completed")
	ErrAttemptIncomplete   = errors.New("attempt has unanswered questions")
	ErrAttemptNotCompleted = errors.New("attempt not completed")

	ErrOccupationNotFound = errors.New("occupation not found")
	ErrEntryNotFound      = errors.New("directory entry not found")
	ErrDuplicateEntry     = errors.New("directory entry already exists")

	// ErrInterestProfileMissing is returned when a report is requested
	// before the user completed an interest assessment.
	ErrInterestProfileMissing = report.ErrInterestProfileMissing
)
