package handler

import (
	"errors"

	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/delivery/http/middleware"
	"careerpath/internal/pkg/response"
	"careerpath/internal/usecase"
	ucauth "careerpath/internal/usecase/auth"
	ucuser "careerpath/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return userID, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

func bindBody(c fiber.Ctx, v *dto.Validator, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return validate(v, out)
}

func bindQuery(c fiber.Ctx, v *dto.Validator, out any) error {
	if err := c.Bind().Query(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameters", nil, err)
	}
	return validate(v, out)
}

func validate(v *dto.Validator, out any) error {
	if v == nil {
		return nil
	}
	if errs := v.Struct(out); errs != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", errs, nil)
	}
	return nil
}

// mapError translates usecase sentinels into HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *middleware.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)

	case errors.Is(err, usecase.ErrUnauthorized), errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)

	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)

	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment not found", nil, err)
	case errors.Is(err, usecase.ErrAttemptNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Attempt not found", nil, err)
	case errors.Is(err, usecase.ErrOccupationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Career not found", nil, err)
	case errors.Is(err, usecase.ErrEntryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Entry not found", nil, err)
	case errors.Is(err, ucuser.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)

	case errors.Is(err, usecase.ErrAttemptCompleted):
		return middleware.NewAppError(fiber.StatusConflict, "Attempt already completed", nil, err)
	case errors.Is(err, usecase.ErrDuplicateEntry):
		return middleware.NewAppError(fiber.StatusConflict, "Entry already exists", nil, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)

	case errors.Is(err, usecase.ErrAttemptIncomplete):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Attempt has unanswered questions", nil, err)
	case errors.Is(err, usecase.ErrAttemptNotCompleted):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Attempt not completed", nil, err)
	case errors.Is(err, usecase.ErrInterestProfileMissing):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Complete the interest assessment first", nil, err)

	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
