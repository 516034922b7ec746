package handler

import (
	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/pkg/response"
	"careerpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AttemptHandler struct {
	uc        usecase.AttemptUsecase
	validator *dto.Validator
}

func NewAttemptHandler(uc usecase.AttemptUsecase, v *dto.Validator) *AttemptHandler {
	return &AttemptHandler{uc: uc, validator: v}
}

func (h *AttemptHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/:id/responses", h.SubmitResponses)
	r.Post("/:id/complete", h.Complete)
	r.Get("/:id/result", h.Result)
}

func (h *AttemptHandler) SubmitResponses(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	attemptID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitResponsesRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}

	progress, err := h.uc.SubmitResponses(c.Context(), userID, attemptID, req.ToDomain())
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProgressResponse(progress))
}

func (h *AttemptHandler) Complete(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	attemptID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.uc.CompleteAttempt(c.Context(), userID, attemptID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAttemptResultResponse(res))
}

func (h *AttemptHandler) Result(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	attemptID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.uc.GetAttemptResult(c.Context(), userID, attemptID)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAttemptResultResponse(res))
}
