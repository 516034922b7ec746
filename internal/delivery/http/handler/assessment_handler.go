package handler

import (
	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/pkg/response"
	"careerpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AssessmentHandler struct {
	assessments usecase.AssessmentUsecase
	attempts    usecase.AttemptUsecase
}

func NewAssessmentHandler(assessments usecase.AssessmentUsecase, attempts usecase.AttemptUsecase) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, attempts: attempts}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:slug", h.Get)
	r.Post("/:slug/attempts", h.StartAttempt)
}

func (h *AssessmentHandler) List(c fiber.Ctx) error {
	items, err := h.assessments.ListAssessments(c.Context())
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssessmentSummaries(items))
}

func (h *AssessmentHandler) Get(c fiber.Ctx) error {
	a, err := h.assessments.GetAssessment(c.Context(), c.Params("slug"))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssessmentDetail(a))
}

// StartAttempt answers 201 for a new attempt and 200 when an open one is
// resumed.
func (h *AssessmentHandler) StartAttempt(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	state, err := h.attempts.StartAttempt(c.Context(), userID, c.Params("slug"))
	if err != nil {
		return mapError(err)
	}

	status := fiber.StatusCreated
	if state.Resumed {
		status = fiber.StatusOK
	}
	return response.Success(c, status, response.MessageOK, dto.NewAttemptResponse(state))
}
