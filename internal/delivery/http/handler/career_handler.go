package handler

import (
	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/pkg/response"
	"careerpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CareerHandler struct {
	uc        usecase.CareerUsecase
	validator *dto.Validator
}

func NewCareerHandler(uc usecase.CareerUsecase, v *dto.Validator) *CareerHandler {
	return &CareerHandler{uc: uc, validator: v}
}

func (h *CareerHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:code", h.Get)
}

func (h *CareerHandler) RegisterReportRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/career-report", h.Report)
}

func (h *CareerHandler) Report(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var q dto.ReportQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}

	rep, err := h.uc.GetReport(c.Context(), userID, q.Limit)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, rep)
}

func (h *CareerHandler) List(c fiber.Ctx) error {
	var q dto.CareerListQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}

	list, err := h.uc.ListCareers(c.Context(), usecase.CareerListParams{Query: q.Q, Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCareerListResponse(list))
}

func (h *CareerHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	detail, err := h.uc.GetCareer(c.Context(), userID, c.Params("code"))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCareerDetailResponse(detail))
}
