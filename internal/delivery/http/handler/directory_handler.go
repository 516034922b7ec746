package handler

import (
	"careerpath/internal/delivery/http/dto"
	"careerpath/internal/pkg/response"
	"careerpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type DirectoryHandler struct {
	uc        usecase.DirectoryUsecase
	validator *dto.Validator
}

func NewDirectoryHandler(uc usecase.DirectoryUsecase, v *dto.Validator) *DirectoryHandler {
	return &DirectoryHandler{uc: uc, validator: v}
}

// RegisterRoutes mounts the read-only listings.
func (h *DirectoryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/universities", h.ListUniversities)
	r.Get("/companies", h.ListCompanies)
}

// RegisterAdminRoutes mounts the write endpoints; r must already be guarded.
func (h *DirectoryHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/universities", h.CreateUniversity)
	r.Put("/universities/:id", h.UpdateUniversity)
	r.Delete("/universities/:id", h.DeleteUniversity)

	r.Post("/companies", h.CreateCompany)
	r.Put("/companies/:id", h.UpdateCompany)
	r.Delete("/companies/:id", h.DeleteCompany)
}

func (h *DirectoryHandler) ListUniversities(c fiber.Ctx) error {
	var q dto.DirectoryQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}
	page, err := h.uc.ListUniversities(c.Context(), q.Params())
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, page)
}

func (h *DirectoryHandler) CreateUniversity(c fiber.Ctx) error {
	var req dto.UniversityRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	u, err := h.uc.CreateUniversity(c.Context(), req.ToDomain(uuid.Nil))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, u)
}

func (h *DirectoryHandler) UpdateUniversity(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UniversityRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	u, err := h.uc.UpdateUniversity(c.Context(), req.ToDomain(id))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, u)
}

func (h *DirectoryHandler) DeleteUniversity(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteUniversity(c.Context(), id); err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *DirectoryHandler) ListCompanies(c fiber.Ctx) error {
	var q dto.DirectoryQuery
	if err := bindQuery(c, h.validator, &q); err != nil {
		return err
	}
	page, err := h.uc.ListCompanies(c.Context(), q.Params())
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, page)
}

func (h *DirectoryHandler) CreateCompany(c fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	co, err := h.uc.CreateCompany(c.Context(), req.ToDomain(uuid.Nil))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, co)
}

func (h *DirectoryHandler) UpdateCompany(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CompanyRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	co, err := h.uc.UpdateCompany(c.Context(), req.ToDomain(id))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, co)
}

func (h *DirectoryHandler) DeleteCompany(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteCompany(c.Context(), id); err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
