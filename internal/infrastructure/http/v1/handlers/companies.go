package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bottledays/internal/core/apperror"
	"bottledays/internal/domain/companies"
	"bottledays/internal/infrastructure/http/v1/dto"
)

// CompanyHandler handles company directory endpoints.
type CompanyHandler struct {
	*BaseHandler
	service *companies.Service
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service *companies.Service) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *CompanyHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid company id").WithDetail("id", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCompanies(list))
}

// Get handles GET /companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	company, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCompany(company))
}

// Create handles POST /companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	company, err := h.service.Create(c.Request.Context(), req.Name, req.TaxID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, company.ID.String())
}

// Update handles PUT /companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	company, err := h.service.Update(c.Request.Context(), id, req.Name, req.TaxID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCompany(company))
}

// Delete handles DELETE /companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
