package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/service"
	"github.com/securecommand/securecommand/internal/types"
)

type CompanyHandler struct {
	service      service.CompanyService
	guardService service.GuardService
	log          *logger.Logger
}

func NewCompanyHandler(service service.CompanyService, guardService service.GuardService, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{service: service, guardService: guardService, log: log}
}

// @Summary Create a new company
// @Description Register a new tenant company
// @Tags Companies
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateCompany(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a company by ID
// @Description Get a company by ID
// @Tags Companies
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	resp, err := h.service.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List companies
// @Description List companies with optional filtering
// @Tags Companies
// @Produce json
// @Security ApiKeyAuth
// @Param filter query types.CompanyFilter false "Filter"
// @Success 200 {object} dto.ListCompaniesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	filter := types.NewCompanyFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListCompanies(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a company
// @Description Update company details, plan assignment or pricing overrides
// @Tags Companies
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Company ID"
// @Param company body dto.UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateCompany(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add a guard to a company
// @Description Add a guard to the company's roster
// @Tags Guards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Company ID"
// @Param guard body dto.CreateGuardRequest true "Guard details"
// @Success 201 {object} dto.GuardResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /companies/{id}/guards [post]
func (h *CompanyHandler) CreateGuard(c *gin.Context) {
	var req dto.CreateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.guardService.CreateGuard(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List a company's guards
// @Description List guards on the company's roster
// @Tags Guards
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Company ID"
// @Param filter query types.GuardFilter false "Filter"
// @Success 200 {object} dto.ListGuardsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /companies/{id}/guards [get]
func (h *CompanyHandler) ListGuards(c *gin.Context) {
	filter := types.NewGuardFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	filter.CompanyID = lo.ToPtr(c.Param("id"))

	resp, err := h.guardService.ListGuards(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a guard
// @Description Update a guard's details or active flag
// @Tags Guards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Guard ID"
// @Param guard body dto.UpdateGuardRequest true "Fields to update"
// @Success 200 {object} dto.GuardResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /guards/{id} [put]
func (h *CompanyHandler) UpdateGuard(c *gin.Context) {
	var req dto.UpdateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.guardService.UpdateGuard(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
