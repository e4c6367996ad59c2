package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securecommand/securecommand/internal/api/dto"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/service"
	"github.com/securecommand/securecommand/internal/types"
)

type BillingHandler struct {
	settingsService service.SettingsService
	pricingService  service.PricingService
	log             *logger.Logger
}

func NewBillingHandler(settingsService service.SettingsService, pricingService service.PricingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		settingsService: settingsService,
		pricingService:  pricingService,
		log:             log,
	}
}

// @Summary Get billing defaults
// @Description Get the platform-wide default pricing
// @Tags Billing
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.BillingSettingsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /billing/settings [get]
func (h *BillingHandler) GetBillingSettings(c *gin.Context) {
	resp, err := h.settingsService.GetBillingSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update billing defaults
// @Description Set the platform-wide default pricing (platform administrators only)
// @Tags Billing
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param settings body dto.UpdateBillingSettingsRequest true "Default fees"
// @Success 200 {object} dto.BillingSettingsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /billing/settings [put]
func (h *BillingHandler) UpdateBillingSettings(c *gin.Context) {
	var req dto.UpdateBillingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.settingsService.UpdateBillingSettings(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Estimate a billing period cost
// @Description Compute a quote for a plan and guard count; read-only, no account required
// @Tags Billing
// @Produce json
// @Param plan_id query string true "Plan ID"
// @Param guard_count query int true "Guard count"
// @Param billing_cycle query string false "Billing cycle (monthly or yearly)"
// @Success 200 {object} dto.EstimateResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /pricing/estimate [get]
func (h *BillingHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid estimate parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.pricingService.Estimate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview a company's billing
// @Description Show the resolved pricing, billable guard count and total a company would be invoiced
// @Tags Billing
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Company ID"
// @Param billing_cycle query string false "Billing cycle (monthly or yearly)"
// @Success 200 {object} dto.BillingPreviewResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /companies/{id}/billing/preview [get]
func (h *BillingHandler) PreviewCompanyBilling(c *gin.Context) {
	cycle := types.BillingCycle(c.DefaultQuery("billing_cycle", types.BillingCycleMonthly.String()))

	resp, err := h.pricingService.PreviewCompanyBilling(c.Request.Context(), c.Param("id"), cycle)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
