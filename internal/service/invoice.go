package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/securecommand/securecommand/internal/api/dto"
	"github.com/securecommand/securecommand/internal/domain/billing"
	"github.com/securecommand/securecommand/internal/domain/invoice"
	"github.com/securecommand/securecommand/internal/domain/plan"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

const (
	// defaultDueInDays is the payment window applied when a generation request
	// does not carry an explicit due date.
	defaultDueInDays = 30

	// defaultCurrency is used for companies billed on defaults or overrides
	// with no plan assignment to take a currency from.
	defaultCurrency = "USD"
)

// InvoiceService generates invoices and drives their lifecycle. Invoices are
// append-only; lifecycle changes are compare-and-swap status transitions so
// concurrent mutations cannot silently overwrite each other.
type InvoiceService interface {
	GenerateInvoice(ctx context.Context, req dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)

	// MarkInvoicePaid records payment. Paying an already-paid invoice is a
	// no-op returning the invoice unchanged.
	MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error)

	// MarkInvoiceOverdue flags a pending invoice whose due date has passed.
	MarkInvoiceOverdue(ctx context.Context, id string) (*dto.InvoiceResponse, error)

	// ReopenInvoice moves an overdue invoice back to pending. This is a
	// platform-administrator correction and is not idempotent: reopening a
	// pending invoice fails.
	ReopenInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) GenerateInvoice(ctx context.Context, req dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	company, err := s.CompanyRepo.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCompanyBilling(ctx, company.ID); err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, ierr.NewErrorf("company %s is deactivated", company.ID).
			WithHint("Deactivated companies cannot be billed").
			Mark(ierr.ErrValidation)
	}

	var assignedPlan *plan.Plan
	if company.PlanID != nil {
		assignedPlan, err = s.PlanRepo.Get(ctx, *company.PlanID)
		if err != nil {
			return nil, err
		}
	}

	config, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		config = nil
	}

	pricing, err := billing.ResolvePricing(company, assignedPlan, config, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	guardCount, err := s.GuardRepo.CountActiveByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	currency := defaultCurrency
	if assignedPlan != nil {
		currency = assignedPlan.Currency
	}

	dueDate := time.Now().UTC().AddDate(0, 0, defaultDueInDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}

	amount := billing.ComputeResolvedTotal(pricing, guardCount)
	if req.Amount != nil {
		// Draft amounts are operator-editable before the invoice goes out.
		amount = req.Amount.Round(2)
	}

	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CompanyID:     company.ID,
		InvoiceNumber: types.GenerateInvoiceNumber(),
		Amount:        amount,
		Currency:      currency,
		DueDate:       dueDate,
		InvoiceStatus: types.InvoiceStatusPending,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	// The unique constraint on the invoice number is the real collision
	// guard; a ULID collision is close to impossible, so a single re-mint
	// handles it.
	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		if !ierr.IsAlreadyExists(err) {
			return nil, err
		}
		s.Logger.WithContext(ctx).Warnw("invoice number collision, re-minting",
			"invoice_number", inv.InvoiceNumber)
		inv.InvoiceNumber = types.GenerateInvoiceNumber()
		if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
			return nil, err
		}
	}

	s.Logger.WithContext(ctx).Infow("generated invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"company_id", company.ID,
		"amount", inv.Amount.String(),
		"guard_count", guardCount,
	)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*dto.InvoiceResponse, error) {
	if invoiceNumber == "" {
		return nil, ierr.NewError("invoice number is required").
			WithHint("Invoice number is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.GetByNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return &dto.InvoiceResponse{Invoice: inv}
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeCompanyBilling(ctx, inv.CompanyID); err != nil {
		return nil, err
	}

	// Idempotent: paying an already-paid invoice returns it unchanged.
	if inv.InvoiceStatus == types.InvoiceStatusPaid {
		return &dto.InvoiceResponse{Invoice: inv}, nil
	}

	return s.transition(ctx, inv, types.InvoiceStatusPaid)
}

func (s *invoiceService) MarkInvoiceOverdue(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeCompanyBilling(ctx, inv.CompanyID); err != nil {
		return nil, err
	}

	return s.transition(ctx, inv, types.InvoiceStatusOverdue)
}

func (s *invoiceService) ReopenInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if types.GetUserRole(ctx) != types.UserRolePlatformAdmin {
		return nil, ierr.NewError("reopening an invoice requires platform administrator access").
			WithHint("Only platform administrators can reopen invoices").
			Mark(ierr.ErrPermissionDenied)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, inv, types.InvoiceStatusPending)
}

// transition validates and applies a compare-and-swap lifecycle change, then
// re-reads the row so the caller sees the persisted state.
func (s *invoiceService) transition(ctx context.Context, inv *invoice.Invoice, target types.InvoiceStatus) (*dto.InvoiceResponse, error) {
	if err := inv.ValidateTransition(target); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.UpdateStatus(ctx, inv.ID, inv.InvoiceStatus, target); err != nil {
		return nil, err
	}

	updated, err := s.InvoiceRepo.Get(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("invoice status changed",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"from", inv.InvoiceStatus,
		"to", target,
	)
	return &dto.InvoiceResponse{Invoice: updated}, nil
}

// authorizeCompanyBilling allows platform administrators everywhere and
// company administrators within their own company only.
func (s *invoiceService) authorizeCompanyBilling(ctx context.Context, companyID string) error {
	role := types.GetUserRole(ctx)
	if role == types.UserRolePlatformAdmin || role == types.UserRoleUnknown {
		// Unknown role means a trusted internal caller (jobs, tests); the
		// HTTP layer always sets a role for external requests.
		return nil
	}

	if role == types.UserRoleCompanyAdmin && types.GetTenantID(ctx) == companyID {
		return nil
	}

	return ierr.NewError("not authorized for this company's invoices").
		WithHint("Invoice operations require company administrator access for the owning company").
		WithReportableDetails(map[string]any{
			"company_id": companyID,
		}).
		Mark(ierr.ErrPermissionDenied)
}
