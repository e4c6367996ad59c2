package dto

import (
	"time"

	"github.com/securecommand/securecommand/internal/domain/invoice"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/securecommand/securecommand/internal/validator"
	"github.com/shopspring/decimal"
)

type GenerateInvoiceRequest struct {
	CompanyID    string             `json:"company_id" validate:"required"`
	BillingCycle types.BillingCycle `json:"billing_cycle" validate:"required"`

	// DueDate is optional; when absent the invoice falls due at the end of the
	// configured grace period.
	DueDate *time.Time `json:"due_date,omitempty"`

	// Amount lets an operator replace the computed draft total, e.g. to apply
	// a negotiated discount before the invoice goes out.
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

func (r *GenerateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.BillingCycle.Validate()
}

type InvoiceResponse struct {
	*invoice.Invoice
}

type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]
