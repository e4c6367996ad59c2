package invoice

import (
	"time"

	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a billing document. Invoices are append-only: they are never
// deleted, and the invoice number is immutable after creation.
type Invoice struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`

	// InvoiceNumber is globally unique ("INV-" plus an opaque token) and must
	// not be parsed by consumers.
	InvoiceNumber string `json:"invoice_number"`

	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency"`
	DueDate       time.Time           `json:"due_date"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`

	types.BaseModel
}

// Validate validates the invoice record.
func (i *Invoice) Validate() error {
	if i.CompanyID == "" {
		return ierr.NewError("invoice company_id is required").
			WithHint("Invoice must belong to a company").
			Mark(ierr.ErrValidation)
	}

	if i.InvoiceNumber == "" {
		return ierr.NewError("invoice number is required").
			WithHint("Invoice number is required").
			Mark(ierr.ErrValidation)
	}

	if i.Amount.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("amount must be non negative").
			WithReportableDetails(map[string]any{
				"amount": i.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if i.DueDate.IsZero() {
		return ierr.NewError("invoice due date is required").
			WithHint("Invoice due date is required").
			Mark(ierr.ErrValidation)
	}

	return i.InvoiceStatus.Validate()
}

// ValidateTransition checks a lifecycle transition against the allowed set.
// Transitions out of paid always fail; everything else follows the lifecycle
// map. MarkPaid idempotence (paid -> paid reported as a no-op) is handled by
// the service layer, not here.
func (i *Invoice) ValidateTransition(target types.InvoiceStatus) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !i.InvoiceStatus.CanTransition(target) {
		return ierr.NewErrorf("invalid invoice transition: %s -> %s", i.InvoiceStatus, target).
			WithHintf("An invoice in status %s cannot move to %s", i.InvoiceStatus, target).
			WithReportableDetails(map[string]any{
				"invoice_id":     i.ID,
				"invoice_number": i.InvoiceNumber,
				"current_status": i.InvoiceStatus,
				"target_status":  target,
			}).
			Mark(ierr.ErrInvalidTransition)
	}

	return nil
}
