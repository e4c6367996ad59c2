package types

import (
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus is the lifecycle status of an invoice.
type InvoiceStatus string

const (
	// InvoiceStatusPending is the initial status set at creation.
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid is terminal; no transition leads out of it.
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusOverdue may still transition to paid, or back to pending
	// via an administrative reopen.
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid invoice status: %s", s).
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// invoiceTransitions is the allowed transition set of the invoice lifecycle.
// Reopening (overdue -> pending) is an administrator-only correction and is
// intentionally part of this map; the service layer enforces the role check.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusPending: {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid, InvoiceStatusPending},
	InvoiceStatusPaid:    {},
}

// CanTransition reports whether the lifecycle permits moving from s to target.
func (s InvoiceStatus) CanTransition(target InvoiceStatus) bool {
	return lo.Contains(invoiceTransitions[s], target)
}
