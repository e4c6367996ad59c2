package invoice

import (
	"context"

	"github.com/securecommand/securecommand/internal/types"
)

// Repository is the persistence interface for invoices. There is deliberately
// no Delete: the invoice table is an append-only ledger.
type Repository interface {
	// Create inserts a new invoice. A duplicate invoice number surfaces as an
	// ErrAlreadyExists-marked error backed by the storage unique constraint.
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// UpdateStatus applies a compare-and-swap status transition: the row is
	// updated only if its current status equals from. When the precondition
	// fails because the row changed concurrently, the error is marked
	// ErrStaleState.
	UpdateStatus(ctx context.Context, id string, from, to types.InvoiceStatus) error
}
