package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/securecommand/securecommand/internal/domain/invoice"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository, including the unique
// invoice number constraint and compare-and-swap status updates the database
// repository provides.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	mu      sync.Mutex
	numbers map[string]string // invoice number -> invoice id
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		numbers:       make(map[string]string),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	if inv.PaidAt != nil {
		paidAt := *inv.PaidAt
		copied.PaidAt = &paidAt
	}
	return &copied
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			WithHint("Invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.numbers[inv.InvoiceNumber]; taken {
		return ierr.NewErrorf("invoice number %s already exists", inv.InvoiceNumber).
			WithHint("Invoice number must be unique").
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return err
	}
	s.numbers[inv.InvoiceNumber] = inv.ID
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	s.mu.Lock()
	id, found := s.numbers[invoiceNumber]
	s.mu.Unlock()
	if !found {
		return nil, ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{
				"invoice_number": invoiceNumber,
			}).
			Mark(ierr.ErrNotFound)
	}
	return s.Get(ctx, id)
}

func invoiceFilterFn(_ context.Context, inv *invoice.Invoice, raw interface{}) bool {
	filter, ok := raw.(*types.InvoiceFilter)
	if !ok || filter == nil {
		return inv.Status == types.StatusPublished
	}
	if inv.Status != filter.GetStatus() {
		return false
	}
	if filter.CompanyID != nil && inv.CompanyID != *filter.CompanyID {
		return false
	}
	if filter.InvoiceStatus != nil && inv.InvoiceStatus != *filter.InvoiceStatus {
		return false
	}
	return true
}

func invoiceSortFn(a, b *invoice.Invoice) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	invoices = paginate(invoices, filter.GetLimit(), filter.GetOffset())
	result := make([]*invoice.Invoice, len(invoices))
	for i, inv := range invoices {
		result[i] = copyInvoice(inv)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

// UpdateStatus applies the same compare-and-swap semantics as the database
// repository: the transition only lands when the stored status still equals
// from, and a lost race surfaces as ErrStaleState.
func (s *InMemoryInvoiceStore) UpdateStatus(ctx context.Context, id string, from, to types.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return ierr.NewError("invoice not found").
			WithHint("Invoice not found").
			WithReportableDetails(map[string]any{
				"invoice_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	if inv.InvoiceStatus != from {
		return ierr.NewErrorf("invoice %s changed concurrently", id).
			WithHint("The invoice was modified by another request; reload and retry").
			WithReportableDetails(map[string]any{
				"invoice_id":      id,
				"expected_status": from,
				"current_status":  inv.InvoiceStatus,
			}).
			Mark(ierr.ErrStaleState)
	}

	updated := copyInvoice(inv)
	updated.InvoiceStatus = to
	updated.UpdatedAt = time.Now().UTC()
	updated.UpdatedBy = types.GetUserID(ctx)
	if to == types.InvoiceStatusPaid && updated.PaidAt == nil {
		now := time.Now().UTC()
		updated.PaidAt = &now
	}

	return s.InMemoryStore.Update(ctx, id, updated)
}

// Clear resets both the invoices and the number index.
func (s *InMemoryInvoiceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InMemoryStore.Clear()
	s.numbers = make(map[string]string)
}
