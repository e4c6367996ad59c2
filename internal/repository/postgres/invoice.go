package postgres

import (
	"context"
	"fmt"
	"time"

	domainInvoice "github.com/securecommand/securecommand/internal/domain/invoice"
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/logger"
	"github.com/securecommand/securecommand/internal/postgres"
	"github.com/securecommand/securecommand/internal/types"
)

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) domainInvoice.Repository {
	return &invoiceRepository{
		client: client,
		logger: logger,
	}
}

const invoiceColumns = `id, company_id, invoice_number, amount, currency, due_date,
	invoice_status, paid_at,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *invoiceRepository) Create(ctx context.Context, invoice *domainInvoice.Invoice) error {
	r.logger.Debugw("creating invoice",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"company_id", invoice.CompanyID,
	)

	query := fmt.Sprintf(`
		INSERT INTO invoices (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`, invoiceColumns)

	_, err := r.client.Querier(ctx).Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.InvoiceNumber,
		invoice.Amount, invoice.Currency, invoice.DueDate,
		string(invoice.InvoiceStatus), invoice.PaidAt,
		invoice.TenantID, string(invoice.Status),
		invoice.CreatedAt, invoice.UpdatedAt, invoice.CreatedBy, invoice.UpdatedBy,
	)
	if err != nil {
		// The unique constraint on invoice_number is the authority on
		// uniqueness under concurrent generation.
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("An invoice with this number already exists").
				WithReportableDetails(map[string]any{
					"invoice_number": invoice.InvoiceNumber,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*domainInvoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)

	row := r.client.Querier(ctx).QueryRow(ctx, query, id)
	invoice, err := scanInvoice(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("invoice not found").
				WithHint("Invoice not found").
				WithReportableDetails(map[string]any{
					"invoice_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return invoice, nil
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*domainInvoice.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE invoice_number = $1`, invoiceColumns)

	row := r.client.Querier(ctx).QueryRow(ctx, query, invoiceNumber)
	invoice, err := scanInvoice(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ierr.NewError("invoice not found").
				WithHint("Invoice not found").
				WithReportableDetails(map[string]any{
					"invoice_number": invoiceNumber,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*domainInvoice.Invoice, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE 1=1`, invoiceColumns)
	var args []any

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(` AND company_id = $%d`, len(args))
	}
	if filter.InvoiceStatus != nil {
		args = append(args, string(*filter.InvoiceStatus))
		query += fmt.Sprintf(` AND invoice_status = $%d`, len(args))
	}

	query += fmt.Sprintf(` ORDER BY created_at %s`, orderDirection(filter.QueryFilter))
	args = append(args, filter.GetLimit(), filter.GetOffset())
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.client.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var invoices []*domainInvoice.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan invoice").
				Mark(ierr.ErrDatabase)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}

	query := `SELECT COUNT(*) FROM invoices WHERE 1=1`
	var args []any

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(` AND company_id = $%d`, len(args))
	}
	if filter.InvoiceStatus != nil {
		args = append(args, string(*filter.InvoiceStatus))
		query += fmt.Sprintf(` AND invoice_status = $%d`, len(args))
	}

	var count int
	if err := r.client.Querier(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

// UpdateStatus applies the transition as a conditional update so that two
// operators acting on the same invoice cannot silently overwrite each other.
func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, from, to types.InvoiceStatus) error {
	r.logger.Debugw("updating invoice status",
		"invoice_id", id, "from", from, "to", to)

	now := time.Now().UTC()
	var paidAt *time.Time
	if to == types.InvoiceStatusPaid {
		paidAt = &now
	}

	query := `
		UPDATE invoices
		SET invoice_status = $2, paid_at = COALESCE($3, paid_at), updated_at = $4, updated_by = $5
		WHERE id = $1 AND invoice_status = $6`

	tag, err := r.client.Querier(ctx).Exec(ctx, query,
		id, string(to), paidAt, now, types.GetUserID(ctx), string(from),
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice status").
			Mark(ierr.ErrDatabase)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a concurrent status change.
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return ierr.NewErrorf("invoice status changed concurrently: expected %s", from).
			WithHint("The invoice was modified by another operation; reload and retry").
			WithReportableDetails(map[string]any{
				"invoice_id":      id,
				"expected_status": from,
			}).
			Mark(ierr.ErrStaleState)
	}
	return nil
}

func scanInvoice(row rowScanner) (*domainInvoice.Invoice, error) {
	var invoice domainInvoice.Invoice
	var invoiceStatus, status string
	err := row.Scan(
		&invoice.ID, &invoice.CompanyID, &invoice.InvoiceNumber,
		&invoice.Amount, &invoice.Currency, &invoice.DueDate,
		&invoiceStatus, &invoice.PaidAt,
		&invoice.TenantID, &status,
		&invoice.CreatedAt, &invoice.UpdatedAt, &invoice.CreatedBy, &invoice.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceStatus = types.InvoiceStatus(invoiceStatus)
	invoice.Status = types.Status(status)
	return &invoice, nil
}
