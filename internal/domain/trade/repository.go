package trade

import (
	"context"

	"github.com/google/uuid"
)

// SalesInvoiceRepository provides access to sales invoices.
type SalesInvoiceRepository interface {
	// FindByID returns shared.ErrNotFound when the invoice does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*SalesInvoice, error)
	// FindByName returns nil without error when nothing matches.
	FindByName(ctx context.Context, name string) (*SalesInvoice, error)
	Create(ctx context.Context, invoice *SalesInvoice) error
	// SaveSyncState persists only the Zoho sync fields of invoice.
	SaveSyncState(ctx context.Context, invoice *SalesInvoice) error
}
