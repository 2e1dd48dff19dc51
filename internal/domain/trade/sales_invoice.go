package trade

import (
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DocStatus is the host document lifecycle state.
type DocStatus string

const (
	DocStatusDraft     DocStatus = "Draft"
	DocStatusSubmitted DocStatus = "Submitted"
	DocStatusCancelled DocStatus = "Cancelled"
)

// ZohoSyncStatus tracks the push of an invoice to Zoho Books.
type ZohoSyncStatus string

const (
	ZohoSyncNotSynced ZohoSyncStatus = "Not Synced"
	ZohoSyncSynced    ZohoSyncStatus = "Synced"
	ZohoSyncFailed    ZohoSyncStatus = "Failed"
)

// SalesInvoiceItem is one invoice line.
type SalesInvoiceItem struct {
	ItemCode    string
	ItemName    string
	Description string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	UOM         string
}

// Amount is qty × rate.
func (i SalesInvoiceItem) Amount() decimal.Decimal {
	return i.Qty.Mul(i.Rate)
}

// SalesInvoice is the host's sales invoice.
type SalesInvoice struct {
	shared.BaseEntity
	// Name is the human invoice number, e.g. ACC-SINV-2026-00001.
	Name                 string
	CustomerName         string
	PostingDate          time.Time
	DueDate              *time.Time
	Remarks              string
	Items                []SalesInvoiceItem
	DiscountAmount       decimal.Decimal
	TotalTaxesAndCharges decimal.Decimal
	GrandTotal           decimal.Decimal
	PaidAmount           decimal.Decimal
	DocStatus            DocStatus

	ZohoInvoiceID     string
	ZohoInvoiceNumber string
	ZohoSyncStatus    ZohoSyncStatus
	ZohoLastSyncedAt  *time.Time
}

// IsSynced reports whether the invoice was already pushed.
func (s *SalesInvoice) IsSynced() bool {
	return s.ZohoInvoiceID != ""
}

// NetTotal is the sum of line amounts.
func (s *SalesInvoice) NetTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Amount())
	}
	return total
}

// MarkPushed records a successful push.
func (s *SalesInvoice) MarkPushed(invoiceID, number string, at time.Time) {
	s.ZohoInvoiceID = invoiceID
	s.ZohoInvoiceNumber = number
	s.ZohoSyncStatus = ZohoSyncSynced
	s.ZohoLastSyncedAt = &at
	s.Touch(at)
}

// MarkPushFailed records a failed push.
func (s *SalesInvoice) MarkPushFailed(at time.Time) {
	s.ZohoSyncStatus = ZohoSyncFailed
	s.Touch(at)
}
