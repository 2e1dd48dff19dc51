package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountingPlatform is the port to the external accounting system. All
// calls go through the resilient request executor of the adapter.
type AccountingPlatform interface {
	ListOrganizations(ctx context.Context) ([]RemoteOrganization, error)

	ListContacts(ctx context.Context, query ListQuery) (*ContactPage, error)
	SearchContacts(ctx context.Context, text string) ([]RemoteContact, error)
	CreateContact(ctx context.Context, draft ContactDraft) (*RemoteContact, error)
	UpdateContact(ctx context.Context, contactID string, draft ContactDraft) (*RemoteContact, error)

	ListItems(ctx context.Context, query ListQuery) (*ItemPage, error)
	CreateItem(ctx context.Context, draft ItemDraft) (*RemoteItem, error)
	UpdateItem(ctx context.Context, itemID string, draft ItemDraft) (*RemoteItem, error)

	CreateInvoice(ctx context.Context, draft InvoiceDraft) (*RemoteInvoice, error)
	SubmitInvoice(ctx context.Context, invoiceID string) error
	CreateCustomerPayment(ctx context.Context, draft PaymentDraft) (*RemotePayment, error)
}

// ---------------------------------------------------------------------------
// Queries and pages
// ---------------------------------------------------------------------------

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// ListQuery selects one page of a remote listing.
type ListQuery struct {
	Page    int
	PerPage int
}

// Normalize applies paging defaults and bounds.
func (q ListQuery) Normalize(defaultPerPage int) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

// PageContext mirrors the provider's paging metadata.
type PageContext struct {
	Page        int
	PerPage     int
	HasMorePage bool
}

type ContactPage struct {
	Contacts []RemoteContact
	Context  PageContext
}

type ItemPage struct {
	Items   []RemoteItem
	Context PageContext
}

// ---------------------------------------------------------------------------
// Remote records
// ---------------------------------------------------------------------------

type RemoteOrganization struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	CurrencyCode   string `json:"currency_code"`
	IsDefault      bool   `json:"is_default"`
}

// RemoteContact is a contact as returned by the provider.
type RemoteContact struct {
	ContactID             string `validate:"required"`
	ContactName           string `validate:"required"`
	CompanyName           string
	ContactType           string
	CustomerSubType       string
	Status                string
	Email                 string `validate:"omitempty,email"`
	Phone                 string
	Mobile                string
	FirstName             string
	LastName              string
	CurrencyCode          string
	PaymentTerms          int
	PaymentTermsLabel     string
	OutstandingReceivable decimal.Decimal
	UnusedCredits         decimal.Decimal
	LastModifiedTime      *time.Time
}

// RemoteItem is a catalog item as returned by the provider.
type RemoteItem struct {
	ItemID                   string `validate:"required"`
	Name                     string `validate:"required"`
	SKU                      string
	Description              string
	Unit                     string
	Status                   string
	Rate                     decimal.Decimal
	PurchaseRate             decimal.Decimal
	TaxPercentage            decimal.Decimal
	InventoryValuationMethod string
	AccountID                string
	AccountName              string
	PurchaseAccountID        string
	PurchaseAccountName      string
	InventoryAccountID       string
	InventoryAccountName     string
	ItemType                 string
	ProductType              string
	TrackInventory           bool
	// StockOnHand is nil when the provider did not report a quantity.
	StockOnHand      *decimal.Decimal
	ReorderLevel     decimal.Decimal
	LastModifiedTime *time.Time
}

type RemoteInvoice struct {
	InvoiceID     string
	InvoiceNumber string
	Status        string
	Total         decimal.Decimal
}

type RemotePayment struct {
	PaymentID     string
	PaymentNumber string
	Amount        decimal.Decimal
}

// ---------------------------------------------------------------------------
// Drafts (local → external)
// ---------------------------------------------------------------------------

type ContactDraft struct {
	ContactName     string
	CompanyName     string
	ContactType     string
	CustomerSubType string
	Email           string
	Phone           string
	Mobile          string
	CurrencyCode    string
}

type ItemDraft struct {
	Name         string
	SKU          string
	Description  string
	Unit         string
	Rate         decimal.Decimal
	PurchaseRate decimal.Decimal
	ItemType     string
	ProductType  string
}

type InvoiceLineDraft struct {
	Name        string
	Description string
	Rate        decimal.Decimal
	Quantity    decimal.Decimal
	Unit        string
}

type InvoiceDraft struct {
	CustomerID        string
	InvoiceNumber     string
	ReferenceNumber   string
	Date              time.Time
	DueDate           *time.Time
	LineItems         []InvoiceLineDraft
	Notes             string
	Terms             string
	PaymentTerms      int
	PaymentTermsLabel string
	// Discount is an absolute amount applied before tax when positive.
	Discount decimal.Decimal
	TaxTotal decimal.Decimal
}

type PaymentDraft struct {
	CustomerID  string
	InvoiceID   string
	Amount      decimal.Decimal
	Date        time.Time
	PaymentMode string
	Reference   string
}
