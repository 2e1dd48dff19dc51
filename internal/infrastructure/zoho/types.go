package zoho

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// number decodes Zoho amounts, which arrive as JSON numbers, numeric strings
// or "" for unset values.
type number struct {
	value   decimal.Decimal
	present bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	n.value = d
	n.present = true
	return nil
}

// zohoTimeLayout is the provider's timestamp format, e.g. 2026-01-15T10:24:51+0400
const zohoTimeLayout = "2006-01-02T15:04:05-0700"

func parseZohoTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{zohoTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// envelope is the common part of every Books response
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type pageContext struct {
	Page        int  `json:"page"`
	PerPage     int  `json:"per_page"`
	HasMorePage bool `json:"has_more_page"`
}

type organization struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	CurrencyCode   string `json:"currency_code"`
	IsDefaultOrg   bool   `json:"is_default_org"`
}

type organizationsResponse struct {
	envelope
	Organizations []organization `json:"organizations"`
}

type contact struct {
	ContactID             string `json:"contact_id"`
	ContactName           string `json:"contact_name"`
	CompanyName           string `json:"company_name"`
	ContactType           string `json:"contact_type"`
	CustomerSubType       string `json:"customer_sub_type"`
	Status                string `json:"status"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Mobile                string `json:"mobile"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	CurrencyCode          string `json:"currency_code"`
	PaymentTerms          number `json:"payment_terms"`
	PaymentTermsLabel     string `json:"payment_terms_label"`
	OutstandingReceivable number `json:"outstanding_receivable_amount"`
	UnusedCredits         number `json:"unused_credits_receivable_amount"`
	LastModifiedTime      string `json:"last_modified_time"`
}

type contactsResponse struct {
	envelope
	Contacts    []contact   `json:"contacts"`
	PageContext pageContext `json:"page_context"`
}

type contactResponse struct {
	envelope
	Contact contact `json:"contact"`
}

type contactPerson struct {
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Mobile           string `json:"mobile,omitempty"`
	IsPrimaryContact bool   `json:"is_primary_contact"`
}

type contactPayload struct {
	ContactName     string          `json:"contact_name"`
	CompanyName     string          `json:"company_name,omitempty"`
	ContactType     string          `json:"contact_type,omitempty"`
	CustomerSubType string          `json:"customer_sub_type,omitempty"`
	ContactPersons  []contactPerson `json:"contact_persons,omitempty"`
}

type item struct {
	ItemID                   string  `json:"item_id"`
	Name                     string  `json:"name"`
	SKU                      string  `json:"sku"`
	Description              string  `json:"description"`
	Unit                     string  `json:"unit"`
	Status                   string  `json:"status"`
	Rate                     number  `json:"rate"`
	PurchaseRate             number  `json:"purchase_rate"`
	TaxPercentage            number  `json:"tax_percentage"`
	InventoryValuationMethod string  `json:"inventory_valuation_method"`
	AccountID                string  `json:"account_id"`
	AccountName              string  `json:"account_name"`
	PurchaseAccountID        string  `json:"purchase_account_id"`
	PurchaseAccountName      string  `json:"purchase_account_name"`
	InventoryAccountID       string  `json:"inventory_account_id"`
	InventoryAccountName     string  `json:"inventory_account_name"`
	ItemType                 string  `json:"item_type"`
	ProductType              string  `json:"product_type"`
	TrackInventory           bool    `json:"track_inventory"`
	StockOnHand              *number `json:"stock_on_hand"`
	ReorderLevel             number  `json:"reorder_level"`
	LastModifiedTime         string  `json:"last_modified_time"`
}

type itemsResponse struct {
	envelope
	Items       []item      `json:"items"`
	PageContext pageContext `json:"page_context"`
}

type itemResponse struct {
	envelope
	Item item `json:"item"`
}

type itemPayload struct {
	Name         string   `json:"name"`
	SKU          string   `json:"sku,omitempty"`
	Description  string   `json:"description,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Rate         float64  `json:"rate"`
	PurchaseRate *float64 `json:"purchase_rate,omitempty"`
	ItemType     string   `json:"item_type,omitempty"`
	ProductType  string   `json:"product_type,omitempty"`
}

type lineItemPayload struct {
	ItemID      string  `json:"item_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Rate        float64 `json:"rate"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit,omitempty"`
}

type invoicePayload struct {
	CustomerID          string            `json:"customer_id"`
	Date                string            `json:"date"`
	DueDate             string            `json:"due_date,omitempty"`
	InvoiceNumber       string            `json:"invoice_number,omitempty"`
	ReferenceNumber     string            `json:"reference_number,omitempty"`
	LineItems           []lineItemPayload `json:"line_items"`
	Notes               string            `json:"notes"`
	Terms               string            `json:"terms,omitempty"`
	PaymentTerms        int               `json:"payment_terms"`
	PaymentTermsLabel   string            `json:"payment_terms_label,omitempty"`
	Discount            *float64          `json:"discount,omitempty"`
	IsDiscountBeforeTax *bool             `json:"is_discount_before_tax,omitempty"`
	TaxTotal            *float64          `json:"tax_total,omitempty"`
}

type invoice struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	Total         number `json:"total"`
}

type invoiceResponse struct {
	envelope
	Invoice invoice `json:"invoice"`
}

type paymentInvoice struct {
	InvoiceID     string  `json:"invoice_id"`
	AmountApplied float64 `json:"amount_applied"`
}

type paymentPayload struct {
	CustomerID      string           `json:"customer_id"`
	PaymentMode     string           `json:"payment_mode"`
	Amount          float64          `json:"amount"`
	Date            string           `json:"date"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Invoices        []paymentInvoice `json:"invoices"`
}

type payment struct {
	PaymentID     string `json:"payment_id"`
	PaymentNumber string `json:"payment_number"`
	Amount        number `json:"amount"`
}

type paymentResponse struct {
	envelope
	Payment payment `json:"payment"`
}
