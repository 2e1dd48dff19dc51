package partner

import (
	"strings"
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerType distinguishes people from organisations.
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "Individual"
	CustomerTypeCompany    CustomerType = "Company"
)

// Customer is the host's customer record. Fields prefixed with Zoho mirror
// the bound Zoho Books contact and are overwritten on every sync; the
// remaining fields are owned locally.
type Customer struct {
	shared.BaseEntity
	CustomerName    string
	CustomerType    CustomerType
	CustomerGroup   string
	Territory       string
	DefaultCurrency string
	Disabled        bool
	EmailID         string
	MobileNo        string
	Notes           string

	ZohoContactID             string
	ZohoContactType           string
	ZohoStatus                string
	ZohoCompanyName           string
	ZohoEmail                 string
	ZohoPhone                 string
	ZohoMobile                string
	ZohoFirstName             string
	ZohoLastName              string
	ZohoPaymentTerms          int
	ZohoPaymentTermsLabel     string
	ZohoOutstandingReceivable decimal.Decimal
	ZohoUnusedCredits         decimal.Decimal
	ZohoLastSyncedAt          *time.Time
}

// NewCustomer creates a customer with a generated id.
func NewCustomer(name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("CUSTOMER_NAME_REQUIRED", "customer_name is required")
	}
	return &Customer{
		BaseEntity:   shared.NewBaseEntity(),
		CustomerName: name,
		CustomerType: CustomerTypeCompany,
	}, nil
}

// IsSynced reports whether the customer is bound to a Zoho contact.
func (c *Customer) IsSynced() bool {
	return c.ZohoContactID != ""
}

// ContactEmail is the local email, falling back to the mirrored one.
func (c *Customer) ContactEmail() string {
	if c.EmailID != "" {
		return c.EmailID
	}
	return c.ZohoEmail
}

// ContactMobile is the local mobile number, falling back to the mirrored one.
func (c *Customer) ContactMobile() string {
	if c.MobileNo != "" {
		return c.MobileNo
	}
	return c.ZohoMobile
}

// MarkSynced binds the customer to contactID and stamps the sync time.
func (c *Customer) MarkSynced(contactID string, at time.Time) {
	if contactID != "" {
		c.ZohoContactID = contactID
	}
	c.ZohoLastSyncedAt = &at
	c.Touch(at)
}
