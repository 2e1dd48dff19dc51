package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer entity
type CustomerModel struct {
	BaseModel
	CustomerName    string `gorm:"type:varchar(140);not null;uniqueIndex:idx_customers_name"`
	CustomerType    string `gorm:"type:varchar(20);not null"`
	CustomerGroup   string `gorm:"type:varchar(140)"`
	Territory       string `gorm:"type:varchar(140)"`
	DefaultCurrency string `gorm:"type:varchar(3)"`
	Disabled        bool   `gorm:"not null;default:false"`
	EmailID         string `gorm:"type:varchar(140)"`
	MobileNo        string `gorm:"type:varchar(40)"`
	Notes           string `gorm:"type:text"`

	ZohoContactID             *string         `gorm:"type:varchar(64);uniqueIndex:idx_customers_zoho_contact_id"`
	ZohoContactType           string          `gorm:"type:varchar(20)"`
	ZohoStatus                string          `gorm:"type:varchar(20)"`
	ZohoCompanyName           string          `gorm:"type:varchar(200)"`
	ZohoEmail                 string          `gorm:"type:varchar(140)"`
	ZohoPhone                 string          `gorm:"type:varchar(40)"`
	ZohoMobile                string          `gorm:"type:varchar(40)"`
	ZohoFirstName             string          `gorm:"type:varchar(100)"`
	ZohoLastName              string          `gorm:"type:varchar(100)"`
	ZohoPaymentTerms          int             `gorm:"not null;default:0"`
	ZohoPaymentTermsLabel     string          `gorm:"type:varchar(100)"`
	ZohoOutstandingReceivable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoUnusedCredits         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoLastSyncedAt          *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity:                m.BaseModel.ToDomain(),
		CustomerName:              m.CustomerName,
		CustomerType:              partner.CustomerType(m.CustomerType),
		CustomerGroup:             m.CustomerGroup,
		Territory:                 m.Territory,
		DefaultCurrency:           m.DefaultCurrency,
		Disabled:                  m.Disabled,
		EmailID:                   m.EmailID,
		MobileNo:                  m.MobileNo,
		Notes:                     m.Notes,
		ZohoContactID:             deref(m.ZohoContactID),
		ZohoContactType:           m.ZohoContactType,
		ZohoStatus:                m.ZohoStatus,
		ZohoCompanyName:           m.ZohoCompanyName,
		ZohoEmail:                 m.ZohoEmail,
		ZohoPhone:                 m.ZohoPhone,
		ZohoMobile:                m.ZohoMobile,
		ZohoFirstName:             m.ZohoFirstName,
		ZohoLastName:              m.ZohoLastName,
		ZohoPaymentTerms:          m.ZohoPaymentTerms,
		ZohoPaymentTermsLabel:     m.ZohoPaymentTermsLabel,
		ZohoOutstandingReceivable: m.ZohoOutstandingReceivable,
		ZohoUnusedCredits:         m.ZohoUnusedCredits,
		ZohoLastSyncedAt:          m.ZohoLastSyncedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.CustomerName = c.CustomerName
	m.CustomerType = string(c.CustomerType)
	m.CustomerGroup = c.CustomerGroup
	m.Territory = c.Territory
	m.DefaultCurrency = c.DefaultCurrency
	m.Disabled = c.Disabled
	m.EmailID = c.EmailID
	m.MobileNo = c.MobileNo
	m.Notes = c.Notes
	m.ZohoContactID = nullable(c.ZohoContactID)
	m.ZohoContactType = c.ZohoContactType
	m.ZohoStatus = c.ZohoStatus
	m.ZohoCompanyName = c.ZohoCompanyName
	m.ZohoEmail = c.ZohoEmail
	m.ZohoPhone = c.ZohoPhone
	m.ZohoMobile = c.ZohoMobile
	m.ZohoFirstName = c.ZohoFirstName
	m.ZohoLastName = c.ZohoLastName
	m.ZohoPaymentTerms = c.ZohoPaymentTerms
	m.ZohoPaymentTermsLabel = c.ZohoPaymentTermsLabel
	m.ZohoOutstandingReceivable = c.ZohoOutstandingReceivable
	m.ZohoUnusedCredits = c.ZohoUnusedCredits
	m.ZohoLastSyncedAt = c.ZohoLastSyncedAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
