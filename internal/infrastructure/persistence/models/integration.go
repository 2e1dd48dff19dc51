package models

import (
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// CredentialSingletonID is the primary key of the only credential row
const CredentialSingletonID = 1

// CredentialModel stores the OAuth state of the connector
type CredentialModel struct {
	ID                   uint   `gorm:"primary_key"`
	ClientID             string `gorm:"type:varchar(200)"`
	ClientSecret         string `gorm:"type:varchar(200)"`
	RedirectURI          string `gorm:"type:varchar(500)"`
	AccessToken          string `gorm:"type:text"`
	RefreshToken         string `gorm:"type:text"`
	AccessTokenExpiresAt *time.Time
	OrganizationID       string `gorm:"type:varchar(64)"`
	Enabled              bool   `gorm:"not null;default:false"`
	UpdatedAt            time.Time
}

// TableName returns the table name for GORM
func (CredentialModel) TableName() string {
	return "zoho_credentials"
}

// ToDomain converts the persistence model to a domain Credential
func (m *CredentialModel) ToDomain() *integration.Credential {
	return &integration.Credential{
		ClientID:             m.ClientID,
		ClientSecret:         m.ClientSecret,
		RedirectURI:          m.RedirectURI,
		AccessToken:          m.AccessToken,
		RefreshToken:         m.RefreshToken,
		AccessTokenExpiresAt: m.AccessTokenExpiresAt,
		OrganizationID:       m.OrganizationID,
		Enabled:              m.Enabled,
		UpdatedAt:            m.UpdatedAt,
	}
}

// CredentialModelFromDomain creates the singleton row from a domain Credential
func CredentialModelFromDomain(c *integration.Credential) *CredentialModel {
	return &CredentialModel{
		ID:                   CredentialSingletonID,
		ClientID:             c.ClientID,
		ClientSecret:         c.ClientSecret,
		RedirectURI:          c.RedirectURI,
		AccessToken:          c.AccessToken,
		RefreshToken:         c.RefreshToken,
		AccessTokenExpiresAt: c.AccessTokenExpiresAt,
		OrganizationID:       c.OrganizationID,
		Enabled:              c.Enabled,
		UpdatedAt:            c.UpdatedAt,
	}
}

// AllModels lists every model for AutoMigrate in tests and development
func AllModels() []any {
	return []any{
		&CustomerModel{},
		&ItemModel{},
		&UOMModel{},
		&ItemGroupModel{},
		&WarehouseModel{},
		&BinModel{},
		&StockEntryModel{},
		&StockEntryDetailModel{},
		&StockReconciliationModel{},
		&StockReconciliationItemModel{},
		&SalesInvoiceModel{},
		&SalesInvoiceItemModel{},
		&CredentialModel{},
	}
}
