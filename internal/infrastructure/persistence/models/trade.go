package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/itsyosefali/zoho-integration/internal/domain/trade"
)

// SalesInvoiceModel is the persistence model for the SalesInvoice entity
type SalesInvoiceModel struct {
	BaseModel
	Name                 string    `gorm:"type:varchar(140);not null;uniqueIndex:idx_sales_invoices_name"`
	CustomerName         string    `gorm:"type:varchar(140);not null;index"`
	PostingDate          time.Time `gorm:"not null"`
	DueDate              *time.Time
	Remarks              string          `gorm:"type:text"`
	DiscountAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTaxesAndCharges decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DocStatus            string          `gorm:"type:varchar(20);not null;default:'Draft'"`
	ZohoInvoiceID        *string         `gorm:"type:varchar(64);uniqueIndex:idx_sales_invoices_zoho_invoice_id"`
	ZohoInvoiceNumber    string          `gorm:"type:varchar(140)"`
	ZohoSyncStatus       string          `gorm:"type:varchar(20);not null;default:'Not Synced'"`
	ZohoLastSyncedAt     *time.Time
	Items                []SalesInvoiceItemModel `gorm:"foreignKey:SalesInvoiceID"`
}

// TableName returns the table name for GORM
func (SalesInvoiceModel) TableName() string {
	return "sales_invoices"
}

// SalesInvoiceItemModel is one invoice line
type SalesInvoiceItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	SalesInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo         int             `gorm:"not null;default:0"`
	ItemCode       string          `gorm:"type:varchar(140);not null"`
	ItemName       string          `gorm:"type:varchar(140)"`
	Description    string          `gorm:"type:text"`
	Qty            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UOM            string          `gorm:"column:uom;type:varchar(40)"`
}

// TableName returns the table name for GORM
func (SalesInvoiceItemModel) TableName() string {
	return "sales_invoice_items"
}

// ToDomain converts the persistence model to a domain SalesInvoice
func (m *SalesInvoiceModel) ToDomain() *trade.SalesInvoice {
	inv := &trade.SalesInvoice{
		BaseEntity:           m.BaseModel.ToDomain(),
		Name:                 m.Name,
		CustomerName:         m.CustomerName,
		PostingDate:          m.PostingDate,
		DueDate:              m.DueDate,
		Remarks:              m.Remarks,
		DiscountAmount:       m.DiscountAmount,
		TotalTaxesAndCharges: m.TotalTaxesAndCharges,
		GrandTotal:           m.GrandTotal,
		PaidAmount:           m.PaidAmount,
		DocStatus:            trade.DocStatus(m.DocStatus),
		ZohoInvoiceID:        deref(m.ZohoInvoiceID),
		ZohoInvoiceNumber:    m.ZohoInvoiceNumber,
		ZohoSyncStatus:       trade.ZohoSyncStatus(m.ZohoSyncStatus),
		ZohoLastSyncedAt:     m.ZohoLastSyncedAt,
		Items:                make([]trade.SalesInvoiceItem, 0, len(m.Items)),
	}
	for _, it := range m.Items {
		inv.Items = append(inv.Items, trade.SalesInvoiceItem{
			ItemCode:    it.ItemCode,
			ItemName:    it.ItemName,
			Description: it.Description,
			Qty:         it.Qty,
			Rate:        it.Rate,
			UOM:         it.UOM,
		})
	}
	return inv
}

// FromDomain populates the persistence model from a domain SalesInvoice
func (m *SalesInvoiceModel) FromDomain(inv *trade.SalesInvoice) {
	m.FromDomainBaseEntity(inv.BaseEntity)
	m.Name = inv.Name
	m.CustomerName = inv.CustomerName
	m.PostingDate = inv.PostingDate
	m.DueDate = inv.DueDate
	m.Remarks = inv.Remarks
	m.DiscountAmount = inv.DiscountAmount
	m.TotalTaxesAndCharges = inv.TotalTaxesAndCharges
	m.GrandTotal = inv.GrandTotal
	m.PaidAmount = inv.PaidAmount
	m.DocStatus = string(inv.DocStatus)
	m.ZohoInvoiceID = nullable(inv.ZohoInvoiceID)
	m.ZohoInvoiceNumber = inv.ZohoInvoiceNumber
	m.ZohoSyncStatus = string(inv.ZohoSyncStatus)
	if m.ZohoSyncStatus == "" {
		m.ZohoSyncStatus = string(trade.ZohoSyncNotSynced)
	}
	m.ZohoLastSyncedAt = inv.ZohoLastSyncedAt
	m.Items = make([]SalesInvoiceItemModel, 0, len(inv.Items))
	for i, it := range inv.Items {
		m.Items = append(m.Items, SalesInvoiceItemModel{
			ID:             uuid.New(),
			SalesInvoiceID: inv.ID,
			LineNo:         i + 1,
			ItemCode:       it.ItemCode,
			ItemName:       it.ItemName,
			Description:    it.Description,
			Qty:            it.Qty,
			Rate:           it.Rate,
			UOM:            it.UOM,
		})
	}
}

// SalesInvoiceModelFromDomain creates a new persistence model from a domain SalesInvoice
func SalesInvoiceModelFromDomain(inv *trade.SalesInvoice) *SalesInvoiceModel {
	m := &SalesInvoiceModel{}
	m.FromDomain(inv)
	return m
}
