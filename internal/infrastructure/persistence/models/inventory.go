package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/itsyosefali/zoho-integration/internal/domain/inventory"
)

// WarehouseModel is a stock location
type WarehouseModel struct {
	Name      string `gorm:"type:varchar(140);primary_key"`
	Disabled  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// BinModel holds the on-hand quantity of one item in one warehouse
type BinModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	ItemCode      string          `gorm:"type:varchar(140);not null;uniqueIndex:idx_bins_item_warehouse,priority:1"`
	Warehouse     string          `gorm:"type:varchar(140);not null;uniqueIndex:idx_bins_item_warehouse,priority:2"`
	ActualQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (BinModel) TableName() string {
	return "bins"
}

// StockEntryModel is a submitted stock movement
type StockEntryModel struct {
	BaseModel
	Purpose     string                  `gorm:"type:varchar(40);not null"`
	PostingDate time.Time               `gorm:"not null"`
	Remarks     string                  `gorm:"type:text"`
	Items       []StockEntryDetailModel `gorm:"foreignKey:StockEntryID"`
}

// TableName returns the table name for GORM
func (StockEntryModel) TableName() string {
	return "stock_entries"
}

// StockEntryDetailModel is one line of a stock entry
type StockEntryDetailModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	StockEntryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode        string          `gorm:"type:varchar(140);not null"`
	Qty             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TargetWarehouse string          `gorm:"column:t_warehouse;type:varchar(140);not null"`
	BasicRate       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationRate   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockEntryDetailModel) TableName() string {
	return "stock_entry_details"
}

// StockEntryModelFromDomain creates a persistence model from a domain StockEntry
func StockEntryModelFromDomain(e *inventory.StockEntry) *StockEntryModel {
	m := &StockEntryModel{
		Purpose:     string(e.Purpose),
		PostingDate: e.PostingDate,
		Remarks:     e.Remarks,
		Items:       make([]StockEntryDetailModel, 0, len(e.Items)),
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	for _, d := range e.Items {
		m.Items = append(m.Items, StockEntryDetailModel{
			ID:              uuid.New(),
			StockEntryID:    e.ID,
			ItemCode:        d.ItemCode,
			Qty:             d.Qty,
			TargetWarehouse: d.TargetWarehouse,
			BasicRate:       d.BasicRate,
			ValuationRate:   d.ValuationRate,
		})
	}
	return m
}

// StockReconciliationModel overwrites on-hand quantities
type StockReconciliationModel struct {
	BaseModel
	PostingDate time.Time                      `gorm:"not null"`
	Items       []StockReconciliationItemModel `gorm:"foreignKey:StockReconciliationID"`
}

// TableName returns the table name for GORM
func (StockReconciliationModel) TableName() string {
	return "stock_reconciliations"
}

// StockReconciliationItemModel is one line of a stock reconciliation
type StockReconciliationItemModel struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primary_key"`
	StockReconciliationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode              string          `gorm:"type:varchar(140);not null"`
	Warehouse             string          `gorm:"type:varchar(140);not null"`
	Qty                   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentQty            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationRate         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockReconciliationItemModel) TableName() string {
	return "stock_reconciliation_items"
}

// StockReconciliationModelFromDomain creates a persistence model from a domain StockReconciliation
func StockReconciliationModelFromDomain(r *inventory.StockReconciliation) *StockReconciliationModel {
	m := &StockReconciliationModel{
		PostingDate: r.PostingDate,
		Items:       make([]StockReconciliationItemModel, 0, len(r.Items)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for _, it := range r.Items {
		m.Items = append(m.Items, StockReconciliationItemModel{
			ID:                    uuid.New(),
			StockReconciliationID: r.ID,
			ItemCode:              it.ItemCode,
			Warehouse:             it.Warehouse,
			Qty:                   it.Qty,
			CurrentQty:            it.CurrentQty,
			ValuationRate:         it.ValuationRate,
		})
	}
	return m
}
