package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
)

// ItemModel is the persistence model for the Item entity
type ItemModel struct {
	BaseModel
	ItemCode         string          `gorm:"type:varchar(140);not null;uniqueIndex:idx_items_code"`
	ItemName         string          `gorm:"type:varchar(140);not null;index:idx_items_name"`
	Description      string          `gorm:"type:text"`
	ItemGroup        string          `gorm:"type:varchar(140)"`
	StockUOM         string          `gorm:"column:stock_uom;type:varchar(40)"`
	PurchaseUOM      string          `gorm:"column:purchase_uom;type:varchar(40)"`
	SalesUOM         string          `gorm:"column:sales_uom;type:varchar(40)"`
	IsStockItem      bool            `gorm:"not null;default:true"`
	IsSalesItem      bool            `gorm:"not null;default:true"`
	IsPurchaseItem   bool            `gorm:"not null;default:true"`
	StandardRate     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationRate    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ValuationMethod  string          `gorm:"type:varchar(20)"`
	Disabled         bool            `gorm:"not null;default:false"`
	IsTaxable        bool            `gorm:"not null;default:false"`
	TaxCategory      string          `gorm:"type:varchar(140)"`
	DefaultWarehouse string          `gorm:"type:varchar(140)"`

	ZohoItemID               *string         `gorm:"type:varchar(64);uniqueIndex:idx_items_zoho_item_id"`
	ZohoSKU                  string          `gorm:"column:zoho_sku;type:varchar(140)"`
	ZohoName                 string          `gorm:"type:varchar(200)"`
	ZohoAccountID            string          `gorm:"type:varchar(64)"`
	ZohoAccountName          string          `gorm:"type:varchar(140)"`
	ZohoPurchaseAccountID    string          `gorm:"type:varchar(64)"`
	ZohoPurchaseAccountName  string          `gorm:"type:varchar(140)"`
	ZohoInventoryAccountID   string          `gorm:"type:varchar(64)"`
	ZohoInventoryAccountName string          `gorm:"type:varchar(140)"`
	ZohoItemType             string          `gorm:"type:varchar(40)"`
	ZohoProductType          string          `gorm:"type:varchar(40)"`
	ZohoTrackInventory       bool            `gorm:"not null;default:false"`
	ZohoStockOnHand          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoReorderLevel         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoPurchaseRate         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoSellingRate          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoValuationMethod      string          `gorm:"type:varchar(40)"`
	ZohoLastSyncedAt         *time.Time
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the persistence model to a domain Item entity
func (m *ItemModel) ToDomain() *catalog.Item {
	return &catalog.Item{
		BaseEntity:               m.BaseModel.ToDomain(),
		ItemCode:                 m.ItemCode,
		ItemName:                 m.ItemName,
		Description:              m.Description,
		ItemGroup:                m.ItemGroup,
		StockUOM:                 m.StockUOM,
		PurchaseUOM:              m.PurchaseUOM,
		SalesUOM:                 m.SalesUOM,
		IsStockItem:              m.IsStockItem,
		IsSalesItem:              m.IsSalesItem,
		IsPurchaseItem:           m.IsPurchaseItem,
		StandardRate:             m.StandardRate,
		ValuationRate:            m.ValuationRate,
		ValuationMethod:          catalog.ValuationMethod(m.ValuationMethod),
		Disabled:                 m.Disabled,
		IsTaxable:                m.IsTaxable,
		TaxCategory:              m.TaxCategory,
		DefaultWarehouse:         m.DefaultWarehouse,
		ZohoItemID:               deref(m.ZohoItemID),
		ZohoSKU:                  m.ZohoSKU,
		ZohoName:                 m.ZohoName,
		ZohoAccountID:            m.ZohoAccountID,
		ZohoAccountName:          m.ZohoAccountName,
		ZohoPurchaseAccountID:    m.ZohoPurchaseAccountID,
		ZohoPurchaseAccountName:  m.ZohoPurchaseAccountName,
		ZohoInventoryAccountID:   m.ZohoInventoryAccountID,
		ZohoInventoryAccountName: m.ZohoInventoryAccountName,
		ZohoItemType:             m.ZohoItemType,
		ZohoProductType:          m.ZohoProductType,
		ZohoTrackInventory:       m.ZohoTrackInventory,
		ZohoStockOnHand:          m.ZohoStockOnHand,
		ZohoReorderLevel:         m.ZohoReorderLevel,
		ZohoPurchaseRate:         m.ZohoPurchaseRate,
		ZohoSellingRate:          m.ZohoSellingRate,
		ZohoValuationMethod:      m.ZohoValuationMethod,
		ZohoLastSyncedAt:         m.ZohoLastSyncedAt,
	}
}

// FromDomain populates the persistence model from a domain Item entity
func (m *ItemModel) FromDomain(i *catalog.Item) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.ItemCode = i.ItemCode
	m.ItemName = i.ItemName
	m.Description = i.Description
	m.ItemGroup = i.ItemGroup
	m.StockUOM = i.StockUOM
	m.PurchaseUOM = i.PurchaseUOM
	m.SalesUOM = i.SalesUOM
	m.IsStockItem = i.IsStockItem
	m.IsSalesItem = i.IsSalesItem
	m.IsPurchaseItem = i.IsPurchaseItem
	m.StandardRate = i.StandardRate
	m.ValuationRate = i.ValuationRate
	m.ValuationMethod = string(i.ValuationMethod)
	m.Disabled = i.Disabled
	m.IsTaxable = i.IsTaxable
	m.TaxCategory = i.TaxCategory
	m.DefaultWarehouse = i.DefaultWarehouse
	m.ZohoItemID = nullable(i.ZohoItemID)
	m.ZohoSKU = i.ZohoSKU
	m.ZohoName = i.ZohoName
	m.ZohoAccountID = i.ZohoAccountID
	m.ZohoAccountName = i.ZohoAccountName
	m.ZohoPurchaseAccountID = i.ZohoPurchaseAccountID
	m.ZohoPurchaseAccountName = i.ZohoPurchaseAccountName
	m.ZohoInventoryAccountID = i.ZohoInventoryAccountID
	m.ZohoInventoryAccountName = i.ZohoInventoryAccountName
	m.ZohoItemType = i.ZohoItemType
	m.ZohoProductType = i.ZohoProductType
	m.ZohoTrackInventory = i.ZohoTrackInventory
	m.ZohoStockOnHand = i.ZohoStockOnHand
	m.ZohoReorderLevel = i.ZohoReorderLevel
	m.ZohoPurchaseRate = i.ZohoPurchaseRate
	m.ZohoSellingRate = i.ZohoSellingRate
	m.ZohoValuationMethod = i.ZohoValuationMethod
	m.ZohoLastSyncedAt = i.ZohoLastSyncedAt
}

// ItemModelFromDomain creates a new persistence model from a domain Item entity
func ItemModelFromDomain(i *catalog.Item) *ItemModel {
	m := &ItemModel{}
	m.FromDomain(i)
	return m
}

// UOMModel is a unit of measure
type UOMModel struct {
	Name              string `gorm:"type:varchar(40);primary_key"`
	MustBeWholeNumber bool   `gorm:"not null;default:false"`
	CreatedAt         time.Time
}

// TableName returns the table name for GORM
func (UOMModel) TableName() string {
	return "uoms"
}

// ItemGroupModel is a node of the item group tree
type ItemGroupModel struct {
	Name            string `gorm:"type:varchar(140);primary_key"`
	ParentItemGroup string `gorm:"type:varchar(140)"`
	IsGroup         bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (ItemGroupModel) TableName() string {
	return "item_groups"
}
