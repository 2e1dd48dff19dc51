package catalog

import (
	"strings"
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValuationMethod is the stock valuation method of an item.
type ValuationMethod string

const (
	ValuationFIFO          ValuationMethod = "FIFO"
	ValuationLIFO          ValuationMethod = "LIFO"
	ValuationMovingAverage ValuationMethod = "Moving Average"
)

// Item is the host's catalog item. Fields prefixed with Zoho mirror the bound
// Zoho Books item.
type Item struct {
	shared.BaseEntity
	ItemCode         string
	ItemName         string
	Description      string
	ItemGroup        string
	StockUOM         string
	PurchaseUOM      string
	SalesUOM         string
	IsStockItem      bool
	IsSalesItem      bool
	IsPurchaseItem   bool
	StandardRate     decimal.Decimal
	ValuationRate    decimal.Decimal
	ValuationMethod  ValuationMethod
	Disabled         bool
	IsTaxable        bool
	TaxCategory      string
	DefaultWarehouse string

	ZohoItemID               string
	ZohoSKU                  string
	ZohoName                 string
	ZohoAccountID            string
	ZohoAccountName          string
	ZohoPurchaseAccountID    string
	ZohoPurchaseAccountName  string
	ZohoInventoryAccountID   string
	ZohoInventoryAccountName string
	ZohoItemType             string
	ZohoProductType          string
	ZohoTrackInventory       bool
	ZohoStockOnHand          decimal.Decimal
	ZohoReorderLevel         decimal.Decimal
	ZohoPurchaseRate         decimal.Decimal
	ZohoSellingRate          decimal.Decimal
	ZohoValuationMethod      string
	ZohoLastSyncedAt         *time.Time
}

// NewItem creates an item with a generated id.
func NewItem(code, name string) (*Item, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("ITEM_CODE_REQUIRED", "item_code is required")
	}
	if strings.TrimSpace(name) == "" {
		name = code
	}
	return &Item{
		BaseEntity:      shared.NewBaseEntity(),
		ItemCode:        code,
		ItemName:        name,
		IsStockItem:     true,
		IsSalesItem:     true,
		IsPurchaseItem:  true,
		ValuationMethod: ValuationFIFO,
	}, nil
}

// IsSynced reports whether the item is bound to a Zoho item.
func (i *Item) IsSynced() bool {
	return i.ZohoItemID != ""
}

// MarkSynced binds the item to itemID and stamps the sync time.
func (i *Item) MarkSynced(itemID string, at time.Time) {
	if itemID != "" {
		i.ZohoItemID = itemID
	}
	i.ZohoLastSyncedAt = &at
	i.Touch(at)
}

// CostRate is the rate used to value stock movements: the valuation rate
// when set, otherwise the selling rate.
func (i *Item) CostRate() decimal.Decimal {
	if i.ValuationRate.IsPositive() {
		return i.ValuationRate
	}
	return i.StandardRate
}

// UOM is a unit of measure.
type UOM struct {
	Name              string
	MustBeWholeNumber bool
}

// ItemGroup is a node of the item group tree.
type ItemGroup struct {
	Name            string
	ParentItemGroup string
	IsGroup         bool
}
