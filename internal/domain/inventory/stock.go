package inventory

import (
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockEntryPurpose is the kind of stock movement.
type StockEntryPurpose string

const (
	PurposeMaterialReceipt StockEntryPurpose = "Material Receipt"
)

// Warehouse is a stock location.
type Warehouse struct {
	Name     string
	Disabled bool
}

// StockEntryDetail is one line of a stock entry.
type StockEntryDetail struct {
	ItemCode        string
	Qty             decimal.Decimal
	TargetWarehouse string
	BasicRate       decimal.Decimal
	ValuationRate   decimal.Decimal
}

// StockEntry is a submitted stock movement. Submitting a Material Receipt
// raises the on-hand quantity of every target bin.
type StockEntry struct {
	shared.BaseEntity
	Purpose     StockEntryPurpose
	PostingDate time.Time
	Remarks     string
	Items       []StockEntryDetail
}

// NewMaterialReceipt creates an opening receipt of qty units of itemCode.
func NewMaterialReceipt(itemCode, warehouse string, qty, rate decimal.Decimal, postedAt time.Time) (*StockEntry, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "material receipt quantity must be positive")
	}
	if warehouse == "" {
		return nil, shared.NewDomainError("WAREHOUSE_REQUIRED", "target warehouse is required")
	}
	return &StockEntry{
		BaseEntity:  shared.NewBaseEntity(),
		Purpose:     PurposeMaterialReceipt,
		PostingDate: postedAt,
		Items: []StockEntryDetail{{
			ItemCode:        itemCode,
			Qty:             qty,
			TargetWarehouse: warehouse,
			BasicRate:       rate,
			ValuationRate:   rate,
		}},
	}, nil
}

// StockReconciliationItem sets the absolute quantity of an item in a
// warehouse.
type StockReconciliationItem struct {
	ItemCode      string
	Warehouse     string
	Qty           decimal.Decimal
	CurrentQty    decimal.Decimal
	ValuationRate decimal.Decimal
}

// StockReconciliation overwrites on-hand quantities on submit.
type StockReconciliation struct {
	shared.BaseEntity
	PostingDate time.Time
	Items       []StockReconciliationItem
}

// NewStockReconciliation adjusts itemCode in warehouse from current to qty.
func NewStockReconciliation(itemCode, warehouse string, current, qty, rate decimal.Decimal, postedAt time.Time) (*StockReconciliation, error) {
	if qty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "reconciled quantity cannot be negative")
	}
	if warehouse == "" {
		return nil, shared.NewDomainError("WAREHOUSE_REQUIRED", "warehouse is required")
	}
	return &StockReconciliation{
		BaseEntity:  shared.NewBaseEntity(),
		PostingDate: postedAt,
		Items: []StockReconciliationItem{{
			ItemCode:      itemCode,
			Warehouse:     warehouse,
			Qty:           qty,
			CurrentQty:    current,
			ValuationRate: rate,
		}},
	}, nil
}
