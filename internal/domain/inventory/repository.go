package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockLedger is the host's stock ledger. Submit operations post to the
// affected bins atomically.
type StockLedger interface {
	WarehouseExists(ctx context.Context, name string) (bool, error)
	// OnHandQty returns zero when the item has no bin in the warehouse.
	OnHandQty(ctx context.Context, itemCode, warehouse string) (decimal.Decimal, error)
	SubmitStockEntry(ctx context.Context, entry *StockEntry) error
	SubmitStockReconciliation(ctx context.Context, rec *StockReconciliation) error
}
