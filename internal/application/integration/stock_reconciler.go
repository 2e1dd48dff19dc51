package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockMovement is the stock posting made for a synced item.
type StockMovement string

const (
	StockMovementNone           StockMovement = "none"
	StockMovementReceipt        StockMovement = "material_receipt"
	StockMovementReconciliation StockMovement = "stock_reconciliation"
	StockMovementSkipped        StockMovement = "skipped"
)

// StockResult reports what StockReconciler did for one item. Warning is set
// when the step was skipped for a reason the operator should see.
type StockResult struct {
	Movement StockMovement
	Warning  string
}

// StockReconciler aligns local on-hand quantities with Zoho's stock_on_hand.
type StockReconciler struct {
	ledger   inventory.StockLedger
	settings integration.Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewStockReconciler creates a StockReconciler.
func NewStockReconciler(ledger inventory.StockLedger, settings integration.Settings, logger *zap.Logger) *StockReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockReconciler{
		ledger:   ledger,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Reconcile posts a Material Receipt for a newly created item with positive
// remote stock, or a Stock Reconciliation for an existing item whose bin
// quantity differs from the remote one.
func (s *StockReconciler) Reconcile(ctx context.Context, item *catalog.Item, remote integration.RemoteItem, created bool) (StockResult, error) {
	if !item.IsStockItem || remote.StockOnHand == nil {
		return StockResult{Movement: StockMovementNone}, nil
	}
	remoteQty := *remote.StockOnHand
	if created && !remoteQty.IsPositive() {
		return StockResult{Movement: StockMovementNone}, nil
	}

	warehouse := item.DefaultWarehouse
	if warehouse == "" {
		warehouse = s.settings.DefaultWarehouse
	}
	if warehouse == "" {
		return s.skip(fmt.Sprintf("No default warehouse configured for item %s. Skipping stock update.", item.ItemName)), nil
	}
	ok, err := s.ledger.WarehouseExists(ctx, warehouse)
	if err != nil {
		return StockResult{}, err
	}
	if !ok {
		return s.skip(fmt.Sprintf("Warehouse '%s' does not exist. Skipping stock update for %s", warehouse, item.ItemName)), nil
	}

	rate := costRateOf(remote)
	now := s.now()

	if created {
		entry, err := inventory.NewMaterialReceipt(item.ItemCode, warehouse, remoteQty, rate, now)
		if err != nil {
			return StockResult{}, err
		}
		if err := s.ledger.SubmitStockEntry(ctx, entry); err != nil {
			return StockResult{}, err
		}
		s.logger.Info("opening stock created",
			zap.String("item_code", item.ItemCode),
			zap.String("warehouse", warehouse),
			zap.String("qty", remoteQty.String()),
			zap.String("rate", rate.String()),
		)
		return StockResult{Movement: StockMovementReceipt}, nil
	}

	current, err := s.ledger.OnHandQty(ctx, item.ItemCode, warehouse)
	if err != nil {
		return StockResult{}, err
	}
	if current.Equal(remoteQty) {
		return StockResult{Movement: StockMovementNone}, nil
	}
	if !rate.IsPositive() {
		rate = item.ValuationRate
	}
	rec, err := inventory.NewStockReconciliation(item.ItemCode, warehouse, current, remoteQty, rate, now)
	if err != nil {
		return StockResult{}, err
	}
	if err := s.ledger.SubmitStockReconciliation(ctx, rec); err != nil {
		return StockResult{}, err
	}
	s.logger.Info("stock reconciled",
		zap.String("item_code", item.ItemCode),
		zap.String("warehouse", warehouse),
		zap.String("from", current.String()),
		zap.String("to", remoteQty.String()),
	)
	return StockResult{Movement: StockMovementReconciliation}, nil
}

func (s *StockReconciler) skip(warning string) StockResult {
	s.logger.Warn("stock update skipped", zap.String("reason", warning))
	return StockResult{Movement: StockMovementSkipped, Warning: warning}
}

// costRateOf values stock at the purchase rate, falling back to the selling
// rate.
func costRateOf(remote integration.RemoteItem) decimal.Decimal {
	if remote.PurchaseRate.IsPositive() {
		return remote.PurchaseRate
	}
	return remote.Rate
}
