package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itsyosefali/zoho-integration/internal/domain/inventory"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/persistence/models"
)

// GormStockLedger implements inventory.StockLedger using GORM. Each submit
// writes the document and its bin updates in one transaction.
type GormStockLedger struct {
	db *gorm.DB
}

var _ inventory.StockLedger = (*GormStockLedger)(nil)

// NewGormStockLedger creates a new GormStockLedger
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

// WarehouseExists checks whether an enabled warehouse exists
func (l *GormStockLedger) WarehouseExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	var count int64
	if err := l.db.WithContext(ctx).Model(&models.WarehouseModel{}).
		Where("name = ? AND disabled = ?", name, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWarehouse inserts a warehouse
func (l *GormStockLedger) CreateWarehouse(ctx context.Context, w *inventory.Warehouse) error {
	return translateWriteError(l.db.WithContext(ctx).Create(&models.WarehouseModel{
		Name:      w.Name,
		Disabled:  w.Disabled,
		CreatedAt: time.Now(),
	}).Error)
}

// OnHandQty returns the bin quantity, zero when no bin exists
func (l *GormStockLedger) OnHandQty(ctx context.Context, itemCode, warehouse string) (decimal.Decimal, error) {
	var bin models.BinModel
	err := l.db.WithContext(ctx).
		Where("item_code = ? AND warehouse = ?", itemCode, warehouse).
		First(&bin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return bin.ActualQty, nil
}

// SubmitStockEntry records entry and adds its quantities to the target bins
func (l *GormStockLedger) SubmitStockEntry(ctx context.Context, entry *inventory.StockEntry) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.StockEntryModelFromDomain(entry)).Error; err != nil {
			return translateWriteError(err)
		}
		for _, d := range entry.Items {
			bin, err := lockBin(tx, d.ItemCode, d.TargetWarehouse)
			if err != nil {
				return err
			}
			bin.ActualQty = bin.ActualQty.Add(d.Qty)
			bin.ValuationRate = d.ValuationRate
			bin.UpdatedAt = entry.PostingDate
			if err := tx.Save(bin).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SubmitStockReconciliation records rec and overwrites the bin quantities
func (l *GormStockLedger) SubmitStockReconciliation(ctx context.Context, rec *inventory.StockReconciliation) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.StockReconciliationModelFromDomain(rec)).Error; err != nil {
			return translateWriteError(err)
		}
		for _, it := range rec.Items {
			bin, err := lockBin(tx, it.ItemCode, it.Warehouse)
			if err != nil {
				return err
			}
			bin.ActualQty = it.Qty
			if it.ValuationRate.IsPositive() {
				bin.ValuationRate = it.ValuationRate
			}
			bin.UpdatedAt = rec.PostingDate
			if err := tx.Save(bin).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// lockBin loads the bin for update, or returns a new unsaved one
func lockBin(tx *gorm.DB, itemCode, warehouse string) (*models.BinModel, error) {
	var bin models.BinModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_code = ? AND warehouse = ?", itemCode, warehouse).
		First(&bin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.BinModel{ID: uuid.New(), ItemCode: itemCode, Warehouse: warehouse}, nil
	}
	if err != nil {
		return nil, err
	}
	return &bin, nil
}
