package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialReceipt(t *testing.T) {
	now := time.Now()

	entry, err := NewMaterialReceipt("WID-1", "Stores - E", decimal.NewFromInt(12), decimal.NewFromInt(5), now)
	require.NoError(t, err)
	assert.Equal(t, PurposeMaterialReceipt, entry.Purpose)
	require.Len(t, entry.Items, 1)
	assert.Equal(t, "Stores - E", entry.Items[0].TargetWarehouse)
	assert.True(t, entry.Items[0].ValuationRate.Equal(decimal.NewFromInt(5)))

	_, err = NewMaterialReceipt("WID-1", "Stores - E", decimal.Zero, decimal.Zero, now)
	assert.Error(t, err)

	_, err = NewMaterialReceipt("WID-1", "", decimal.NewFromInt(1), decimal.Zero, now)
	assert.Error(t, err)
}

func TestNewStockReconciliation(t *testing.T) {
	now := time.Now()

	rec, err := NewStockReconciliation("WID-1", "Stores - E", decimal.NewFromInt(3), decimal.NewFromInt(0), decimal.Zero, now)
	require.NoError(t, err, "reconciling down to zero is allowed")
	assert.True(t, rec.Items[0].CurrentQty.Equal(decimal.NewFromInt(3)))

	_, err = NewStockReconciliation("WID-1", "Stores - E", decimal.Zero, decimal.NewFromInt(-1), decimal.Zero, now)
	assert.Error(t, err)
}
