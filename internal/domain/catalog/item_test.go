package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem("WID-1", "")
	require.NoError(t, err)
	assert.Equal(t, "WID-1", item.ItemName, "name falls back to code")
	assert.True(t, item.IsStockItem)
	assert.Equal(t, ValuationFIFO, item.ValuationMethod)

	_, err = NewItem("", "Widget")
	assert.Error(t, err)
}

func TestItem_CostRate(t *testing.T) {
	item := &Item{StandardRate: decimal.NewFromInt(120)}
	assert.True(t, item.CostRate().Equal(decimal.NewFromInt(120)))

	item.ValuationRate = decimal.NewFromInt(80)
	assert.True(t, item.CostRate().Equal(decimal.NewFromInt(80)))
}

func TestItem_MarkSynced(t *testing.T) {
	item, err := NewItem("WID-1", "Widget")
	require.NoError(t, err)

	at := time.Now()
	item.MarkSynced("9001", at)
	assert.True(t, item.IsSynced())
	require.NotNil(t, item.ZohoLastSyncedAt)
}
