package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
	"go.uber.org/zap"
)

// RecordPushServiceImpl pushes locally edited customers and items to Zoho
// Books: unbound records are created there, bound ones updated.
type RecordPushServiceImpl struct {
	platform  integration.AccountingPlatform
	customers partner.CustomerWriter
	items     catalog.ItemWriter
	metrics   SyncMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecordPushService creates a new RecordPushServiceImpl
func NewRecordPushService(
	platform integration.AccountingPlatform,
	customers partner.CustomerWriter,
	items catalog.ItemWriter,
	metrics SyncMetrics,
	logger *zap.Logger,
) *RecordPushServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordPushServiceImpl{
		platform:  platform,
		customers: customers,
		items:     items,
		metrics:   metricsOrNoop(metrics),
		logger:    logger,
		now:       time.Now,
	}
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

// PushCustomer creates or updates the Zoho contact of customer and binds it.
func (s *RecordPushServiceImpl) PushCustomer(ctx context.Context, customer *partner.Customer) (*integration.PushResult, error) {
	result := &integration.PushResult{
		Entity:   integration.EntityCustomer,
		LocalID:  customer.ID.String(),
		Number:   customer.CustomerName,
		Warnings: []string{},
	}

	draft := contactDraftOf(customer)
	var (
		remote *integration.RemoteContact
		err    error
	)
	if customer.IsSynced() {
		remote, err = s.platform.UpdateContact(ctx, customer.ZohoContactID, draft)
	} else {
		remote, err = s.platform.CreateContact(ctx, draft)
	}
	if err != nil {
		return s.fail(ctx, result, err)
	}

	contactID := customer.ZohoContactID
	if remote != nil && remote.ContactID != "" {
		contactID = remote.ContactID
	}
	customer.MarkSynced(contactID, s.now())
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("bind customer %s to contact %s: %w", customer.CustomerName, contactID, err)
	}

	result.Status = integration.PushStatusSuccess
	result.ExternalID = contactID
	result.Message = fmt.Sprintf("Customer %s synced to Zoho (ID: %s)", customer.CustomerName, contactID)
	s.logger.Info("customer pushed to zoho",
		zap.String("customer", customer.CustomerName),
		zap.String("zoho_contact_id", contactID),
	)
	s.metrics.RecordPush(ctx, result)
	return result, nil
}

func contactDraftOf(c *partner.Customer) integration.ContactDraft {
	draft := integration.ContactDraft{
		ContactName:     c.CustomerName,
		ContactType:     "customer",
		CustomerSubType: "individual",
		Email:           c.ContactEmail(),
		Phone:           c.ContactMobile(),
		Mobile:          c.ContactMobile(),
		CurrencyCode:    c.DefaultCurrency,
	}
	if c.CustomerType == partner.CustomerTypeCompany {
		draft.CompanyName = c.CustomerName
		draft.CustomerSubType = "business"
	}
	return draft
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// PushItem creates or updates the Zoho item of item and binds it.
func (s *RecordPushServiceImpl) PushItem(ctx context.Context, item *catalog.Item) (*integration.PushResult, error) {
	result := &integration.PushResult{
		Entity:   integration.EntityItem,
		LocalID:  item.ID.String(),
		Number:   item.ItemCode,
		Warnings: []string{},
	}

	draft := itemDraftOf(item)
	var (
		remote *integration.RemoteItem
		err    error
	)
	if item.IsSynced() {
		remote, err = s.platform.UpdateItem(ctx, item.ZohoItemID, draft)
	} else {
		remote, err = s.platform.CreateItem(ctx, draft)
	}
	if err != nil {
		return s.fail(ctx, result, err)
	}

	itemID := item.ZohoItemID
	if remote != nil && remote.ItemID != "" {
		itemID = remote.ItemID
	}
	item.ZohoSKU = draft.SKU
	item.ZohoName = draft.Name
	item.MarkSynced(itemID, s.now())
	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("bind item %s to zoho item %s: %w", item.ItemCode, itemID, err)
	}

	result.Status = integration.PushStatusSuccess
	result.ExternalID = itemID
	result.Message = fmt.Sprintf("Item %s synced to Zoho (ID: %s)", item.ItemCode, itemID)
	s.logger.Info("item pushed to zoho",
		zap.String("item_code", item.ItemCode),
		zap.String("zoho_item_id", itemID),
	)
	s.metrics.RecordPush(ctx, result)
	return result, nil
}

func itemDraftOf(i *catalog.Item) integration.ItemDraft {
	itemType := "sales_and_purchases"
	if i.IsStockItem {
		itemType = "inventory"
	}
	return integration.ItemDraft{
		Name:         i.ItemName,
		SKU:          i.ItemCode,
		Description:  i.Description,
		Unit:         i.StockUOM,
		Rate:         i.StandardRate,
		PurchaseRate: i.ValuationRate,
		ItemType:     itemType,
		ProductType:  "goods",
	}
}

func (s *RecordPushServiceImpl) fail(ctx context.Context, result *integration.PushResult, err error) (*integration.PushResult, error) {
	s.logger.Error("failed to push record to zoho",
		zap.String("entity", string(result.Entity)),
		zap.String("local_id", result.LocalID),
		zap.Error(err),
	)
	result.Status = integration.PushStatusError
	result.Message = err.Error()
	s.metrics.RecordPush(ctx, result)
	return result, err
}
