package integration

import (
	"context"
	"fmt"

	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
	"github.com/itsyosefali/zoho-integration/internal/domain/trade"
	"go.uber.org/zap"
)

// Trigger names the host event that invoked a hook.
type Trigger string

const (
	TriggerInsert Trigger = "after_insert"
	TriggerUpdate Trigger = "on_update"
	TriggerSubmit Trigger = "on_submit"
)

// InvoicePusher pushes a single invoice.
type InvoicePusher interface {
	Push(ctx context.Context, invoice *trade.SalesInvoice) (*integration.PushResult, error)
}

// RecordPusher pushes customers and items.
type RecordPusher interface {
	PushCustomer(ctx context.Context, customer *partner.Customer) (*integration.PushResult, error)
	PushItem(ctx context.Context, item *catalog.Item) (*integration.PushResult, error)
}

// EventHooks are called by the host after records are saved. Every hook is
// a no-op while the stored credential is disabled, and hook failures are
// logged, never returned to the host's save path.
type EventHooks struct {
	store    integration.CredentialStore
	invoices InvoicePusher
	records  RecordPusher
	logger   *zap.Logger
}

// NewEventHooks creates EventHooks gated by the Enabled flag of the
// credential in store. The flag is read on every call so a toggle through
// the connection settings applies immediately.
func NewEventHooks(store integration.CredentialStore, invoices InvoicePusher, records RecordPusher, logger *zap.Logger) *EventHooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHooks{
		store:    store,
		invoices: invoices,
		records:  records,
		logger:   logger,
	}
}

// active returns ErrIntegrationDisabled unless the stored credential is
// enabled. A credential that cannot be loaded counts as disabled.
func (h *EventHooks) active(ctx context.Context, trigger Trigger, entity integration.EntityKind) error {
	cred, err := h.store.Load(ctx)
	if err != nil {
		h.logger.Error("zoho hook skipped, credential unavailable",
			zap.String("trigger", string(trigger)),
			zap.String("entity", string(entity)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", integration.ErrIntegrationDisabled, err)
	}
	if cred == nil || !cred.Enabled {
		h.logger.Debug("zoho hook skipped, integration disabled",
			zap.String("trigger", string(trigger)),
			zap.String("entity", string(entity)),
		)
		return integration.ErrIntegrationDisabled
	}
	return nil
}

// OnCustomerSaved pushes the customer to Zoho Books.
func (h *EventHooks) OnCustomerSaved(ctx context.Context, customer *partner.Customer, trigger Trigger) *integration.PushResult {
	if customer == nil || h.active(ctx, trigger, integration.EntityCustomer) != nil {
		return nil
	}
	result, err := h.records.PushCustomer(ctx, customer)
	h.report(trigger, integration.EntityCustomer, customer.CustomerName, err)
	return result
}

// OnItemSaved pushes the item to Zoho Books.
func (h *EventHooks) OnItemSaved(ctx context.Context, item *catalog.Item, trigger Trigger) *integration.PushResult {
	if item == nil || h.active(ctx, trigger, integration.EntityItem) != nil {
		return nil
	}
	result, err := h.records.PushItem(ctx, item)
	h.report(trigger, integration.EntityItem, item.ItemCode, err)
	return result
}

// OnInvoiceSubmitted pushes the invoice unless it was already sent.
func (h *EventHooks) OnInvoiceSubmitted(ctx context.Context, invoice *trade.SalesInvoice, trigger Trigger) *integration.PushResult {
	if invoice == nil || invoice.IsSynced() || h.active(ctx, trigger, integration.EntityInvoice) != nil {
		return nil
	}
	result, err := h.invoices.Push(ctx, invoice)
	h.report(trigger, integration.EntityInvoice, invoice.Name, err)
	return result
}

func (h *EventHooks) report(trigger Trigger, entity integration.EntityKind, name string, err error) {
	if err == nil {
		return
	}
	h.logger.Error("zoho hook failed",
		zap.String("trigger", string(trigger)),
		zap.String("entity", string(entity)),
		zap.String("name", name),
		zap.Error(err),
	)
}
