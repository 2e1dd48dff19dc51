package integration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRemote checks the validate tags of a remote record and reports the
// first failing field.
func validateRemote(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return integration.NewValidationError(toSnake(fe.Field()), "required field missing")
		}
		return integration.NewValidationError(toSnake(fe.Field()), "failed "+fe.Tag()+" check")
	}
	return err
}

func toSnake(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Contact → Customer
// ---------------------------------------------------------------------------

type customerMapper struct {
	settings integration.Settings
}

func (m customerMapper) Key(c integration.RemoteContact) (string, string) {
	return c.ContactID, c.ContactName
}

func (m customerMapper) Validate(c integration.RemoteContact) error {
	return validateRemote(c)
}

func (m customerMapper) ExternalIDOf(c *partner.Customer) string { return c.ZohoContactID }

func (m customerMapper) LocalIDOf(c *partner.Customer) uuid.UUID { return c.ID }

func (m customerMapper) NewLocal(c integration.RemoteContact) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(c.ContactName)
	if err != nil {
		return nil, err
	}
	customer.CustomerGroup = m.settings.CustomerGroup
	customer.Territory = m.settings.Territory
	return customer, nil
}

func (m customerMapper) Apply(c integration.RemoteContact, customer *partner.Customer) error {
	customer.CustomerName = c.ContactName
	if c.ContactType == "customer" {
		customer.CustomerType = partner.CustomerTypeIndividual
	} else {
		customer.CustomerType = partner.CustomerTypeCompany
	}
	if customer.CustomerGroup == "" {
		customer.CustomerGroup = m.settings.CustomerGroup
	}
	if customer.Territory == "" {
		customer.Territory = m.settings.Territory
	}
	customer.DefaultCurrency = c.CurrencyCode
	if customer.DefaultCurrency == "" {
		customer.DefaultCurrency = m.settings.DefaultCurrency
	}
	customer.Disabled = c.Status != "active"

	customer.ZohoContactType = c.ContactType
	customer.ZohoStatus = c.Status
	customer.ZohoCompanyName = c.CompanyName
	customer.ZohoEmail = c.Email
	customer.ZohoPhone = c.Phone
	customer.ZohoMobile = c.Mobile
	customer.ZohoFirstName = c.FirstName
	customer.ZohoLastName = c.LastName
	customer.ZohoPaymentTerms = c.PaymentTerms
	customer.ZohoPaymentTermsLabel = c.PaymentTermsLabel
	customer.ZohoOutstandingReceivable = c.OutstandingReceivable
	customer.ZohoUnusedCredits = c.UnusedCredits
	return nil
}

func (m customerMapper) Stamp(customer *partner.Customer, externalID string, at time.Time) {
	customer.MarkSynced(externalID, at)
}

// customerStore adapts a CustomerRepository to LocalStore.
type customerStore struct {
	repo partner.CustomerRepository
}

func (s customerStore) FindByExternalID(ctx context.Context, id string) (*partner.Customer, error) {
	return s.repo.FindByZohoContactID(ctx, id)
}

func (s customerStore) FindByName(ctx context.Context, name string) (*partner.Customer, error) {
	return s.repo.FindByName(ctx, name)
}

func (s customerStore) ExistsByExternalID(ctx context.Context, id string) (bool, error) {
	return s.repo.ExistsByZohoContactID(ctx, id)
}

func (s customerStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

func (s customerStore) Create(ctx context.Context, c *partner.Customer) error {
	return s.repo.Create(ctx, c)
}

func (s customerStore) Update(ctx context.Context, c *partner.Customer) error {
	return s.repo.Update(ctx, c)
}

// ---------------------------------------------------------------------------
// Item → Item
// ---------------------------------------------------------------------------

type itemMapper struct {
	settings integration.Settings
}

func (m itemMapper) Key(i integration.RemoteItem) (string, string) {
	return i.ItemID, i.Name
}

func (m itemMapper) Validate(i integration.RemoteItem) error {
	return validateRemote(i)
}

func (m itemMapper) ExternalIDOf(i *catalog.Item) string { return i.ZohoItemID }

func (m itemMapper) LocalIDOf(i *catalog.Item) uuid.UUID { return i.ID }

func (m itemMapper) NewLocal(i integration.RemoteItem) (*catalog.Item, error) {
	item, err := catalog.NewItem(itemCodeOf(i), i.Name)
	if err != nil {
		return nil, err
	}
	item.DefaultWarehouse = m.settings.DefaultWarehouse
	return item, nil
}

// Apply leaves IsStockItem and ItemCode alone: new items start as stock
// items and existing ones keep their flag and code.
func (m itemMapper) Apply(i integration.RemoteItem, item *catalog.Item) error {
	unit := m.unitOf(i)

	item.ItemName = i.Name
	item.Description = i.Description
	item.ItemGroup = m.settings.ItemGroup
	item.StockUOM = unit
	item.PurchaseUOM = unit
	item.SalesUOM = unit
	item.IsSalesItem = true
	item.IsPurchaseItem = true
	item.StandardRate = i.Rate
	item.ValuationRate = i.PurchaseRate
	item.ValuationMethod = valuationMethodOf(i.InventoryValuationMethod)
	item.Disabled = i.Status != "active"
	item.IsTaxable = i.TaxPercentage.IsPositive()
	item.TaxCategory = "Standard"

	item.ZohoSKU = i.SKU
	item.ZohoName = i.Name
	item.ZohoAccountID = i.AccountID
	item.ZohoAccountName = i.AccountName
	item.ZohoPurchaseAccountID = i.PurchaseAccountID
	item.ZohoPurchaseAccountName = i.PurchaseAccountName
	item.ZohoInventoryAccountID = i.InventoryAccountID
	item.ZohoInventoryAccountName = i.InventoryAccountName
	item.ZohoItemType = i.ItemType
	item.ZohoProductType = i.ProductType
	item.ZohoTrackInventory = i.TrackInventory
	if i.StockOnHand != nil {
		item.ZohoStockOnHand = *i.StockOnHand
	}
	item.ZohoReorderLevel = i.ReorderLevel
	item.ZohoPurchaseRate = i.PurchaseRate
	item.ZohoSellingRate = i.Rate
	item.ZohoValuationMethod = i.InventoryValuationMethod
	return nil
}

func (m itemMapper) Stamp(item *catalog.Item, externalID string, at time.Time) {
	item.MarkSynced(externalID, at)
}

func (m itemMapper) unitOf(i integration.RemoteItem) string {
	if unit := strings.TrimSpace(i.Unit); unit != "" {
		return unit
	}
	if m.settings.DefaultUOM != "" {
		return m.settings.DefaultUOM
	}
	return "Nos"
}

func itemCodeOf(i integration.RemoteItem) string {
	if sku := strings.TrimSpace(i.SKU); sku != "" {
		return sku
	}
	return i.ItemID
}

func valuationMethodOf(method string) catalog.ValuationMethod {
	upper := strings.ToUpper(method)
	switch {
	case strings.Contains(upper, "LIFO"):
		return catalog.ValuationLIFO
	case strings.Contains(upper, "FIFO"):
		return catalog.ValuationFIFO
	case strings.Contains(upper, "AVERAGE"), strings.Contains(upper, "WEIGHTED"):
		return catalog.ValuationMovingAverage
	default:
		return catalog.ValuationFIFO
	}
}

// itemStore adapts an ItemRepository to LocalStore.
type itemStore struct {
	repo catalog.ItemRepository
}

func (s itemStore) FindByExternalID(ctx context.Context, id string) (*catalog.Item, error) {
	return s.repo.FindByZohoItemID(ctx, id)
}

func (s itemStore) FindByName(ctx context.Context, name string) (*catalog.Item, error) {
	return s.repo.FindByName(ctx, name)
}

func (s itemStore) ExistsByExternalID(ctx context.Context, id string) (bool, error) {
	return s.repo.ExistsByZohoItemID(ctx, id)
}

func (s itemStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

func (s itemStore) Create(ctx context.Context, i *catalog.Item) error {
	return s.repo.Create(ctx, i)
}

func (s itemStore) Update(ctx context.Context, i *catalog.Item) error {
	return s.repo.Update(ctx, i)
}
