package integration

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/inventory"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/itsyosefali/zoho-integration/internal/domain/trade"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/zoho"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountingPlatform is a mock implementation of AccountingPlatform
type MockAccountingPlatform struct {
	mock.Mock
}

func (m *MockAccountingPlatform) ListOrganizations(ctx context.Context) ([]integration.RemoteOrganization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RemoteOrganization), args.Error(1)
}

func (m *MockAccountingPlatform) ListContacts(ctx context.Context, query integration.ListQuery) (*integration.ContactPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ContactPage), args.Error(1)
}

func (m *MockAccountingPlatform) SearchContacts(ctx context.Context, text string) ([]integration.RemoteContact, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RemoteContact), args.Error(1)
}

func (m *MockAccountingPlatform) CreateContact(ctx context.Context, draft integration.ContactDraft) (*integration.RemoteContact, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteContact), args.Error(1)
}

func (m *MockAccountingPlatform) UpdateContact(ctx context.Context, contactID string, draft integration.ContactDraft) (*integration.RemoteContact, error) {
	args := m.Called(ctx, contactID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteContact), args.Error(1)
}

func (m *MockAccountingPlatform) ListItems(ctx context.Context, query integration.ListQuery) (*integration.ItemPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ItemPage), args.Error(1)
}

func (m *MockAccountingPlatform) CreateItem(ctx context.Context, draft integration.ItemDraft) (*integration.RemoteItem, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteItem), args.Error(1)
}

func (m *MockAccountingPlatform) UpdateItem(ctx context.Context, itemID string, draft integration.ItemDraft) (*integration.RemoteItem, error) {
	args := m.Called(ctx, itemID, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteItem), args.Error(1)
}

func (m *MockAccountingPlatform) CreateInvoice(ctx context.Context, draft integration.InvoiceDraft) (*integration.RemoteInvoice, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemoteInvoice), args.Error(1)
}

func (m *MockAccountingPlatform) SubmitInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockAccountingPlatform) CreateCustomerPayment(ctx context.Context, draft integration.PaymentDraft) (*integration.RemotePayment, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RemotePayment), args.Error(1)
}

// MockSalesInvoiceRepository is a mock implementation of SalesInvoiceRepository
type MockSalesInvoiceRepository struct {
	mock.Mock
}

func (m *MockSalesInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) FindByName(ctx context.Context, name string) (*trade.SalesInvoice, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesInvoice), args.Error(1)
}

func (m *MockSalesInvoiceRepository) Create(ctx context.Context, invoice *trade.SalesInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockSalesInvoiceRepository) SaveSyncState(ctx context.Context, invoice *trade.SalesInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// MockOAuthProvider is a mock implementation of OAuthProvider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) AuthCodeURL(cred *integration.Credential, state string) (string, error) {
	args := m.Called(cred, state)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, cred *integration.Credential, code string) (*integration.TokenPair, error) {
	args := m.Called(ctx, cred, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.TokenPair), args.Error(1)
}

func (m *MockOAuthProvider) Refresh(ctx context.Context) zoho.RefreshResult {
	args := m.Called(ctx)
	return args.Get(0).(zoho.RefreshResult)
}

func (m *MockOAuthProvider) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

// memCustomerRepository enforces the same uniqueness rules as the database:
// unique customer name and unique non-empty Zoho contact id.
type memCustomerRepository struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]partner.Customer
	creates int
	updates int
}

func newMemCustomerRepository(seed ...*partner.Customer) *memCustomerRepository {
	r := &memCustomerRepository{byID: map[uuid.UUID]partner.Customer{}}
	for _, c := range seed {
		r.byID[c.ID] = *c
	}
	return r
}

func (r *memCustomerRepository) find(match func(partner.Customer) bool) *partner.Customer {
	for _, c := range r.byID {
		if match(c) {
			found := c
			return &found
		}
	}
	return nil
}

func (r *memCustomerRepository) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memCustomerRepository) FindByZohoContactID(_ context.Context, id string) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(c partner.Customer) bool { return id != "" && c.ZohoContactID == id }), nil
}

func (r *memCustomerRepository) FindByName(_ context.Context, name string) (*partner.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(c partner.Customer) bool { return c.CustomerName == name }), nil
}

func (r *memCustomerRepository) ExistsByZohoContactID(ctx context.Context, id string) (bool, error) {
	c, err := r.FindByZohoContactID(ctx, id)
	return c != nil, err
}

func (r *memCustomerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	c, err := r.FindByName(ctx, name)
	return c != nil, err
}

func (r *memCustomerRepository) conflicts(c *partner.Customer) bool {
	return r.find(func(other partner.Customer) bool {
		if other.ID == c.ID {
			return false
		}
		return other.CustomerName == c.CustomerName ||
			(c.ZohoContactID != "" && other.ZohoContactID == c.ZohoContactID)
	}) != nil
}

func (r *memCustomerRepository) Create(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(c) {
		return shared.ErrAlreadyExists
	}
	r.byID[c.ID] = *c
	r.creates++
	return nil
}

func (r *memCustomerRepository) Update(_ context.Context, c *partner.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return shared.ErrNotFound
	}
	if r.conflicts(c) {
		return shared.ErrAlreadyExists
	}
	r.byID[c.ID] = *c
	r.updates++
	return nil
}

func (r *memCustomerRepository) snapshot(id uuid.UUID) partner.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// memItemRepository keys items by item code.
type memItemRepository struct {
	mu     sync.Mutex
	byCode map[string]catalog.Item
}

func newMemItemRepository(seed ...*catalog.Item) *memItemRepository {
	r := &memItemRepository{byCode: map[string]catalog.Item{}}
	for _, i := range seed {
		r.byCode[i.ItemCode] = *i
	}
	return r
}

func (r *memItemRepository) find(match func(catalog.Item) bool) *catalog.Item {
	for _, i := range r.byCode {
		if match(i) {
			found := i
			return &found
		}
	}
	return nil
}

func (r *memItemRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.find(func(i catalog.Item) bool { return i.ID == id }); i != nil {
		return i, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepository) FindByZohoItemID(_ context.Context, id string) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(i catalog.Item) bool { return id != "" && i.ZohoItemID == id }), nil
}

func (r *memItemRepository) FindByName(_ context.Context, name string) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(func(i catalog.Item) bool { return i.ItemName == name }), nil
}

func (r *memItemRepository) FindByCode(_ context.Context, code string) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byCode[code]; ok {
		return &i, nil
	}
	return nil, nil
}

func (r *memItemRepository) ExistsByZohoItemID(ctx context.Context, id string) (bool, error) {
	i, err := r.FindByZohoItemID(ctx, id)
	return i != nil, err
}

func (r *memItemRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	i, err := r.FindByName(ctx, name)
	return i != nil, err
}

func (r *memItemRepository) Create(_ context.Context, i *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[i.ItemCode]; ok {
		return shared.ErrAlreadyExists
	}
	r.byCode[i.ItemCode] = *i
	return nil
}

func (r *memItemRepository) Update(_ context.Context, i *catalog.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCode[i.ItemCode]; !ok {
		return shared.ErrNotFound
	}
	r.byCode[i.ItemCode] = *i
	return nil
}

// memReferenceData records created UOMs and item groups.
type memReferenceData struct {
	uoms   map[string]bool
	groups map[string]bool
}

func newMemReferenceData() *memReferenceData {
	return &memReferenceData{uoms: map[string]bool{}, groups: map[string]bool{}}
}

func (r *memReferenceData) UOMExists(_ context.Context, name string) (bool, error) {
	return r.uoms[name], nil
}

func (r *memReferenceData) CreateUOM(_ context.Context, uom *catalog.UOM) error {
	r.uoms[uom.Name] = true
	return nil
}

func (r *memReferenceData) ItemGroupExists(_ context.Context, name string) (bool, error) {
	return r.groups[name], nil
}

func (r *memReferenceData) CreateItemGroup(_ context.Context, group *catalog.ItemGroup) error {
	r.groups[group.Name] = true
	return nil
}

// memStockLedger tracks bins and every submitted document.
type memStockLedger struct {
	warehouses      map[string]bool
	bins            map[string]decimal.Decimal
	entries         []*inventoryEntry
	reconciliations int
	failSubmit      error
}

type inventoryEntry struct {
	itemCode  string
	warehouse string
	qty       decimal.Decimal
	rate      decimal.Decimal
}

func newMemStockLedger(warehouses ...string) *memStockLedger {
	l := &memStockLedger{warehouses: map[string]bool{}, bins: map[string]decimal.Decimal{}}
	for _, w := range warehouses {
		l.warehouses[w] = true
	}
	return l
}

func binKey(itemCode, warehouse string) string { return itemCode + "@" + warehouse }

func (l *memStockLedger) WarehouseExists(_ context.Context, name string) (bool, error) {
	return l.warehouses[name], nil
}

func (l *memStockLedger) OnHandQty(_ context.Context, itemCode, warehouse string) (decimal.Decimal, error) {
	return l.bins[binKey(itemCode, warehouse)], nil
}

func (l *memStockLedger) SubmitStockEntry(_ context.Context, entry *inventory.StockEntry) error {
	if l.failSubmit != nil {
		return l.failSubmit
	}
	for _, d := range entry.Items {
		key := binKey(d.ItemCode, d.TargetWarehouse)
		l.bins[key] = l.bins[key].Add(d.Qty)
		l.entries = append(l.entries, &inventoryEntry{
			itemCode:  d.ItemCode,
			warehouse: d.TargetWarehouse,
			qty:       d.Qty,
			rate:      d.ValuationRate,
		})
	}
	return nil
}

func (l *memStockLedger) SubmitStockReconciliation(_ context.Context, rec *inventory.StockReconciliation) error {
	if l.failSubmit != nil {
		return l.failSubmit
	}
	for _, d := range rec.Items {
		l.bins[binKey(d.ItemCode, d.Warehouse)] = d.Qty
	}
	l.reconciliations++
	return nil
}

// movements is the number of stock documents submitted.
func (l *memStockLedger) movements() int {
	return len(l.entries) + l.reconciliations
}

// MockCredentialStore is a mock implementation of CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Load(ctx context.Context) (*integration.Credential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Credential), args.Error(1)
}

func (m *MockCredentialStore) Save(ctx context.Context, cred *integration.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

// memCredentialStore keeps one credential in memory. Load hands out a copy
// so callers only change the stored value through Save.
type memCredentialStore struct {
	cred    integration.Credential
	loadErr error
}

func newMemCredentialStore(cred *integration.Credential) *memCredentialStore {
	s := &memCredentialStore{}
	if cred != nil {
		s.cred = *cred
	}
	return s
}

func (s *memCredentialStore) Load(_ context.Context) (*integration.Credential, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	c := s.cred
	return &c, nil
}

func (s *memCredentialStore) Save(_ context.Context, cred *integration.Credential) error {
	s.cred = *cred
	return nil
}
