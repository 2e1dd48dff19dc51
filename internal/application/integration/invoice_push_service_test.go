package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/itsyosefali/zoho-integration/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func submittedInvoice(customer string, paid int64) *trade.SalesInvoice {
	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	return &trade.SalesInvoice{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         "ACC-SINV-2026-00001",
		CustomerName: customer,
		PostingDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:      &due,
		Remarks:      "March delivery",
		Items: []trade.SalesInvoiceItem{
			{ItemCode: "WID-1", ItemName: "Widget", Qty: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50), UOM: "Nos"},
			{ItemCode: "WID-2", ItemName: "Gadget", Description: "Blue gadget", Qty: decimal.NewFromInt(1), Rate: decimal.NewFromInt(20)},
		},
		DiscountAmount:       decimal.NewFromInt(10),
		TotalTaxesAndCharges: decimal.NewFromInt(5),
		GrandTotal:           decimal.NewFromInt(115),
		PaidAmount:           decimal.NewFromInt(paid),
		DocStatus:            trade.DocStatusSubmitted,
		ZohoSyncStatus:       trade.ZohoSyncNotSynced,
	}
}

type invoicePushFixture struct {
	svc       *InvoicePushServiceImpl
	platform  *MockAccountingPlatform
	invoices  *MockSalesInvoiceRepository
	customers *memCustomerRepository
	metrics   *recordingMetrics
}

func newInvoicePushFixture(settings integration.Settings, customers ...*partner.Customer) *invoicePushFixture {
	f := &invoicePushFixture{
		platform:  new(MockAccountingPlatform),
		invoices:  new(MockSalesInvoiceRepository),
		customers: newMemCustomerRepository(customers...),
		metrics:   &recordingMetrics{},
	}
	f.svc = NewInvoicePushService(f.platform, f.invoices, f.customers, settings, f.metrics, nil)
	return f
}

func TestInvoicePushService_Push_Success(t *testing.T) {
	customer := boundCustomer(t, "Acme Trading", "4600001")
	f := newInvoicePushFixture(integration.DefaultSettings(), customer)
	inv := submittedInvoice("Acme Trading", 0)

	f.platform.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(d integration.InvoiceDraft) bool {
		return d.CustomerID == "4600001" &&
			d.InvoiceNumber == inv.Name &&
			d.ReferenceNumber == inv.Name &&
			len(d.LineItems) == 2 &&
			d.LineItems[0].Description == "Widget" &&
			d.LineItems[1].Description == "Blue gadget" &&
			d.Discount.Equal(decimal.NewFromInt(10)) &&
			d.TaxTotal.Equal(decimal.NewFromInt(5)) &&
			d.PaymentTermsLabel == "Due on Receipt" &&
			d.Terms == "Thank you for your business!"
	})).Return(&integration.RemoteInvoice{InvoiceID: "982000000567114", InvoiceNumber: "INV-00042"}, nil)
	f.platform.On("SubmitInvoice", mock.Anything, "982000000567114").Return(nil)
	f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

	result, err := f.svc.Push(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, integration.PushStatusSuccess, result.Status)
	assert.Equal(t, "982000000567114", result.ExternalID)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, "982000000567114", inv.ZohoInvoiceID)
	assert.Equal(t, "INV-00042", inv.ZohoInvoiceNumber)
	assert.Equal(t, trade.ZohoSyncSynced, inv.ZohoSyncStatus)
	f.platform.AssertNotCalled(t, "SearchContacts", mock.Anything, mock.Anything)
	f.platform.AssertNotCalled(t, "CreateCustomerPayment", mock.Anything, mock.Anything)
	require.Len(t, f.metrics.pushes, 1)
	f.platform.AssertExpectations(t)
	f.invoices.AssertExpectations(t)
}

func TestInvoicePushService_Push_PaymentFailureIsWarning(t *testing.T) {
	customer := boundCustomer(t, "Acme Trading", "4600001")
	f := newInvoicePushFixture(integration.DefaultSettings(), customer)
	inv := submittedInvoice("Acme Trading", 115)

	f.platform.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(&integration.RemoteInvoice{InvoiceID: "982000000567114", InvoiceNumber: "INV-00042"}, nil)
	f.platform.On("SubmitInvoice", mock.Anything, "982000000567114").Return(nil)
	f.platform.On("CreateCustomerPayment", mock.Anything, mock.MatchedBy(func(d integration.PaymentDraft) bool {
		return d.CustomerID == "4600001" && d.InvoiceID == "982000000567114" &&
			d.Amount.Equal(decimal.NewFromInt(115)) && d.PaymentMode == "cash"
	})).Return(nil, &integration.HTTPError{Status: 400, Body: `{"code":24016,"message":"Invalid amount"}`})
	f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

	result, err := f.svc.Push(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, integration.PushStatusSuccess, result.Status)
	assert.Equal(t, "982000000567114", inv.ZohoInvoiceID)
	assert.Equal(t, trade.ZohoSyncSynced, inv.ZohoSyncStatus)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "payment could not be recorded")
	f.platform.AssertExpectations(t)
}

func TestInvoicePushService_Push_SubmitFailureIsWarning(t *testing.T) {
	customer := boundCustomer(t, "Acme Trading", "4600001")
	f := newInvoicePushFixture(integration.DefaultSettings(), customer)
	inv := submittedInvoice("Acme Trading", 0)

	f.platform.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(&integration.RemoteInvoice{InvoiceID: "982000000567114"}, nil)
	f.platform.On("SubmitInvoice", mock.Anything, mock.Anything).Return(&integration.NetworkError{Op: "POST", Err: errors.New("reset")})
	f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

	result, err := f.svc.Push(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, integration.PushStatusSuccess, result.Status)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "could not be submitted")
}

func TestInvoicePushService_Push_LocalRecordFailureKeepsZohoID(t *testing.T) {
	f := newInvoicePushFixture(integration.DefaultSettings(), boundCustomer(t, "Acme Trading", "4600001"))
	core, logs := observer.New(zapcore.ErrorLevel)
	f.svc.logger = zap.New(core)
	inv := submittedInvoice("Acme Trading", 0)

	f.platform.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(&integration.RemoteInvoice{InvoiceID: "982000000567114", InvoiceNumber: "INV-00042"}, nil)
	f.platform.On("SubmitInvoice", mock.Anything, "982000000567114").Return(nil)
	f.invoices.On("SaveSyncState", mock.Anything, inv).Return(errors.New("connection reset"))

	result, err := f.svc.Push(context.Background(), inv)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, integration.PushStatusSuccess, result.Status)
	assert.Equal(t, "982000000567114", result.ExternalID)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "local record could not be updated")

	entries := logs.FilterMessage("zoho invoice created but not recorded locally").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "982000000567114", entries[0].ContextMap()["zoho_invoice_id"])
	require.Len(t, f.metrics.pushes, 1)
}

func TestInvoicePushService_Push_SkipsSubmitWhenDisabled(t *testing.T) {
	settings := integration.DefaultSettings()
	settings.SubmitInvoices = false
	f := newInvoicePushFixture(settings, boundCustomer(t, "Acme Trading", "4600001"))
	inv := submittedInvoice("Acme Trading", 0)

	f.platform.On("CreateInvoice", mock.Anything, mock.Anything).
		Return(&integration.RemoteInvoice{InvoiceID: "982000000567114"}, nil)
	f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

	_, err := f.svc.Push(context.Background(), inv)
	require.NoError(t, err)
	f.platform.AssertNotCalled(t, "SubmitInvoice", mock.Anything, mock.Anything)
}

func TestInvoicePushService_Push_AlreadyPushedIsSkipped(t *testing.T) {
	f := newInvoicePushFixture(integration.DefaultSettings())
	inv := submittedInvoice("Acme Trading", 0)
	inv.ZohoInvoiceID = "982000000567114"

	result, err := f.svc.Push(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, integration.PushStatusSkipped, result.Status)
	f.platform.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
	f.invoices.AssertNotCalled(t, "SaveSyncState", mock.Anything, mock.Anything)
}

func TestInvoicePushService_Push_ResolvesContact(t *testing.T) {
	t.Run("search matches email ignoring case", func(t *testing.T) {
		customer := boundCustomer(t, "Acme Trading", "")
		customer.EmailID = "Billing@Acme.test"
		f := newInvoicePushFixture(integration.DefaultSettings(), customer)
		inv := submittedInvoice("Acme Trading", 0)

		f.platform.On("SearchContacts", mock.Anything, "Acme Trading").Return([]integration.RemoteContact{
			{ContactID: "4600077", ContactName: "Acme Trading FZE", Email: "billing@acme.test"},
		}, nil)
		f.platform.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(d integration.InvoiceDraft) bool {
			return d.CustomerID == "4600077"
		})).Return(&integration.RemoteInvoice{InvoiceID: "982000000567114"}, nil)
		f.platform.On("SubmitInvoice", mock.Anything, mock.Anything).Return(nil)
		f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

		_, err := f.svc.Push(context.Background(), inv)
		require.NoError(t, err)
		f.platform.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
	})

	t.Run("no match creates a business contact", func(t *testing.T) {
		customer := boundCustomer(t, "Acme Trading", "")
		customer.MobileNo = "+971500000000"
		f := newInvoicePushFixture(integration.DefaultSettings(), customer)
		inv := submittedInvoice("Acme Trading", 0)

		f.platform.On("SearchContacts", mock.Anything, "Acme Trading").Return([]integration.RemoteContact{
			{ContactID: "4600078", ContactName: "Acme"},
		}, nil)
		f.platform.On("CreateContact", mock.Anything, mock.MatchedBy(func(d integration.ContactDraft) bool {
			return d.ContactName == "Acme Trading" && d.CompanyName == "Acme Trading" &&
				d.CustomerSubType == "business" && d.Mobile == "+971500000000"
		})).Return(&integration.RemoteContact{ContactID: "4600079"}, nil)
		f.platform.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(d integration.InvoiceDraft) bool {
			return d.CustomerID == "4600079"
		})).Return(&integration.RemoteInvoice{InvoiceID: "982000000567114"}, nil)
		f.platform.On("SubmitInvoice", mock.Anything, mock.Anything).Return(nil)
		f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

		_, err := f.svc.Push(context.Background(), inv)
		require.NoError(t, err)
		f.platform.AssertExpectations(t)
	})
}

func TestInvoicePushService_Push_FailureMarksInvoiceFailed(t *testing.T) {
	f := newInvoicePushFixture(integration.DefaultSettings(), boundCustomer(t, "Acme Trading", "4600001"))
	inv := submittedInvoice("Acme Trading", 0)

	upstream := &integration.HTTPError{Status: 400, Body: `{"code":1001,"message":"Invoice number already exists"}`}
	f.platform.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, upstream)
	f.invoices.On("SaveSyncState", mock.Anything, inv).Return(nil)

	result, err := f.svc.Push(context.Background(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	require.NotNil(t, result)
	assert.Equal(t, integration.PushStatusError, result.Status)
	assert.Equal(t, trade.ZohoSyncFailed, inv.ZohoSyncStatus)
	assert.Empty(t, inv.ZohoInvoiceID)
	f.invoices.AssertExpectations(t)
}

func TestInvoicePushService_PushByID_NotFound(t *testing.T) {
	f := newInvoicePushFixture(integration.DefaultSettings())
	id := uuid.New()
	f.invoices.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.PushByID(context.Background(), id)
	assert.ErrorIs(t, err, integration.ErrInvoiceNotFound)
}

func TestMatchContact(t *testing.T) {
	candidates := []integration.RemoteContact{
		{ContactID: "1", ContactName: "acme trading", Email: "x@acme.test"},
		{ContactID: "2", ContactName: "Acme Trading", Email: ""},
	}
	assert.Equal(t, "2", matchContact(candidates, "Acme Trading", ""), "name match is case-sensitive")
	assert.Equal(t, "1", matchContact(candidates, "Other", "X@ACME.TEST"))
	assert.Equal(t, "", matchContact(candidates, "Other", ""))
}
