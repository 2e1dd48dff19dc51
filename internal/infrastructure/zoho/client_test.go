package zoho

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cred integration.Credential) (*Client, *memoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newMemoryStore(cred)
	expires := time.Now().Add(time.Hour)
	cred.AccessTokenExpiresAt = &expires
	require.NoError(t, store.Save(context.Background(), &cred))

	cfg := &Config{AccountsURL: server.URL, APIBaseURL: server.URL + "/books/v3"}
	refresher, err := NewTokenRefresher(cfg, store, server.Client(), zap.NewNop())
	require.NoError(t, err)
	client, err := NewClient(cfg, NewExecutor(refresher, server.Client(), zap.NewNop()), store, zap.NewNop())
	require.NoError(t, err)
	return client, store
}

func TestClient_ListContacts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/v3/contacts", r.URL.Path)
		assert.Equal(t, "60001", r.Header.Get(OrganizationHeader))
		assert.Equal(t, "Zoho-oauthtoken old-access", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))

		_, _ = w.Write([]byte(`{
			"code": 0,
			"message": "success",
			"contacts": [{
				"contact_id": "460000000026049",
				"contact_name": "Bowman and Co",
				"contact_type": "customer",
				"status": "active",
				"email": "willie@bowmanfurniture.com",
				"currency_code": "AED",
				"payment_terms": "15",
				"outstanding_receivable_amount": 250.5,
				"unused_credits_receivable_amount": "",
				"last_modified_time": "2026-01-15T10:24:51+0400"
			}],
			"page_context": {"page": 1, "per_page": 50, "has_more_page": true}
		}`))
	}, fullCredential())

	page, err := client.ListContacts(context.Background(), integration.ListQuery{})
	require.NoError(t, err)

	require.Len(t, page.Contacts, 1)
	c := page.Contacts[0]
	assert.Equal(t, "460000000026049", c.ContactID)
	assert.Equal(t, "Bowman and Co", c.ContactName)
	assert.Equal(t, 15, c.PaymentTerms)
	assert.True(t, c.OutstandingReceivable.Equal(decimal.RequireFromString("250.5")))
	assert.True(t, c.UnusedCredits.IsZero())
	require.NotNil(t, c.LastModifiedTime)
	assert.Equal(t, 2026, c.LastModifiedTime.Year())
	assert.True(t, page.Context.HasMorePage)
}

func TestClient_ListItems_StockOnHand(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "200", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{
			"code": 0,
			"items": [
				{"item_id": "1", "name": "Desk", "sku": "DSK-1", "rate": 120, "purchase_rate": "80.25", "stock_on_hand": 7},
				{"item_id": "2", "name": "Consulting", "rate": 50, "stock_on_hand": ""}
			],
			"page_context": {"page": 3, "per_page": 200, "has_more_page": false}
		}`))
	}, fullCredential())

	page, err := client.ListItems(context.Background(), integration.ListQuery{Page: 3, PerPage: 500})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].StockOnHand)
	assert.True(t, page.Items[0].StockOnHand.Equal(decimal.NewFromInt(7)))
	assert.True(t, page.Items[0].PurchaseRate.Equal(decimal.RequireFromString("80.25")))
	assert.Nil(t, page.Items[1].StockOnHand)
	assert.Equal(t, 3, page.Context.Page)
	assert.False(t, page.Context.HasMorePage)
}

func TestClient_RequiresOrganization(t *testing.T) {
	cred := fullCredential()
	cred.OrganizationID = ""
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}, cred)

	_, err := client.ListContacts(context.Background(), integration.ListQuery{})
	var cfgErr *integration.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "organization_id", cfgErr.Field)
}

func TestClient_ListOrganizations_NoOrganizationHeader(t *testing.T) {
	cred := fullCredential()
	cred.OrganizationID = ""
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/v3/organizations", r.URL.Path)
		assert.Empty(t, r.Header.Get(OrganizationHeader))
		_, _ = w.Write([]byte(`{"code":0,"organizations":[{"organization_id":"777","name":"Acme","currency_code":"AED","is_default_org":true}]}`))
	}, cred)

	orgs, err := client.ListOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "777", orgs[0].OrganizationID)
	assert.True(t, orgs[0].IsDefault)
}

func TestClient_EnvelopeErrorIsHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1002,"message":"Contact does not exist."}`))
	}, fullCredential())

	_, err := client.SearchContacts(context.Background(), "ghost")
	var httpErr *integration.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusOK, httpErr.Status)
	assert.Contains(t, httpErr.Body, "Contact does not exist.")
}

func TestClient_Non2xxIsHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	}, fullCredential())

	_, err := client.ListItems(context.Background(), integration.ListQuery{})
	var httpErr *integration.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestClient_SearchContacts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bowman and Co", r.URL.Query().Get("search_text"))
		assert.Equal(t, "200", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"code":0,"contacts":[{"contact_id":"1","contact_name":"Bowman and Co"}]}`))
	}, fullCredential())

	contacts, err := client.SearchContacts(context.Background(), "Bowman and Co")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "1", contacts[0].ContactID)
}

func TestClient_CreateContact(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload contactPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Acme LLC", payload.ContactName)
		assert.Equal(t, "customer", payload.ContactType)
		assert.Equal(t, "business", payload.CustomerSubType)
		if assert.Len(t, payload.ContactPersons, 1) {
			assert.Equal(t, "ap@acme.test", payload.ContactPersons[0].Email)
			assert.True(t, payload.ContactPersons[0].IsPrimaryContact)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":0,"contact":{"contact_id":"900","contact_name":"Acme LLC"}}`))
	}, fullCredential())

	contact, err := client.CreateContact(context.Background(), integration.ContactDraft{
		ContactName: "Acme LLC",
		CompanyName: "Acme LLC",
		Email:       "ap@acme.test",
	})
	require.NoError(t, err)
	assert.Equal(t, "900", contact.ContactID)
}

func TestClient_CreateInvoice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/v3/invoices", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("ignore_auto_number_generation"))

		body, _ := io.ReadAll(r.Body)
		var payload invoicePayload
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "900", payload.CustomerID)
		assert.Equal(t, "2026-03-01", payload.Date)
		assert.Equal(t, "2026-03-31", payload.DueDate)
		assert.Equal(t, "ACC-SINV-0001", payload.InvoiceNumber)
		assert.Equal(t, "Due on Receipt", payload.PaymentTermsLabel)
		if assert.Len(t, payload.LineItems, 1) {
			assert.Equal(t, "Nos", payload.LineItems[0].Unit)
			assert.InDelta(t, 2.0, payload.LineItems[0].Quantity, 0.0001)
		}
		if assert.NotNil(t, payload.Discount) {
			assert.InDelta(t, 5.0, *payload.Discount, 0.0001)
			assert.True(t, *payload.IsDiscountBeforeTax)
		}
		assert.Nil(t, payload.TaxTotal)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"code":0,"invoice":{"invoice_id":"inv-1","invoice_number":"ACC-SINV-0001","status":"draft","total":"195.00"}}`))
	}, fullCredential())

	due := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	inv, err := client.CreateInvoice(context.Background(), integration.InvoiceDraft{
		CustomerID:        "900",
		InvoiceNumber:     "ACC-SINV-0001",
		ReferenceNumber:   "ACC-SINV-0001",
		Date:              time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:           &due,
		PaymentTermsLabel: "Due on Receipt",
		Discount:          decimal.NewFromInt(5),
		LineItems: []integration.InvoiceLineDraft{{
			Name:     "Desk",
			Rate:     decimal.NewFromInt(100),
			Quantity: decimal.NewFromInt(2),
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, "inv-1", inv.InvoiceID)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(195)))
}

func TestClient_CreateInvoice_Validation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}, fullCredential())

	_, err := client.CreateInvoice(context.Background(), integration.InvoiceDraft{CustomerID: "1"})
	var ve *integration.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "line_items", ve.Field)
}

func TestClient_SubmitInvoiceAndPayment(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/books/v3/customerpayments" {
			var payload paymentPayload
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "cash", payload.PaymentMode)
			if assert.Len(t, payload.Invoices, 1) {
				assert.Equal(t, "inv-1", payload.Invoices[0].InvoiceID)
				assert.InDelta(t, 50.0, payload.Invoices[0].AmountApplied, 0.0001)
			}
			_, _ = w.Write([]byte(`{"code":0,"payment":{"payment_id":"pay-1","amount":50}}`))
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"message":"Invoice status has been changed to Sent."}`))
	}, fullCredential())

	require.NoError(t, client.SubmitInvoice(context.Background(), "inv-1"))
	payment, err := client.CreateCustomerPayment(context.Background(), integration.PaymentDraft{
		CustomerID: "900",
		InvoiceID:  "inv-1",
		Amount:     decimal.NewFromInt(50),
		Date:       time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", payment.PaymentID)
	mu.Lock()
	assert.Equal(t, []string{"/books/v3/invoices/inv-1/submit", "/books/v3/customerpayments"}, paths)
	mu.Unlock()

	_, err = client.CreateCustomerPayment(context.Background(), integration.PaymentDraft{Amount: decimal.Zero})
	var ve *integration.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestClient_RefreshesOn401(t *testing.T) {
	var apiCalls atomic.Int32
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v2/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"renewed","expires_in":3600}`))
			return
		}
		apiCalls.Add(1)
		if r.Header.Get("Authorization") != "Zoho-oauthtoken renewed" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"code":0,"organizations":[]}`))
	}, fullCredential())

	_, err := client.ListOrganizations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), apiCalls.Load())
	assert.Equal(t, "renewed", store.current().AccessToken)
}
