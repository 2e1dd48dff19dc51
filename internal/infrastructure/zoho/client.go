package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// Client is the Zoho Books implementation of integration.AccountingPlatform
type Client struct {
	config   *Config
	executor *Executor
	store    integration.CredentialStore
	logger   *zap.Logger
}

var _ integration.AccountingPlatform = (*Client)(nil)

// NewClient creates a Client. The organization header is taken from the
// credential store on every call.
func NewClient(config *Config, executor *Executor, store integration.CredentialStore, logger *zap.Logger) (*Client, error) {
	if config == nil {
		config = &Config{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{config: config, executor: executor, store: store, logger: logger}, nil
}

// ---------------------------------------------------------------------------
// Organizations
// ---------------------------------------------------------------------------

// ListOrganizations lists the organizations the token has access to. It is
// the only call made without an organization header.
func (c *Client) ListOrganizations(ctx context.Context) ([]integration.RemoteOrganization, error) {
	var resp organizationsResponse
	if err := c.call(ctx, Request{Method: http.MethodGet, URL: c.endpoint("/organizations")}, &resp); err != nil {
		return nil, err
	}
	orgs := make([]integration.RemoteOrganization, 0, len(resp.Organizations))
	for _, o := range resp.Organizations {
		orgs = append(orgs, integration.RemoteOrganization{
			OrganizationID: o.OrganizationID,
			Name:           o.Name,
			CurrencyCode:   o.CurrencyCode,
			IsDefault:      o.IsDefaultOrg,
		})
	}
	return orgs, nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

// ListContacts fetches one page of contacts
func (c *Client) ListContacts(ctx context.Context, query integration.ListQuery) (*integration.ContactPage, error) {
	query = query.Normalize(integration.DefaultPerPage)
	req, err := c.scoped(ctx, http.MethodGet, "/contacts", pageParams(query), nil)
	if err != nil {
		return nil, err
	}
	var resp contactsResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	page := &integration.ContactPage{
		Contacts: make([]integration.RemoteContact, 0, len(resp.Contacts)),
		Context:  toPageContext(resp.PageContext, query),
	}
	for i := range resp.Contacts {
		page.Contacts = append(page.Contacts, toRemoteContact(&resp.Contacts[i]))
	}
	return page, nil
}

// SearchContacts runs a provider-side text search over contacts
func (c *Client) SearchContacts(ctx context.Context, text string) ([]integration.RemoteContact, error) {
	params := url.Values{
		"search_text": {text},
		"per_page":    {strconv.Itoa(integration.MaxPerPage)},
	}
	req, err := c.scoped(ctx, http.MethodGet, "/contacts", params, nil)
	if err != nil {
		return nil, err
	}
	var resp contactsResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	contacts := make([]integration.RemoteContact, 0, len(resp.Contacts))
	for i := range resp.Contacts {
		contacts = append(contacts, toRemoteContact(&resp.Contacts[i]))
	}
	return contacts, nil
}

// CreateContact creates a contact
func (c *Client) CreateContact(ctx context.Context, draft integration.ContactDraft) (*integration.RemoteContact, error) {
	req, err := c.scoped(ctx, http.MethodPost, "/contacts", nil, toContactPayload(draft))
	if err != nil {
		return nil, err
	}
	var resp contactResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Contact.ContactID == "" {
		return nil, fmt.Errorf("%w: contact id missing in create response", integration.ErrInvalidResponse)
	}
	contact := toRemoteContact(&resp.Contact)
	return &contact, nil
}

// UpdateContact overwrites a contact
func (c *Client) UpdateContact(ctx context.Context, contactID string, draft integration.ContactDraft) (*integration.RemoteContact, error) {
	if contactID == "" {
		return nil, integration.NewValidationError("contact_id", "contact id is required")
	}
	req, err := c.scoped(ctx, http.MethodPut, "/contacts/"+url.PathEscape(contactID), nil, toContactPayload(draft))
	if err != nil {
		return nil, err
	}
	var resp contactResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	contact := toRemoteContact(&resp.Contact)
	return &contact, nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

// ListItems fetches one page of items
func (c *Client) ListItems(ctx context.Context, query integration.ListQuery) (*integration.ItemPage, error) {
	query = query.Normalize(integration.DefaultPerPage)
	req, err := c.scoped(ctx, http.MethodGet, "/items", pageParams(query), nil)
	if err != nil {
		return nil, err
	}
	var resp itemsResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	page := &integration.ItemPage{
		Items:   make([]integration.RemoteItem, 0, len(resp.Items)),
		Context: toPageContext(resp.PageContext, query),
	}
	for i := range resp.Items {
		page.Items = append(page.Items, toRemoteItem(&resp.Items[i]))
	}
	return page, nil
}

// CreateItem creates a catalog item
func (c *Client) CreateItem(ctx context.Context, draft integration.ItemDraft) (*integration.RemoteItem, error) {
	req, err := c.scoped(ctx, http.MethodPost, "/items", nil, toItemPayload(draft))
	if err != nil {
		return nil, err
	}
	var resp itemResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Item.ItemID == "" {
		return nil, fmt.Errorf("%w: item id missing in create response", integration.ErrInvalidResponse)
	}
	item := toRemoteItem(&resp.Item)
	return &item, nil
}

// UpdateItem overwrites a catalog item
func (c *Client) UpdateItem(ctx context.Context, itemID string, draft integration.ItemDraft) (*integration.RemoteItem, error) {
	if itemID == "" {
		return nil, integration.NewValidationError("item_id", "item id is required")
	}
	req, err := c.scoped(ctx, http.MethodPut, "/items/"+url.PathEscape(itemID), nil, toItemPayload(draft))
	if err != nil {
		return nil, err
	}
	var resp itemResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	item := toRemoteItem(&resp.Item)
	return &item, nil
}

// ---------------------------------------------------------------------------
// Invoices and payments
// ---------------------------------------------------------------------------

// CreateInvoice creates an invoice keeping the caller's invoice number
func (c *Client) CreateInvoice(ctx context.Context, draft integration.InvoiceDraft) (*integration.RemoteInvoice, error) {
	if draft.CustomerID == "" {
		return nil, integration.NewValidationError("customer_id", "customer id is required")
	}
	if len(draft.LineItems) == 0 {
		return nil, integration.NewValidationError("line_items", "at least one line item is required")
	}
	params := url.Values{"ignore_auto_number_generation": {"true"}}
	req, err := c.scoped(ctx, http.MethodPost, "/invoices", params, toInvoicePayload(draft))
	if err != nil {
		return nil, err
	}
	var resp invoiceResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Invoice.InvoiceID == "" {
		return nil, fmt.Errorf("%w: invoice id missing in create response", integration.ErrInvalidResponse)
	}
	return &integration.RemoteInvoice{
		InvoiceID:     resp.Invoice.InvoiceID,
		InvoiceNumber: resp.Invoice.InvoiceNumber,
		Status:        resp.Invoice.Status,
		Total:         resp.Invoice.Total.value,
	}, nil
}

// SubmitInvoice moves a draft invoice out of draft state
func (c *Client) SubmitInvoice(ctx context.Context, invoiceID string) error {
	if invoiceID == "" {
		return integration.NewValidationError("invoice_id", "invoice id is required")
	}
	req, err := c.scoped(ctx, http.MethodPost, "/invoices/"+url.PathEscape(invoiceID)+"/submit", nil, nil)
	if err != nil {
		return err
	}
	var resp envelope
	return c.call(ctx, req, &resp)
}

// CreateCustomerPayment records a payment applied to one invoice
func (c *Client) CreateCustomerPayment(ctx context.Context, draft integration.PaymentDraft) (*integration.RemotePayment, error) {
	if !draft.Amount.IsPositive() {
		return nil, integration.NewValidationError("amount", "payment amount must be positive")
	}
	req, err := c.scoped(ctx, http.MethodPost, "/customerpayments", nil, toPaymentPayload(draft))
	if err != nil {
		return nil, err
	}
	var resp paymentResponse
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &integration.RemotePayment{
		PaymentID:     resp.Payment.PaymentID,
		PaymentNumber: resp.Payment.PaymentNumber,
		Amount:        resp.Payment.Amount.value,
	}, nil
}

// ---------------------------------------------------------------------------
// Plumbing
// ---------------------------------------------------------------------------

func (c *Client) endpoint(path string) string {
	return c.config.APIBaseURL + path
}

// scoped builds a request carrying the organization header
func (c *Client) scoped(ctx context.Context, method, path string, query url.Values, body any) (Request, error) {
	cred, err := c.store.Load(ctx)
	if err != nil {
		return Request{}, err
	}
	if cred.OrganizationID == "" {
		return Request{}, integration.NewConfigurationError("organization_id", "Organization ID not configured")
	}
	header := http.Header{}
	header.Set(OrganizationHeader, cred.OrganizationID)
	return Request{
		Method: method,
		URL:    c.endpoint(path),
		Header: header,
		Query:  query,
		Body:   body,
	}, nil
}

// call executes req and decodes a successful envelope into out
func (c *Client) call(ctx context.Context, req Request, out any) error {
	resp, err := c.executor.Execute(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &integration.HTTPError{Status: resp.StatusCode, Body: string(resp.Body), URL: resp.URL}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		c.logger.Error("Failed to decode zoho response",
			zap.String("url", resp.URL),
			zap.String("body", integration.Truncate(string(resp.Body), maxLoggedBody)),
			zap.Error(err))
		return fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}
	if env.Code != 0 {
		return &integration.HTTPError{Status: resp.StatusCode, Body: fmt.Sprintf("%d: %s", env.Code, env.Message), URL: resp.URL}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}
	return nil
}

func pageParams(q integration.ListQuery) url.Values {
	return url.Values{
		"page":     {strconv.Itoa(q.Page)},
		"per_page": {strconv.Itoa(q.PerPage)},
	}
}

func toPageContext(pc pageContext, q integration.ListQuery) integration.PageContext {
	out := integration.PageContext{Page: pc.Page, PerPage: pc.PerPage, HasMorePage: pc.HasMorePage}
	if out.Page == 0 {
		out.Page = q.Page
	}
	if out.PerPage == 0 {
		out.PerPage = q.PerPage
	}
	return out
}
