package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"github.com/itsyosefali/zoho-integration/internal/domain/trade"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// InvoicePushServiceImpl sends submitted sales invoices to Zoho Books.
type InvoicePushServiceImpl struct {
	platform  integration.AccountingPlatform
	invoices  trade.SalesInvoiceRepository
	customers partner.CustomerReader
	settings  integration.Settings
	metrics   SyncMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoicePushService creates a new InvoicePushServiceImpl
func NewInvoicePushService(
	platform integration.AccountingPlatform,
	invoices trade.SalesInvoiceRepository,
	customers partner.CustomerReader,
	settings integration.Settings,
	metrics SyncMetrics,
	logger *zap.Logger,
) *InvoicePushServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoicePushServiceImpl{
		platform:  platform,
		invoices:  invoices,
		customers: customers,
		settings:  settings,
		metrics:   metricsOrNoop(metrics),
		logger:    logger,
		now:       time.Now,
	}
}

// PushByID loads the invoice and pushes it.
func (s *InvoicePushServiceImpl) PushByID(ctx context.Context, id uuid.UUID) (*integration.PushResult, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", integration.ErrInvoiceNotFound, id)
		}
		return nil, err
	}
	return s.Push(ctx, invoice)
}

// Push creates the invoice in Zoho Books. An invoice that already carries a
// Zoho invoice id is skipped. Submit and payment failures only add warnings
// to a successful result, as does a failure to record the Zoho id locally.
// When the push fails the invoice is marked Failed and both the result and
// the error are returned.
func (s *InvoicePushServiceImpl) Push(ctx context.Context, invoice *trade.SalesInvoice) (*integration.PushResult, error) {
	log := s.logger.With(zap.String("invoice", invoice.Name))
	result := &integration.PushResult{
		Entity:   integration.EntityInvoice,
		LocalID:  invoice.ID.String(),
		Number:   invoice.Name,
		Warnings: []string{},
	}

	if invoice.IsSynced() {
		result.Status = integration.PushStatusSkipped
		result.ExternalID = invoice.ZohoInvoiceID
		result.Message = fmt.Sprintf("Invoice already sent to Zoho (ID: %s)", invoice.ZohoInvoiceID)
		return result, nil
	}

	remote, err := s.createRemote(ctx, invoice)
	if err != nil {
		log.Error("failed to send invoice to zoho", zap.Error(err))
		invoice.MarkPushFailed(s.now())
		if saveErr := s.invoices.SaveSyncState(ctx, invoice); saveErr != nil {
			log.Error("failed to record invoice sync failure", zap.Error(saveErr))
		}
		result.Status = integration.PushStatusError
		result.Message = err.Error()
		s.metrics.RecordPush(ctx, result)
		return result, err
	}

	result.Status = integration.PushStatusSuccess
	result.ExternalID = remote.invoice.InvoiceID
	result.Message = fmt.Sprintf("Invoice sent to Zoho successfully (ID: %s)", remote.invoice.InvoiceID)

	invoice.MarkPushed(remote.invoice.InvoiceID, remote.invoice.InvoiceNumber, s.now())
	if err := s.invoices.SaveSyncState(ctx, invoice); err != nil {
		// The remote invoice exists, so the id must reach the caller even
		// though the local record still looks unsent.
		log.Error("zoho invoice created but not recorded locally",
			zap.String("zoho_invoice_id", remote.invoice.InvoiceID),
			zap.Error(err),
		)
		result.Warn(fmt.Sprintf("Invoice created in Zoho (ID: %s) but the local record could not be updated: %v", remote.invoice.InvoiceID, err))
	}

	if s.settings.SubmitInvoices {
		if err := s.platform.SubmitInvoice(ctx, remote.invoice.InvoiceID); err != nil {
			log.Warn("failed to submit zoho invoice", zap.Error(err))
			result.Warn(fmt.Sprintf("Invoice created but could not be submitted: %v", err))
		}
	}

	if invoice.PaidAmount.IsPositive() {
		_, err := s.platform.CreateCustomerPayment(ctx, integration.PaymentDraft{
			CustomerID:  remote.contactID,
			InvoiceID:   remote.invoice.InvoiceID,
			Amount:      invoice.PaidAmount,
			Date:        invoice.PostingDate,
			PaymentMode: s.settings.PaymentMode,
			Reference:   invoice.Name,
		})
		if err != nil {
			log.Warn("failed to record zoho payment", zap.Error(err))
			result.Warn(fmt.Sprintf("Invoice created but payment could not be recorded: %v", err))
		}
	}

	log.Info("invoice sent to zoho",
		zap.String("zoho_invoice_id", remote.invoice.InvoiceID),
		zap.String("zoho_invoice_number", remote.invoice.InvoiceNumber),
		zap.Int("warnings", len(result.Warnings)),
	)
	s.metrics.RecordPush(ctx, result)
	return result, nil
}

type pushedInvoice struct {
	contactID string
	invoice   *integration.RemoteInvoice
}

func (s *InvoicePushServiceImpl) createRemote(ctx context.Context, invoice *trade.SalesInvoice) (*pushedInvoice, error) {
	if len(invoice.Items) == 0 {
		return nil, integration.NewValidationError("items", "invoice has no line items")
	}

	customer, err := s.customers.FindByName(ctx, invoice.CustomerName)
	if err != nil {
		return nil, err
	}
	contactID, err := s.resolveContact(ctx, invoice.CustomerName, customer)
	if err != nil {
		return nil, err
	}

	remote, err := s.platform.CreateInvoice(ctx, s.invoiceDraft(invoice, contactID))
	if err != nil {
		return nil, err
	}
	return &pushedInvoice{contactID: contactID, invoice: remote}, nil
}

// resolveContact returns the Zoho contact for the invoice's customer: the
// bound contact, an exact name or email match from search, or a newly
// created contact.
func (s *InvoicePushServiceImpl) resolveContact(ctx context.Context, name string, customer *partner.Customer) (string, error) {
	var email, mobile string
	company := false
	if customer != nil {
		if customer.ZohoContactID != "" {
			return customer.ZohoContactID, nil
		}
		email = customer.ContactEmail()
		mobile = customer.ContactMobile()
		company = customer.CustomerType == partner.CustomerTypeCompany
	}

	candidates, err := s.platform.SearchContacts(ctx, name)
	if err != nil {
		s.logger.Warn("zoho contact search failed", zap.String("customer", name), zap.Error(err))
	}
	if id := matchContact(candidates, name, email); id != "" {
		return id, nil
	}

	draft := integration.ContactDraft{
		ContactName:     name,
		ContactType:     "customer",
		CustomerSubType: "individual",
		Email:           email,
		Phone:           mobile,
		Mobile:          mobile,
	}
	if company {
		draft.CompanyName = name
		draft.CustomerSubType = "business"
	}
	created, err := s.platform.CreateContact(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("%w: %w", integration.ErrContactUnresolved, err)
	}
	if created == nil || created.ContactID == "" {
		return "", integration.ErrContactUnresolved
	}
	return created.ContactID, nil
}

// matchContact picks the first contact whose name equals name exactly or
// whose email equals email ignoring case.
func matchContact(candidates []integration.RemoteContact, name, email string) string {
	fold := cases.Fold()
	wantEmail := fold.String(strings.TrimSpace(email))
	for _, c := range candidates {
		if c.ContactName == name {
			return c.ContactID
		}
		if wantEmail != "" && fold.String(strings.TrimSpace(c.Email)) == wantEmail {
			return c.ContactID
		}
	}
	return ""
}

func (s *InvoicePushServiceImpl) invoiceDraft(invoice *trade.SalesInvoice, contactID string) integration.InvoiceDraft {
	lines := make([]integration.InvoiceLineDraft, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		description := item.Description
		if description == "" {
			description = item.ItemName
		}
		lines = append(lines, integration.InvoiceLineDraft{
			Name:        item.ItemName,
			Description: description,
			Rate:        item.Rate,
			Quantity:    item.Qty,
			Unit:        item.UOM,
		})
	}
	return integration.InvoiceDraft{
		CustomerID:        contactID,
		InvoiceNumber:     invoice.Name,
		ReferenceNumber:   invoice.Name,
		Date:              invoice.PostingDate,
		DueDate:           invoice.DueDate,
		LineItems:         lines,
		Notes:             invoice.Remarks,
		Terms:             s.settings.InvoiceTerms,
		PaymentTerms:      0,
		PaymentTermsLabel: s.settings.PaymentTermsLabel,
		Discount:          invoice.DiscountAmount,
		TaxTotal:          invoice.TotalTaxesAndCharges,
	}
}
