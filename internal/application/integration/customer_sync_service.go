package integration

import (
	"context"
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/partner"
	"go.uber.org/zap"
)

// CustomerSyncServiceImpl pulls Zoho Books contacts into local customers.
type CustomerSyncServiceImpl struct {
	platform   integration.AccountingPlatform
	repo       partner.CustomerRepository
	reconciler *Reconciler[integration.RemoteContact, partner.Customer]
	settings   integration.Settings
	metrics    SyncMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewCustomerSyncService creates a new CustomerSyncServiceImpl
func NewCustomerSyncService(
	platform integration.AccountingPlatform,
	repo partner.CustomerRepository,
	settings integration.Settings,
	metrics SyncMetrics,
	logger *zap.Logger,
) *CustomerSyncServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerSyncServiceImpl{
		platform:   platform,
		repo:       repo,
		reconciler: NewReconciler[integration.RemoteContact, partner.Customer](integration.EntityCustomer, customerStore{repo: repo}, customerMapper{settings: settings}, logger),
		settings:   settings,
		metrics:    metricsOrNoop(metrics),
		logger:     logger,
		now:        time.Now,
	}
}

// Sync reconciles one page of contacts. Failing to fetch the page is
// returned as an error; failures of single records are counted in the
// result.
func (s *CustomerSyncServiceImpl) Sync(ctx context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error) {
	query := integration.ListQuery{Page: req.Page, PerPage: req.PerPage}.Normalize(s.settings.CustomersPerPage)
	req.Page, req.PerPage = query.Page, query.PerPage
	if req.SyncFromDate == nil {
		req.SyncFromDate = s.settings.SyncFromDate
	}

	ctx, log := startRun(ctx, s.logger, integration.EntityCustomer)
	result := integration.NewSyncRunResult(integration.EntityCustomer, req, s.now())

	page, err := s.platform.ListContacts(ctx, query)
	if err != nil {
		log.Error("failed to fetch contacts", zap.Int("page", query.Page), zap.Error(err))
		return nil, err
	}
	result.Fetched = len(page.Contacts)
	result.HasMorePages = page.Context.HasMorePage

	run := &pageRun[integration.RemoteContact, partner.Customer]{
		entity:     integration.EntityCustomer,
		reconciler: s.reconciler,
		key:        func(c integration.RemoteContact) (string, string) { return c.ContactID, c.ContactName },
		modifiedAt: func(c integration.RemoteContact) *time.Time { return c.LastModifiedTime },
		exists:     s.repo.ExistsByZohoContactID,
		logger:     log,
	}
	runErr := run.run(ctx, page.Contacts, req, result)

	result.Finish(s.now())
	s.metrics.RecordSyncRun(ctx, result)
	log.Info(result.Message(),
		zap.Int("page", result.Page),
		zap.Int("fetched", result.Fetched),
		zap.Bool("has_more_pages", result.HasMorePages),
	)
	return result, runErr
}
