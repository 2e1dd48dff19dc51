package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itsyosefali/zoho-integration/internal/domain/catalog"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/inventory"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"go.uber.org/zap"
)

// ItemSyncServiceImpl pulls Zoho Books items into the local catalog and
// aligns stock levels.
type ItemSyncServiceImpl struct {
	platform   integration.AccountingPlatform
	repo       catalog.ItemRepository
	refData    catalog.ReferenceDataRepository
	reconciler *Reconciler[integration.RemoteItem, catalog.Item]
	stock      *StockReconciler
	mapper     itemMapper
	settings   integration.Settings
	metrics    SyncMetrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewItemSyncService creates a new ItemSyncServiceImpl
func NewItemSyncService(
	platform integration.AccountingPlatform,
	repo catalog.ItemRepository,
	refData catalog.ReferenceDataRepository,
	ledger inventory.StockLedger,
	settings integration.Settings,
	metrics SyncMetrics,
	logger *zap.Logger,
) *ItemSyncServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	mapper := itemMapper{settings: settings}
	return &ItemSyncServiceImpl{
		platform:   platform,
		repo:       repo,
		refData:    refData,
		reconciler: NewReconciler[integration.RemoteItem, catalog.Item](integration.EntityItem, itemStore{repo: repo}, mapper, logger),
		stock:      NewStockReconciler(ledger, settings, logger),
		mapper:     mapper,
		settings:   settings,
		metrics:    metricsOrNoop(metrics),
		logger:     logger,
		now:        time.Now,
	}
}

// Sync reconciles one page of items, then posts stock for every created or
// updated stock item.
func (s *ItemSyncServiceImpl) Sync(ctx context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error) {
	query := integration.ListQuery{Page: req.Page, PerPage: req.PerPage}.Normalize(s.settings.ItemsPerPage)
	req.Page, req.PerPage = query.Page, query.PerPage
	if req.SyncFromDate == nil {
		req.SyncFromDate = s.settings.SyncFromDate
	}

	ctx, log := startRun(ctx, s.logger, integration.EntityItem)
	result := integration.NewSyncRunResult(integration.EntityItem, req, s.now())

	page, err := s.platform.ListItems(ctx, query)
	if err != nil {
		log.Error("failed to fetch items", zap.Int("page", query.Page), zap.Error(err))
		return nil, err
	}
	result.Fetched = len(page.Items)
	result.HasMorePages = page.Context.HasMorePage

	run := &pageRun[integration.RemoteItem, catalog.Item]{
		entity:     integration.EntityItem,
		reconciler: s.reconciler,
		key:        func(i integration.RemoteItem) (string, string) { return i.ItemID, i.Name },
		modifiedAt: func(i integration.RemoteItem) *time.Time { return i.LastModifiedTime },
		exists:     s.repo.ExistsByZohoItemID,
		before:     s.ensureReferenceData,
		after:      s.syncStock,
		logger:     log,
	}
	runErr := run.run(ctx, page.Items, req, result)

	result.Finish(s.now())
	s.metrics.RecordSyncRun(ctx, result)
	log.Info(result.Message(),
		zap.Int("page", result.Page),
		zap.Int("fetched", result.Fetched),
		zap.Bool("has_more_pages", result.HasMorePages),
	)
	return result, runErr
}

// ensureReferenceData creates the item group and unit of measure an item
// needs before it is written.
func (s *ItemSyncServiceImpl) ensureReferenceData(ctx context.Context, remote integration.RemoteItem) error {
	group := s.settings.ItemGroup
	if group != "" {
		exists, err := s.refData.ItemGroupExists(ctx, group)
		if err != nil {
			return err
		}
		if !exists {
			err := s.refData.CreateItemGroup(ctx, &catalog.ItemGroup{
				Name:            group,
				ParentItemGroup: s.settings.ParentItemGroup,
			})
			if err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
				return fmt.Errorf("create item group %s: %w", group, err)
			}
		}
	}

	unit := s.mapper.unitOf(remote)
	exists, err := s.refData.UOMExists(ctx, unit)
	if err != nil {
		return err
	}
	if !exists {
		err := s.refData.CreateUOM(ctx, &catalog.UOM{Name: unit, MustBeWholeNumber: true})
		if err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
			return fmt.Errorf("create UOM %s: %w", unit, err)
		}
	}
	return nil
}

// syncStock runs the stock step. Its failures become warnings; the item
// itself was already synced.
func (s *ItemSyncServiceImpl) syncStock(ctx context.Context, remote integration.RemoteItem, outcome Outcome[catalog.Item], result *integration.SyncRunResult) {
	created := outcome.Action == integration.ActionCreated
	stock, err := s.stock.Reconcile(ctx, outcome.Local, remote, created)
	if err != nil {
		s.logger.Warn("stock update failed",
			zap.String("item_code", outcome.Local.ItemCode),
			zap.Error(err),
		)
		result.Warn(fmt.Sprintf("Could not update stock for %s: %v", remote.Name, err))
		return
	}
	if stock.Warning != "" {
		result.Warn(stock.Warning)
	}
}
