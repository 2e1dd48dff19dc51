package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SyncMetrics receives the outcome of every sync run and push. Implemented
// by the telemetry package; a nil SyncMetrics is ignored.
type SyncMetrics interface {
	RecordSyncRun(ctx context.Context, result *integration.SyncRunResult)
	RecordPush(ctx context.Context, result *integration.PushResult)
}

type noopMetrics struct{}

func (noopMetrics) RecordSyncRun(context.Context, *integration.SyncRunResult) {}
func (noopMetrics) RecordPush(context.Context, *integration.PushResult)       {}

func metricsOrNoop(m SyncMetrics) SyncMetrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// pageRun drives one fetched page through a Reconciler. Hooks let the item
// sync prepare reference data and post stock.
type pageRun[R, L any] struct {
	entity     integration.EntityKind
	reconciler *Reconciler[R, L]
	key        func(R) (string, string)
	modifiedAt func(R) *time.Time
	exists     func(ctx context.Context, externalID string) (bool, error)
	before     func(ctx context.Context, remote R) error
	after      func(ctx context.Context, remote R, outcome Outcome[L], result *integration.SyncRunResult)
	logger     *zap.Logger
}

// startRun tags ctx with a fresh sync run id.
func startRun(ctx context.Context, base *zap.Logger, entity integration.EntityKind) (context.Context, *zap.Logger) {
	ctx, log := logger.WithSyncRunID(ctx, base, uuid.NewString())
	return ctx, log.With(zap.String("entity", string(entity)))
}

// run reconciles records one by one. Per-record failures are counted and the
// page continues; a cancelled context stops the page between records.
func (p *pageRun[R, L]) run(ctx context.Context, records []R, req integration.SyncRequest, result *integration.SyncRunResult) error {
	for _, remote := range records {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("sync cancelled", zap.Error(err))
			return err
		}

		externalID, name := p.key(remote)

		if req.SyncFromDate != nil {
			if modified := p.modifiedAt(remote); modified != nil && modified.Before(*req.SyncFromDate) {
				result.Record(integration.ActionSkipped)
				continue
			}
		}

		if req.OnlyNew && externalID != "" {
			exists, err := p.exists(ctx, externalID)
			if err != nil {
				p.recordError(result, externalID, name, err)
				continue
			}
			if exists {
				result.Record(integration.ActionSkipped)
				continue
			}
		}

		if p.before != nil {
			if err := p.before(ctx, remote); err != nil {
				p.recordError(result, externalID, name, err)
				continue
			}
		}

		outcome, err := p.reconciler.Reconcile(ctx, remote, ReconcileOptions{CreateOnly: req.OnlyNew})
		if err != nil {
			p.recordError(result, externalID, name, err)
			continue
		}
		result.Record(outcome.Action)
		p.logger.Debug("record reconciled",
			zap.String("external_id", externalID),
			zap.String("name", name),
			zap.String("action", string(outcome.Action)),
		)

		if p.after != nil && outcome.Local != nil {
			p.after(ctx, remote, outcome, result)
		}
	}
	return nil
}

func (p *pageRun[R, L]) recordError(result *integration.SyncRunResult, externalID, name string, err error) {
	p.logger.Error("failed to sync record",
		zap.String("external_id", externalID),
		zap.String("name", name),
		zap.String("kind", string(integration.ClassifyError(err))),
		zap.Error(err),
	)
	result.RecordError(integration.DescribeRecordError(string(p.entity), name, err))
}
