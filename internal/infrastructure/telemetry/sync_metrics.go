package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// ErrMeterNil is returned when a metrics recorder is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Attribute keys shared by the sync metrics.
var (
	AttrEntity = attribute.Key("entity")
	AttrAction = attribute.Key("action")
	AttrStatus = attribute.Key("status")
)

// SyncMetrics records pull runs and pushes against Zoho Books.
type SyncMetrics struct {
	logger *zap.Logger

	runsTotal     *Counter
	recordsTotal  *Counter
	warningsTotal *Counter
	runDuration   *Histogram
	pushesTotal   *Counter
}

// NewSyncMetrics creates the sync instruments on meter.
func NewSyncMetrics(meter metric.Meter, logger *zap.Logger) (*SyncMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SyncMetrics{logger: logger}
	var err error

	m.runsTotal, err = NewCounter(meter,
		"zoho_sync_runs_total",
		"Total number of pull sync pages processed",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	m.recordsTotal, err = NewCounter(meter,
		"zoho_sync_records_total",
		"Records reconciled by pull syncs, by action",
		"{records}",
	)
	if err != nil {
		return nil, err
	}

	m.warningsTotal, err = NewCounter(meter,
		"zoho_sync_warnings_total",
		"Non-fatal warnings raised by pull syncs",
		"{warnings}",
	)
	if err != nil {
		return nil, err
	}

	m.runDuration, err = NewHistogram(meter,
		"zoho_sync_run_duration_seconds",
		"Duration of a pull sync page",
		"s",
		0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
	)
	if err != nil {
		return nil, err
	}

	m.pushesTotal, err = NewCounter(meter,
		"zoho_push_total",
		"Local records pushed to Zoho Books, by status",
		"{pushes}",
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSyncRun records the counts of a finished page.
func (m *SyncMetrics) RecordSyncRun(ctx context.Context, result *integration.SyncRunResult) {
	if result == nil {
		return
	}
	entity := AttrEntity.String(string(result.Entity))

	m.runsTotal.Inc(ctx, entity, AttrStatus.String(string(result.Status)))
	m.recordsTotal.Add(ctx, int64(result.Created), entity, AttrAction.String(string(integration.ActionCreated)))
	m.recordsTotal.Add(ctx, int64(result.Updated), entity, AttrAction.String(string(integration.ActionUpdated)))
	m.recordsTotal.Add(ctx, int64(result.Skipped), entity, AttrAction.String(string(integration.ActionSkipped)))
	m.recordsTotal.Add(ctx, int64(result.Errored), entity, AttrAction.String("errored"))
	m.warningsTotal.Add(ctx, int64(len(result.Warnings)), entity)

	if !result.FinishedAt.IsZero() {
		m.runDuration.Record(ctx, result.FinishedAt.Sub(result.StartedAt).Seconds(), entity)
	}
}

// RecordPush records one local → Zoho push.
func (m *SyncMetrics) RecordPush(ctx context.Context, result *integration.PushResult) {
	if result == nil {
		return
	}
	m.pushesTotal.Inc(ctx,
		AttrEntity.String(string(result.Entity)),
		AttrStatus.String(string(result.Status)),
	)
}
