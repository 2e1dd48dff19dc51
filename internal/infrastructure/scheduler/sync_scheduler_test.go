package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testConfig() SyncSchedulerConfig {
	cfg := DefaultSyncSchedulerConfig()
	cfg.Interval = 20 * time.Millisecond
	cfg.JobTimeout = 5 * time.Second
	cfg.RetryDelay = time.Millisecond
	cfg.MaxRetryDelay = 5 * time.Millisecond
	cfg.HistorySize = 5
	return cfg
}

type pageResponse struct {
	result *integration.SyncRunResult
	err    error
}

// scriptedSyncer replays responses in order and repeats the last one.
type scriptedSyncer struct {
	mu        sync.Mutex
	responses []pageResponse
	requests  []integration.SyncRequest
	entered   chan struct{}
	block     chan struct{}
}

func (s *scriptedSyncer) Sync(ctx context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error) {
	if s.entered != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return page(req.Page, 0, false), nil
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp.result, resp.err
}

func (s *scriptedSyncer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func page(n, created int, more bool) *integration.SyncRunResult {
	r := integration.NewSyncRunResult(integration.EntityCustomer, integration.SyncRequest{Page: n}, time.Now())
	r.Fetched = created
	r.Created = created
	r.HasMorePages = more
	return r
}

func newTestScheduler(t *testing.T, cfg SyncSchedulerConfig, syncer Syncer) *SyncScheduler {
	t.Helper()
	s, err := NewSyncScheduler(cfg, newTestLogger())
	require.NoError(t, err)
	s.Register(integration.EntityCustomer, syncer)
	return s
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestSyncSchedulerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SyncSchedulerConfig)
		valid  bool
	}{
		{"defaults", func(c *SyncSchedulerConfig) {}, true},
		{"zero interval", func(c *SyncSchedulerConfig) { c.Interval = 0 }, false},
		{"negative initial delay", func(c *SyncSchedulerConfig) { c.InitialDelay = -time.Second }, false},
		{"zero job timeout", func(c *SyncSchedulerConfig) { c.JobTimeout = 0 }, false},
		{"negative retries", func(c *SyncSchedulerConfig) { c.RetryAttempts = -1 }, false},
		{"no retries", func(c *SyncSchedulerConfig) { c.RetryAttempts = 0 }, true},
		{"max delay below delay", func(c *SyncSchedulerConfig) { c.MaxRetryDelay = c.RetryDelay / 2 }, false},
		{"zero history", func(c *SyncSchedulerConfig) { c.HistorySize = 0 }, false},
		{"zero pages", func(c *SyncSchedulerConfig) { c.MaxPagesPerTick = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSyncSchedulerConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// SyncJob Tests
// ---------------------------------------------------------------------------

func TestSyncJob_Complete(t *testing.T) {
	tests := []struct {
		name     string
		created  int
		errored  int
		expected SyncJobStatus
	}{
		{"all success", 3, 0, SyncJobStatusSuccess},
		{"partial", 2, 1, SyncJobStatusPartial},
		{"all failed", 0, 4, SyncJobStatusFailed},
		{"empty page", 0, 0, SyncJobStatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewSyncJob(integration.EntityItem, true)
			job.Start(time.Now())
			r := page(1, tt.created, false)
			r.Errored = tt.errored
			job.AddPage(r)

			job.Complete(time.Now())

			assert.Equal(t, tt.expected, job.Status)
			assert.NotNil(t, job.CompletedAt)
			assert.Equal(t, 1, job.Pages)
		})
	}
}

// ---------------------------------------------------------------------------
// RunNow Tests
// ---------------------------------------------------------------------------

func TestSyncScheduler_RunNow_WalksPages(t *testing.T) {
	syncer := &scriptedSyncer{responses: []pageResponse{
		{result: page(1, 2, true)},
		{result: page(2, 3, true)},
		{result: page(3, 1, false)},
	}}
	s := newTestScheduler(t, testConfig(), syncer)

	job, err := s.RunNow(context.Background(), integration.EntityCustomer, true)
	require.NoError(t, err)

	assert.Equal(t, SyncJobStatusSuccess, job.Status)
	assert.Equal(t, 3, job.Pages)
	assert.Equal(t, 6, job.Created)
	assert.False(t, job.HasMorePages)
	require.Len(t, syncer.requests, 3)
	for i, req := range syncer.requests {
		assert.Equal(t, i+1, req.Page)
		assert.True(t, req.OnlyNew)
	}
}

func TestSyncScheduler_RunNow_StopsAtPageLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPagesPerTick = 2
	syncer := &scriptedSyncer{responses: []pageResponse{{result: page(1, 1, true)}}}
	s := newTestScheduler(t, cfg, syncer)

	job, err := s.RunNow(context.Background(), integration.EntityCustomer, false)
	require.NoError(t, err)

	assert.Equal(t, 2, job.Pages)
	assert.True(t, job.HasMorePages)
	assert.Equal(t, 2, syncer.calls())
}

func TestSyncScheduler_RunNow_RetriesTransientFailures(t *testing.T) {
	syncer := &scriptedSyncer{responses: []pageResponse{
		{err: &integration.NetworkError{Op: "GET", URL: "/contacts", Err: errors.New("connection reset")}},
		{err: &integration.HTTPError{Status: 503, Body: "maintenance"}},
		{result: page(1, 4, false)},
	}}
	s := newTestScheduler(t, testConfig(), syncer)

	job, err := s.RunNow(context.Background(), integration.EntityCustomer, true)
	require.NoError(t, err)

	assert.Equal(t, SyncJobStatusSuccess, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, 4, job.Created)
}

func TestSyncScheduler_RunNow_FailsAfterRetries(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 2
	syncer := &scriptedSyncer{responses: []pageResponse{
		{err: &integration.HTTPError{Status: 502, Body: "bad gateway"}},
	}}
	s := newTestScheduler(t, cfg, syncer)

	job, err := s.RunNow(context.Background(), integration.EntityCustomer, true)
	require.NoError(t, err)

	assert.Equal(t, SyncJobStatusFailed, job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Contains(t, job.Error, "502")
}

func TestSyncScheduler_RunNow_DoesNotRetryPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not connected", integration.ErrNotConnected},
		{"configuration", integration.NewConfigurationError("organization_id", "organization id not configured")},
		{"client error", &integration.HTTPError{Status: 400, Body: "invalid page"}},
		{"unauthorized", &integration.HTTPError{Status: 401, Body: "invalid token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &scriptedSyncer{responses: []pageResponse{{err: tt.err}}}
			s := newTestScheduler(t, testConfig(), syncer)

			job, err := s.RunNow(context.Background(), integration.EntityCustomer, true)
			require.NoError(t, err)

			assert.Equal(t, SyncJobStatusFailed, job.Status)
			assert.Equal(t, 1, job.Attempts)
		})
	}
}

// cancellingSyncer cancels the job context midway through a page.
type cancellingSyncer struct {
	cancel  context.CancelFunc
	partial *integration.SyncRunResult
	calls   int
}

func (c *cancellingSyncer) Sync(_ context.Context, _ integration.SyncRequest) (*integration.SyncRunResult, error) {
	c.calls++
	c.cancel()
	return c.partial, context.Canceled
}

func TestSyncScheduler_RunNow_KeepsPartialPageOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	syncer := &cancellingSyncer{cancel: cancel, partial: page(1, 2, true)}
	s := newTestScheduler(t, testConfig(), syncer)

	job, err := s.RunNow(ctx, integration.EntityCustomer, true)
	require.NoError(t, err)

	assert.Equal(t, SyncJobStatusCancelled, job.Status)
	assert.Equal(t, 2, job.Created)
	assert.Equal(t, 1, syncer.calls, "interrupted page is not retried")
}

func TestSyncScheduler_RunNow_UnknownEntity(t *testing.T) {
	s := newTestScheduler(t, testConfig(), &scriptedSyncer{})

	_, err := s.RunNow(context.Background(), integration.EntityInvoice, true)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestSyncScheduler_RunNow_SerializesPerEntity(t *testing.T) {
	syncer := &scriptedSyncer{entered: make(chan struct{}, 1), block: make(chan struct{})}
	s := newTestScheduler(t, testConfig(), syncer)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.RunNow(context.Background(), integration.EntityCustomer, true)
	}()

	select {
	case <-syncer.entered:
	case <-time.After(time.Second):
		t.Fatal("first run never reached the syncer")
	}

	_, err := s.RunNow(context.Background(), integration.EntityCustomer, true)
	assert.ErrorIs(t, err, ErrSyncAlreadyInProgress)

	close(syncer.block)
	<-done

	_, err = s.RunNow(context.Background(), integration.EntityCustomer, true)
	assert.NoError(t, err)
}

// ---------------------------------------------------------------------------
// Lifecycle Tests
// ---------------------------------------------------------------------------

type countingSyncer struct {
	runs atomic.Int32
}

func (c *countingSyncer) Sync(_ context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error) {
	c.runs.Add(1)
	return page(req.Page, 0, false), nil
}

func TestSyncScheduler_StartStop(t *testing.T) {
	customers := &countingSyncer{}
	items := &countingSyncer{}
	s, err := NewSyncScheduler(testConfig(), newTestLogger())
	require.NoError(t, err)
	s.Register(integration.EntityCustomer, customers)
	s.Register(integration.EntityItem, items)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	require.Eventually(t, func() bool {
		return customers.runs.Load() >= 2 && items.runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(stopCtx), ErrSchedulerNotRunning)

	assert.NotEmpty(t, s.GetJobHistoryByEntity(integration.EntityItem, 0))
}

func TestSyncScheduler_JobHistory(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 3
	s := newTestScheduler(t, cfg, &countingSyncer{})
	s.Register(integration.EntityItem, &countingSyncer{})

	var last *SyncJob
	for i := 0; i < 4; i++ {
		job, err := s.RunNow(context.Background(), integration.EntityCustomer, true)
		require.NoError(t, err)
		last = job
	}
	_, err := s.RunNow(context.Background(), integration.EntityItem, true)
	require.NoError(t, err)

	history := s.GetJobHistory(0)
	require.Len(t, history, 3)
	assert.Equal(t, integration.EntityItem, history[0].Entity)
	assert.Same(t, last, history[1])

	assert.Len(t, s.GetJobHistory(1), 1)
	assert.Len(t, s.GetJobHistoryByEntity(integration.EntityCustomer, 1), 1)
	assert.Len(t, s.GetJobHistoryByEntity(integration.EntityCustomer, 0), 2)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&integration.NetworkError{Op: "GET", Err: errors.New("timeout")}))
	assert.True(t, isTransient(&integration.HTTPError{Status: 429}))
	assert.True(t, isTransient(&integration.HTTPError{Status: 500}))
	assert.False(t, isTransient(&integration.HTTPError{Status: 404}))
	assert.False(t, isTransient(integration.ErrNotConnected))
}
