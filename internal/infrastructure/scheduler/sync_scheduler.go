package scheduler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/telemetry"
)

// ---------------------------------------------------------------------------
// Syncer Interface
// ---------------------------------------------------------------------------

// Syncer pulls one page of an entity from Zoho Books
type Syncer interface {
	Sync(ctx context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error)
}

// ---------------------------------------------------------------------------
// SyncSchedulerConfig
// ---------------------------------------------------------------------------

// SyncSchedulerConfig holds configuration for the periodic pull sync
type SyncSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval between two ticks
	Interval time.Duration
	// InitialDelay before the first tick after Start
	InitialDelay time.Duration
	// OnlyNew runs scheduled syncs in create-only mode
	OnlyNew bool
	// JobTimeout is the maximum time a job can run
	JobTimeout time.Duration
	// RetryAttempts is the number of retries of a failed page fetch
	RetryAttempts int
	// RetryDelay is the first backoff delay
	RetryDelay time.Duration
	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration
	// HistorySize is the number of finished jobs kept in memory
	HistorySize int
	// MaxPagesPerTick bounds the pages walked by a single job
	MaxPagesPerTick int
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Enabled:         true,
		Interval:        time.Hour,
		OnlyNew:         true,
		JobTimeout:      30 * time.Minute,
		RetryAttempts:   3,
		RetryDelay:      time.Minute,
		MaxRetryDelay:   30 * time.Minute,
		HistorySize:     50,
		MaxPagesPerTick: 10,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.InitialDelay < 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.RetryAttempts < 0 {
		return ErrInvalidConfig
	}
	if c.RetryDelay <= 0 || c.MaxRetryDelay < c.RetryDelay {
		return ErrInvalidConfig
	}
	if c.HistorySize <= 0 || c.MaxPagesPerTick <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// SyncScheduler
// ---------------------------------------------------------------------------

// SyncScheduler runs the registered pull syncs on a fixed interval. Runs of
// the same entity never overlap, whether they come from the ticker or from
// RunNow.
type SyncScheduler struct {
	config SyncSchedulerConfig
	logger *zap.Logger
	now    func() time.Time

	syncers map[integration.EntityKind]Syncer
	order   []integration.EntityKind
	locks   map[integration.EntityKind]*sync.Mutex

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	historyMu sync.RWMutex
	history   []*SyncJob
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SyncScheduler{
		config:  config,
		logger:  logger,
		now:     time.Now,
		syncers: make(map[integration.EntityKind]Syncer),
		locks:   make(map[integration.EntityKind]*sync.Mutex),
		history: make([]*SyncJob, 0, config.HistorySize),
	}, nil
}

// Register adds a syncer for entity. Entities run in registration order on
// every tick. Register must be called before Start.
func (s *SyncScheduler) Register(entity integration.EntityKind, syncer Syncer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.syncers[entity]; !ok {
		s.order = append(s.order, entity)
		s.locks[entity] = &sync.Mutex{}
	}
	s.syncers[entity] = syncer
}

// Start starts the ticker loop
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("initial_delay", s.config.InitialDelay),
		zap.Bool("only_new", s.config.OnlyNew),
		zap.Int("entities", len(s.order)),
	)

	return nil
}

// Stop cancels running jobs and waits for the loop to exit
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the ticker loop is active
func (s *SyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *SyncScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	timer := time.NewTimer(s.config.InitialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.RunAll(ctx)
			timer.Reset(s.config.Interval)
		}
	}
}

// RunAll runs every registered entity once. An entity that is already
// syncing is skipped for this tick.
func (s *SyncScheduler) RunAll(ctx context.Context) []*SyncJob {
	s.mu.Lock()
	entities := append([]integration.EntityKind(nil), s.order...)
	s.mu.Unlock()

	jobs := make([]*SyncJob, 0, len(entities))
	for _, entity := range entities {
		if ctx.Err() != nil {
			break
		}
		job, err := s.RunNow(ctx, entity, s.config.OnlyNew)
		if err != nil {
			s.logger.Info("Skipping scheduled sync",
				zap.String("entity", string(entity)),
				zap.Error(err),
			)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// RunNow runs a job for entity immediately on the caller's goroutine.
func (s *SyncScheduler) RunNow(ctx context.Context, entity integration.EntityKind, onlyNew bool) (*SyncJob, error) {
	s.mu.Lock()
	syncer, ok := s.syncers[entity]
	lock := s.locks[entity]
	s.mu.Unlock()
	if !ok {
		return nil, ErrUnknownEntity
	}

	if !lock.TryLock() {
		return nil, ErrSyncAlreadyInProgress
	}
	defer lock.Unlock()

	job := NewSyncJob(entity, onlyNew)
	s.runJob(ctx, job, syncer)
	s.addToHistory(job)
	return job, nil
}

// runJob walks pages until Zoho reports no more of them
func (s *SyncScheduler) runJob(ctx context.Context, job *SyncJob, syncer Syncer) {
	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "zoho.sync_job",
		attribute.String("entity", string(job.Entity)),
		attribute.Bool("only_new", job.OnlyNew),
	)
	defer span.End()

	job.Start(s.now())
	log := s.logger.With(
		zap.String("job_id", job.ID.String()),
		zap.String("entity", string(job.Entity)),
	)
	log.Info("Processing sync job", zap.Bool("only_new", job.OnlyNew))

	for page := 1; page <= s.config.MaxPagesPerTick; page++ {
		result, err := s.fetchPage(ctx, log, job, syncer, page)
		if result != nil {
			job.AddPage(result)
		}
		if err != nil {
			if ctx.Err() != nil {
				job.Cancel(s.now())
				log.Warn("Sync job cancelled", zap.Int("pages", job.Pages), zap.Error(err))
				return
			}
			job.Fail(s.now(), err.Error())
			telemetry.RecordError(span, err)
			log.Error("Sync job failed",
				zap.Int("page", page),
				zap.Int("attempts", job.Attempts),
				zap.Error(err),
			)
			return
		}
		if result == nil || !result.HasMorePages {
			break
		}
	}

	job.Complete(s.now())
	span.SetAttributes(
		attribute.Int("pages", job.Pages),
		attribute.Int("errored", job.Errored),
	)
	log.Info("Sync job completed",
		zap.String("status", string(job.Status)),
		zap.Int("pages", job.Pages),
		zap.Bool("has_more_pages", job.HasMorePages),
		zap.Int("created", job.Created),
		zap.Int("updated", job.Updated),
		zap.Int("skipped", job.Skipped),
		zap.Int("errored", job.Errored),
		zap.Duration("duration", job.Duration()),
	)
}

// fetchPage syncs one page, retrying transient fetch failures with
// exponential backoff. A page that ran but was interrupted is returned with
// its error and never retried.
func (s *SyncScheduler) fetchPage(ctx context.Context, log *zap.Logger, job *SyncJob, syncer Syncer, page int) (*integration.SyncRunResult, error) {
	req := integration.SyncRequest{Page: page, OnlyNew: job.OnlyNew}

	operation := func() (*integration.SyncRunResult, error) {
		job.Attempts++
		result, err := syncer.Sync(ctx, req)
		if err == nil {
			return result, nil
		}
		if result != nil || !isTransient(err) {
			return result, backoff.Permanent(err)
		}
		return nil, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(uint(s.config.RetryAttempts)+1),
		backoff.WithMaxElapsedTime(s.config.JobTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("Sync page fetch failed, retrying",
				zap.Int("page", page),
				zap.Int("attempt", job.Attempts),
				zap.Duration("next_retry_in", next),
				zap.Error(err),
			)
		}),
	)
}

func (s *SyncScheduler) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.RetryDelay
	b.MaxInterval = s.config.MaxRetryDelay
	return b
}

// isTransient reports whether a failed page fetch is worth retrying
func isTransient(err error) bool {
	var netErr *integration.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *integration.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == http.StatusTooManyRequests || httpErr.Status >= http.StatusInternalServerError
	}
	return false
}

// ---------------------------------------------------------------------------
// Job History
// ---------------------------------------------------------------------------

// addToHistory adds a finished job to history
func (s *SyncScheduler) addToHistory(job *SyncJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*SyncJob{job}, s.history...)
	if len(s.history) > s.config.HistorySize {
		s.history = s.history[:s.config.HistorySize]
	}
}

// GetJobHistory returns recent jobs, newest first
func (s *SyncScheduler) GetJobHistory(limit int) []*SyncJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	result := make([]*SyncJob, limit)
	copy(result, s.history[:limit])
	return result
}

// GetJobHistoryByEntity returns recent jobs of one entity, newest first
func (s *SyncScheduler) GetJobHistoryByEntity(entity integration.EntityKind, limit int) []*SyncJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	result := make([]*SyncJob, 0)
	for _, job := range s.history {
		if job.Entity != entity {
			continue
		}
		result = append(result, job)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}
