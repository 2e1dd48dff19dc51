package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
)

// SyncJobStatus represents the status of a scheduled sync job
type SyncJobStatus string

const (
	SyncJobStatusPending   SyncJobStatus = "PENDING"
	SyncJobStatusRunning   SyncJobStatus = "RUNNING"
	SyncJobStatusSuccess   SyncJobStatus = "SUCCESS"
	SyncJobStatusPartial   SyncJobStatus = "PARTIAL"
	SyncJobStatusFailed    SyncJobStatus = "FAILED"
	SyncJobStatusCancelled SyncJobStatus = "CANCELLED"
)

// SyncJob is one scheduled pull of an entity. A job walks pages until Zoho
// reports no more pages or the per-tick page limit is reached.
type SyncJob struct {
	ID          uuid.UUID              `json:"id"`
	Entity      integration.EntityKind `json:"entity"`
	OnlyNew     bool                   `json:"only_new"`
	Status      SyncJobStatus          `json:"status"`
	Error       string                 `json:"error,omitempty"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`

	// Attempts counts page fetches including retries.
	Attempts     int  `json:"attempts"`
	Pages        int  `json:"pages"`
	HasMorePages bool `json:"has_more_pages"`

	Fetched  int      `json:"fetched"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errored  int      `json:"errored"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewSyncJob creates a pending job for entity
func NewSyncJob(entity integration.EntityKind, onlyNew bool) *SyncJob {
	return &SyncJob{
		ID:      uuid.New(),
		Entity:  entity,
		OnlyNew: onlyNew,
		Status:  SyncJobStatusPending,
	}
}

// Start marks the job as running
func (j *SyncJob) Start(now time.Time) {
	j.Status = SyncJobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// AddPage folds one page result into the job totals
func (j *SyncJob) AddPage(result *integration.SyncRunResult) {
	j.Pages++
	j.HasMorePages = result.HasMorePages
	j.Fetched += result.Fetched
	j.Created += result.Created
	j.Updated += result.Updated
	j.Skipped += result.Skipped
	j.Errored += result.Errored
	j.Warnings = append(j.Warnings, result.Warnings...)
}

// Complete marks the job finished. Record failures make it partial, or
// failed when nothing was reconciled.
func (j *SyncJob) Complete(now time.Time) {
	j.CompletedAt = &now

	succeeded := j.Created + j.Updated + j.Skipped
	switch {
	case j.Errored == 0:
		j.Status = SyncJobStatusSuccess
	case succeeded > 0:
		j.Status = SyncJobStatusPartial
	default:
		j.Status = SyncJobStatusFailed
	}
}

// Fail marks the job as failed
func (j *SyncJob) Fail(now time.Time, err string) {
	j.Status = SyncJobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// Cancel marks the job as cancelled, keeping the totals gathered so far
func (j *SyncJob) Cancel(now time.Time) {
	j.Status = SyncJobStatusCancelled
	j.CompletedAt = &now
}

// Duration of a finished job, zero while it runs
func (j *SyncJob) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}
