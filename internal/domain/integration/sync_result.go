package integration

import (
	"fmt"
	"time"
)

// EntityKind names the kind of record a sync run handles.
type EntityKind string

const (
	EntityCustomer EntityKind = "customer"
	EntityItem     EntityKind = "item"
	EntityInvoice  EntityKind = "invoice"
)

// SyncAction is the decision taken for a single remote record.
type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
	ActionSkipped SyncAction = "skipped"
)

// RunStatus of a sync run. A run that finished has status success even when
// individual records failed; Errored carries that count.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusError   RunStatus = "error"
)

// SyncRequest is one caller-driven page of a pull sync.
type SyncRequest struct {
	Page    int
	PerPage int
	OnlyNew bool
	// SyncFromDate drops remote records last modified before it.
	SyncFromDate *time.Time
}

// SyncRunResult aggregates one page of a pull sync. It is returned to the
// caller and never persisted.
type SyncRunResult struct {
	Status       RunStatus  `json:"status"`
	Entity       EntityKind `json:"entity"`
	Page         int        `json:"page"`
	PerPage      int        `json:"per_page"`
	OnlyNew      bool       `json:"only_new"`
	Fetched      int        `json:"fetched"`
	Created      int        `json:"created"`
	Updated      int        `json:"updated"`
	Skipped      int        `json:"skipped"`
	Errored      int        `json:"errored"`
	Errors       []string   `json:"errors"`
	Warnings     []string   `json:"warnings"`
	HasMorePages bool       `json:"has_more_pages"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   time.Time  `json:"finished_at"`
}

// NewSyncRunResult starts a result for a page.
func NewSyncRunResult(entity EntityKind, req SyncRequest, now time.Time) *SyncRunResult {
	return &SyncRunResult{
		Status:    RunStatusSuccess,
		Entity:    entity,
		Page:      req.Page,
		PerPage:   req.PerPage,
		OnlyNew:   req.OnlyNew,
		Errors:    []string{},
		Warnings:  []string{},
		StartedAt: now,
	}
}

// Record counts one reconciled record.
func (r *SyncRunResult) Record(action SyncAction) {
	switch action {
	case ActionCreated:
		r.Created++
	case ActionUpdated:
		r.Updated++
	case ActionSkipped:
		r.Skipped++
	}
}

// RecordError counts one failed record.
func (r *SyncRunResult) RecordError(message string) {
	r.Errored++
	r.Errors = append(r.Errors, message)
}

// Warn records a non-fatal message.
func (r *SyncRunResult) Warn(message string) {
	r.Warnings = append(r.Warnings, message)
}

// Finish stamps the end of the run.
func (r *SyncRunResult) Finish(now time.Time) {
	r.FinishedAt = now
}

// Message is the one-line summary shown to operators.
func (r *SyncRunResult) Message() string {
	return fmt.Sprintf("%s sync completed. Created: %d, Updated: %d, Skipped: %d, Errors: %d",
		r.Entity, r.Created, r.Updated, r.Skipped, r.Errored)
}

// PushStatus of a local → external push.
type PushStatus string

const (
	PushStatusSuccess PushStatus = "success"
	PushStatusSkipped PushStatus = "skipped"
	PushStatusError   PushStatus = "error"
)

// PushResult reports a single local → external push.
type PushResult struct {
	Status     PushStatus `json:"status"`
	Entity     EntityKind `json:"entity"`
	LocalID    string     `json:"local_id"`
	ExternalID string     `json:"external_id,omitempty"`
	Number     string     `json:"number,omitempty"`
	Message    string     `json:"message"`
	Warnings   []string   `json:"warnings"`
}

// Warn records a non-fatal message on the push.
func (r *PushResult) Warn(message string) {
	r.Warnings = append(r.Warnings, message)
}
