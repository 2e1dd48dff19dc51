package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when stopping a scheduler that was never started
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrUnknownEntity is returned when no syncer is registered for an entity
	ErrUnknownEntity = errors.New("no syncer registered for entity")

	// ErrSyncAlreadyInProgress is returned when a run for the same entity is active
	ErrSyncAlreadyInProgress = errors.New("sync already in progress for this entity")
)
