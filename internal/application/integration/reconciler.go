package integration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/shared"
	"go.uber.org/zap"
)

// LocalStore is the record store a Reconciler writes to. Find methods return
// nil without error when nothing matches.
type LocalStore[L any] interface {
	FindByExternalID(ctx context.Context, externalID string) (*L, error)
	FindByName(ctx context.Context, name string) (*L, error)
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, local *L) error
	Update(ctx context.Context, local *L) error
}

// Mapper translates remote records of type R into local records of type L.
type Mapper[R, L any] interface {
	// Key returns the external id and display name of remote.
	Key(remote R) (externalID, name string)
	// Validate rejects remote records that cannot be mapped.
	Validate(remote R) error
	// ExternalIDOf returns the external id local is bound to, or "".
	ExternalIDOf(local *L) string
	LocalIDOf(local *L) uuid.UUID
	// NewLocal builds an unsaved local record for remote.
	NewLocal(remote R) (*L, error)
	// Apply overwrites the mirrored attributes of local with remote.
	Apply(remote R, local *L) error
	// Stamp binds local to externalID and records the sync time.
	Stamp(local *L, externalID string, at time.Time)
}

// ReconcileOptions tunes a single Reconcile call.
type ReconcileOptions struct {
	// CreateOnly skips records that already have a local match.
	CreateOnly bool
}

// Outcome is the decision taken for one remote record.
type Outcome[L any] struct {
	Action  integration.SyncAction
	LocalID uuid.UUID
	// Local is the written record; nil when skipped.
	Local *L
}

// Reconciler decides create, update or skip for remote records of one
// entity kind and applies the decision to the local store.
type Reconciler[R, L any] struct {
	entity integration.EntityKind
	store  LocalStore[L]
	mapper Mapper[R, L]
	logger *zap.Logger
	now    func() time.Time
}

// NewReconciler creates a Reconciler.
func NewReconciler[R, L any](entity integration.EntityKind, store LocalStore[L], mapper Mapper[R, L], logger *zap.Logger) *Reconciler[R, L] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler[R, L]{
		entity: entity,
		store:  store,
		mapper: mapper,
		logger: logger,
		now:    time.Now,
	}
}

// Reconcile matches remote against the local store by external id, then by
// display name, and writes the result.
func (r *Reconciler[R, L]) Reconcile(ctx context.Context, remote R, opts ReconcileOptions) (Outcome[L], error) {
	if err := r.mapper.Validate(remote); err != nil {
		return Outcome[L]{}, err
	}
	externalID, name := r.mapper.Key(remote)

	target, err := r.match(ctx, externalID, name)
	if err != nil {
		return Outcome[L]{}, err
	}

	if target != nil {
		if opts.CreateOnly {
			return r.skipped(target), nil
		}
		return r.update(ctx, remote, target, externalID)
	}
	return r.create(ctx, remote, externalID, name)
}

func (r *Reconciler[R, L]) match(ctx context.Context, externalID, name string) (*L, error) {
	byExternal, err := r.store.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	var byName *L
	if name != "" {
		byName, err = r.store.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case byExternal != nil:
		if byName != nil && r.mapper.LocalIDOf(byName) != r.mapper.LocalIDOf(byExternal) {
			r.logConflict(externalID, name, byName,
				"name matches a different local record; external id match wins")
		}
		return byExternal, nil
	case byName != nil:
		// A name match bound elsewhere is rebound by the update's Stamp. The
		// unique external id index keeps one local record per remote record.
		if bound := r.mapper.ExternalIDOf(byName); bound != "" && bound != externalID {
			r.logConflict(externalID, name, byName, "name match was bound to "+bound+"; rebinding")
		}
		return byName, nil
	}
	return nil, nil
}

func (r *Reconciler[R, L]) logConflict(externalID, name string, local *L, reason string) {
	conflict := &integration.ReconciliationConflict{
		ExternalID:  externalID,
		DisplayName: name,
		Reason:      reason,
	}
	r.logger.Warn("reconciliation conflict",
		zap.String("entity", string(r.entity)),
		zap.String("external_id", externalID),
		zap.String("name_match_id", r.mapper.LocalIDOf(local).String()),
		zap.Error(conflict),
	)
}

func (r *Reconciler[R, L]) update(ctx context.Context, remote R, local *L, externalID string) (Outcome[L], error) {
	if err := r.mapper.Apply(remote, local); err != nil {
		return Outcome[L]{}, err
	}
	r.mapper.Stamp(local, externalID, r.now())
	if err := r.store.Update(ctx, local); err != nil {
		return Outcome[L]{}, err
	}
	return Outcome[L]{
		Action:  integration.ActionUpdated,
		LocalID: r.mapper.LocalIDOf(local),
		Local:   local,
	}, nil
}

func (r *Reconciler[R, L]) create(ctx context.Context, remote R, externalID, name string) (Outcome[L], error) {
	// Another writer may have inserted the record since match.
	exists, err := r.store.ExistsByExternalID(ctx, externalID)
	if err != nil {
		return Outcome[L]{}, err
	}
	if !exists && name != "" {
		exists, err = r.store.ExistsByName(ctx, name)
		if err != nil {
			return Outcome[L]{}, err
		}
	}
	if exists {
		r.logDuplicate(externalID, name)
		return Outcome[L]{Action: integration.ActionSkipped}, nil
	}

	local, err := r.mapper.NewLocal(remote)
	if err != nil {
		return Outcome[L]{}, err
	}
	if err := r.mapper.Apply(remote, local); err != nil {
		return Outcome[L]{}, err
	}
	r.mapper.Stamp(local, externalID, r.now())

	if err := r.store.Create(ctx, local); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			r.logDuplicate(externalID, name)
			return Outcome[L]{Action: integration.ActionSkipped}, nil
		}
		return Outcome[L]{}, err
	}
	return Outcome[L]{
		Action:  integration.ActionCreated,
		LocalID: r.mapper.LocalIDOf(local),
		Local:   local,
	}, nil
}

func (r *Reconciler[R, L]) skipped(local *L) Outcome[L] {
	return Outcome[L]{Action: integration.ActionSkipped, LocalID: r.mapper.LocalIDOf(local)}
}

func (r *Reconciler[R, L]) logDuplicate(externalID, name string) {
	r.logger.Info("record already exists, skipping",
		zap.String("entity", string(r.entity)),
		zap.String("external_id", externalID),
		zap.String("name", name),
	)
}
