package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Repository is the append-only store behind the recorder.
type Repository interface {
	Insert(ctx context.Context, e Entry) error
	// List returns entries newest-first. Read access is admin-only, enforced
	// at the access-policy layer.
	List(ctx context.Context, limit, offset int) ([]Entry, error)
}

// Recorder appends one entry per observed mutating action. A failed audit
// write never fails the action that triggered it; the failure is logged and
// reported to the operator hook instead.
type Recorder struct {
	repo      Repository
	logger    *slog.Logger
	onFailure func()
}

// NewRecorder builds a recorder. onFailure may be nil; it is invoked once per
// dropped entry so operators can alert on audit loss.
func NewRecorder(repo Repository, logger *slog.Logger, onFailure func()) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger, onFailure: onFailure}
}

// Record appends the entry, swallowing (but surfacing) storage errors.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	if err := r.repo.Insert(ctx, e); err != nil {
		r.logger.Error("audit write failed",
			"action", e.Action,
			"entity", e.Entity,
			"entity_id", e.EntityID,
			"error", err,
		)
		if r.onFailure != nil {
			r.onFailure()
		}
	}
}

// List exposes the trail for the admin review screen.
func (r *Recorder) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50 // default
	}
	if limit > 200 {
		limit = 200 // max
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := r.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
