package report

import (
	"context"
	"time"
)

// Repository computes the aggregate snapshot. dayStart and monthStart bound
// the "today" and "this month" windows; both are supplied by the caller so the
// clock stays out of the store.
type Repository interface {
	Snapshot(ctx context.Context, dayStart, monthStart time.Time) (*Summary, error)
}
