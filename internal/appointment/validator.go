package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPastSlot  = errors.New("cannot schedule in the past")
	ErrSlotTaken = errors.New("slot already booked")
)

// ConflictChecker is the narrow read the validator needs from the store.
type ConflictChecker interface {
	HasScheduledAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
}

// Validator checks a proposed slot against temporal constraints and existing
// SCHEDULED bookings. The conflict check is an exact-instant match, not a
// range overlap: appointments carry no duration here. Doctor availability is
// advisory and deliberately not enforced at this layer; the booking form
// filters the doctor pool instead.
type Validator struct {
	checker ConflictChecker
}

func NewValidator(checker ConflictChecker) *Validator {
	return &Validator{checker: checker}
}

// Slot normalizes a proposed time to the minute precision slots are kept in.
func Slot(at time.Time) time.Time {
	return at.UTC().Truncate(time.Minute)
}

// Validate returns nil if doctorID can be booked at `at`, ErrPastSlot or
// ErrSlotTaken otherwise.
func (v *Validator) Validate(ctx context.Context, doctorID uuid.UUID, at, now time.Time) error {
	slot := Slot(at)

	if slot.Before(now) {
		return ErrPastSlot
	}

	taken, err := v.checker.HasScheduledAt(ctx, doctorID, slot)
	if err != nil {
		return fmt.Errorf("check slot conflict: %w", err)
	}
	if taken {
		return ErrSlotTaken
	}

	return nil
}
