package audit

import (
	"time"

	"github.com/google/uuid"
)

// Outcome of the observed action. Denied attempts are recorded too.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
)

// Entry is one immutable audit record. Entries are write-once: the
// application exposes no update or delete path for them, and the table grants
// none either.
type Entry struct {
	ID        int64
	ActorID   *uuid.UUID
	ActorName string
	Action    string
	Entity    string
	EntityID  string
	Outcome   string
	IP        string
	UserAgent string
	CreatedAt time.Time
}
