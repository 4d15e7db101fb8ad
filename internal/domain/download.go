package domain

import "time"

// Download statuses.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Download is a tracked download record. Only ID and Path matter for
// reconciliation; the rest is bookkeeping for the store. Path may be empty
// for downloads that never produced a file.
type Download struct {
	ID        int64
	Path      string
	Size      int64
	UID       int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
