package history

import "time"

// Status is the outcome of a recorded run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusStopped   Status = "stopped"
)

// Run is one history row.
type Run struct {
	ID          string
	Operation   string
	Input       string
	Output      string
	CommandLine string
	ExitCode    int
	Status      Status
	Message     string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
