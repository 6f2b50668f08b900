package crop

import (
	"sync"
	"time"
)

// DefaultSettle is how long a rectangle must stay unchanged before a
// crop-detect run is considered converged.
const DefaultSettle = 20 * time.Second

// Tracker follows the candidates of one crop-detect run.
type Tracker struct {
	mu        sync.Mutex
	settle    time.Duration
	current   Rect
	have      bool
	changedAt time.Time
	rejected  int
}

// NewTracker returns a tracker using the given settle window (DefaultSettle when <= 0).
func NewTracker(settle time.Duration) *Tracker {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Tracker{settle: settle}
}

// Observe records a raw candidate. It returns the parsed rectangle and true
// when the candidate is valid and differs from the current one.
func (t *Tracker) Observe(text string, now time.Time) (Rect, bool) {
	rect, err := Parse(text)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.rejected++
		return Rect{}, false
	}
	if t.have && rect == t.current {
		return rect, false
	}
	t.current = rect
	t.have = true
	t.changedAt = now
	return rect, true
}

// Current returns the latest accepted rectangle.
func (t *Tracker) Current() (Rect, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.have
}

// Settled reports whether a rectangle exists and has not changed for the settle window.
func (t *Tracker) Settled(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.have && now.Sub(t.changedAt) >= t.settle
}

// Rejected counts candidates that failed validation.
func (t *Tracker) Rejected() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rejected
}
