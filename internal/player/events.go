package player

import (
	"context"
	"time"
)

// EventKind classifies handle events.
type EventKind string

const (
	EventCropCandidate EventKind = "crop_candidate"
	EventProgress      EventKind = "progress"
	EventFailure       EventKind = "failure"
	EventCompletion    EventKind = "completion"
)

// Event is one item of a handle's event stream.
type Event struct {
	Kind  EventKind
	RunID string
	Time  time.Time

	// Crop is the raw candidate text of EventCropCandidate.
	Crop string

	// Percent is 0-99, or -1 when unknown. Status is the encoder estimate text.
	Percent int
	Status  string

	// Message and Err describe EventFailure; Err is a *LaunchError or *ExitError.
	Message string
	Err     error

	// ExitCode is set on EventCompletion.
	ExitCode int
}

// Observer receives a handle's events on the goroutine running Dispatch.
type Observer interface {
	OnCropCandidate(text string)
	OnProgress(percent int, status string)
	OnFailure(message string)
	OnCompletion(exitCode int)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are ignored.
type ObserverFuncs struct {
	CropCandidate func(text string)
	Progress      func(percent int, status string)
	Failure       func(message string)
	Completion    func(exitCode int)
}

func (o ObserverFuncs) OnCropCandidate(text string) {
	if o.CropCandidate != nil {
		o.CropCandidate(text)
	}
}

func (o ObserverFuncs) OnProgress(percent int, status string) {
	if o.Progress != nil {
		o.Progress(percent, status)
	}
}

func (o ObserverFuncs) OnFailure(message string) {
	if o.Failure != nil {
		o.Failure(message)
	}
}

func (o ObserverFuncs) OnCompletion(exitCode int) {
	if o.Completion != nil {
		o.Completion(exitCode)
	}
}

// Dispatch drains h's events into obs until the stream ends and returns the
// completion exit code. When ctx ends first the handle is stopped and draining
// continues, so the completion event is still delivered; ctx.Err() is returned
// alongside the code.
func Dispatch(ctx context.Context, h *Handle, obs Observer) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	done := ctx.Done()
	var ctxErr error
	code := 0
	events := h.Events()
	for {
		select {
		case <-done:
			ctxErr = ctx.Err()
			done = nil
			h.Stop()
		case ev, ok := <-events:
			if !ok {
				return code, ctxErr
			}
			switch ev.Kind {
			case EventCropCandidate:
				obs.OnCropCandidate(ev.Crop)
			case EventProgress:
				obs.OnProgress(ev.Percent, ev.Status)
			case EventFailure:
				obs.OnFailure(ev.Message)
			case EventCompletion:
				code = ev.ExitCode
				obs.OnCompletion(ev.ExitCode)
			}
		}
	}
}
