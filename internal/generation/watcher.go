package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"storyloom/internal/episode"
	"storyloom/internal/logging"
)

// ErrNoJobID is returned when a watch is requested without a job identifier.
// This is a configuration error, not a network failure.
var ErrNoJobID = errors.New("no job identifier provided")

// GenericFailureMessage is surfaced when the service reports failure without
// a reason of its own.
const GenericFailureMessage = "episode generation failed"

// RemoteFailureError carries the service-reported failure reason verbatim.
type RemoteFailureError struct {
	Reason string
}

func (e *RemoteFailureError) Error() string {
	if strings.TrimSpace(e.Reason) == "" {
		return GenericFailureMessage
	}
	return e.Reason
}

// StatusSource is the polling contract the watcher consumes. *Client
// satisfies it.
type StatusSource interface {
	JobStatus(ctx context.Context, jobID string) (*JobStatus, error)
}

// Watcher polls a generation job until it reaches a terminal state.
//
// Transient request failures are swallowed and retried on the next tick
// indefinitely; only an explicit terminal status from a successful response
// ends polling. Cancel the context to stop early.
type Watcher struct {
	source   StatusSource
	interval time.Duration
	logger   *slog.Logger
}

// NewWatcher builds a watcher polling at the given interval.
func NewWatcher(source StatusSource, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		logger:   logging.WithComponent(logger, "watcher"),
	}
}

// Wait blocks until the job reaches a terminal state or ctx is cancelled.
// One immediate check runs before the first scheduled tick, so an
// already-finished job resolves without waiting a full interval. onPoll, when
// non-nil, is invoked after every successful status observation.
func (w *Watcher) Wait(ctx context.Context, jobID string, onPoll func(Status)) (*episode.Episode, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, ErrNoJobID
	}

	if ep, done, err := w.check(ctx, jobID, onPoll); done {
		return ep, err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if ep, done, err := w.check(ctx, jobID, onPoll); done {
				return ep, err
			}
		}
	}
}

// check performs one status observation. done is false for both transient
// errors and legitimate pending states.
func (w *Watcher) check(ctx context.Context, jobID string, onPoll func(Status)) (*episode.Episode, bool, error) {
	status, err := w.source.JobStatus(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, true, ctx.Err()
		}
		w.logger.Debug("status poll failed, retrying",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
		)
		return nil, false, nil
	}

	if onPoll != nil {
		onPoll(status.State)
	}

	switch status.State {
	case StatusFailed:
		return nil, true, &RemoteFailureError{Reason: status.Reason}
	case StatusComplete:
		ep := status.Episode
		if ep == nil {
			return nil, true, &RemoteFailureError{Reason: "service reported completion without episode data"}
		}
		if err := ep.Validate(); err != nil {
			return nil, true, fmt.Errorf("completed episode failed validation: %w", err)
		}
		for _, warning := range ep.ShapeWarnings() {
			w.logger.Warn("episode shape deviation",
				logging.String(logging.FieldJobID, jobID),
				logging.String("detail", warning),
			)
		}
		return ep, true, nil
	default:
		return nil, false, nil
	}
}
