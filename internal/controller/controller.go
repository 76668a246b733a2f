package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storyloom/internal/config"
	"storyloom/internal/episode"
	"storyloom/internal/generation"
	"storyloom/internal/logging"
	"storyloom/internal/notifications"
	"storyloom/internal/playback"
	"storyloom/internal/prefetch"
)

// Phase is the controller's top-level state.
type Phase string

const (
	// PhaseIdle is the state before Start.
	PhaseIdle Phase = "idle"
	// PhasePolling tracks the generation job toward a terminal status.
	PhasePolling Phase = "polling"
	// PhaseBuffering warms the media cache before first display.
	PhaseBuffering Phase = "buffering"
	// PhaseReady exposes the scene list for gated playback.
	PhaseReady Phase = "ready"
	// PhaseError is terminal for this job attempt; recovery means creating a
	// new controller with a fresh job.
	PhaseError Phase = "error"
)

// History records generation outcomes for the episode library. Store errors
// never block playback; the controller logs and continues.
type History interface {
	SetStatus(ctx context.Context, jobID string, status generation.Status) error
	MarkComplete(ctx context.Context, jobID, title string, sceneCount int) error
	MarkFailed(ctx context.Context, jobID, reason string) error
}

// Controller drives one episode from job submission to gated playback: it
// polls the generation job to a terminal status, prefetches all scene media,
// then runs the scene-by-scene playback session. A controller serves exactly
// one job; create a new one to start over.
type Controller struct {
	cfg      *config.Config
	watcher  *generation.Watcher
	buffer   *prefetch.Buffer
	notifier notifications.Service
	history  History
	listener func(Event)
	logger   *slog.Logger

	rotateInterval time.Duration

	mu      sync.Mutex
	running bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	phase          Phase
	jobID          string
	errorMessage   string
	statusMessage  string
	bufferProgress prefetch.Progress
	ep             *episode.Episode
	session        *playback.Session
	completed      bool
}

// Option configures optional Controller behavior.
type Option func(*Controller)

// WithListener registers a callback for phase, progress, and playback
// events. The listener is invoked from controller goroutines and must not
// block; it stops firing once Stop returns.
func WithListener(listener func(Event)) Option {
	return func(c *Controller) {
		c.listener = listener
	}
}

// WithNotifier overrides the push notification service (used in tests).
func WithNotifier(notifier notifications.Service) Option {
	return func(c *Controller) {
		c.notifier = notifier
	}
}

// WithHistory attaches an episode history store.
func WithHistory(history History) Option {
	return func(c *Controller) {
		c.history = history
	}
}

// New builds a controller over a status source and a media fetcher.
func New(cfg *config.Config, source generation.StatusSource, fetcher prefetch.Fetcher, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		cfg:            cfg,
		watcher:        generation.NewWatcher(source, time.Duration(cfg.Workflow.StatusPollInterval)*time.Second, logger),
		buffer:         prefetch.New(fetcher, time.Duration(cfg.Prefetch.ItemTimeout)*time.Second, logger),
		notifier:       notifications.NewService(cfg),
		rotateInterval: time.Duration(cfg.Workflow.MessageRotateInterval) * time.Second,
		logger:         logging.WithComponent(logger, "controller"),
		phase:          PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins tracking the given generation job in the background. An empty
// job identifier is a configuration error: the controller lands in the error
// phase immediately and no network request is ever issued.
func (c *Controller) Start(ctx context.Context, jobID string) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("controller already running")
	}
	if c.phase != PhaseIdle {
		c.mu.Unlock()
		return errors.New("controller already consumed; create a new one")
	}

	if strings.TrimSpace(jobID) == "" {
		c.phase = PhaseError
		c.errorMessage = generation.ErrNoJobID.Error()
		c.mu.Unlock()
		c.emit(Event{Type: EventPhaseChanged, Phase: PhaseError, Message: generation.ErrNoJobID.Error()})
		return generation.ErrNoJobID
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.jobID = jobID
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(runCtx, jobID)
	return nil
}

// Stop tears the controller down and waits for background work to finish. No
// listener callbacks fire after Stop returns. Outstanding prefetch requests
// are abandoned, not drained.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.closed = true
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.running = false
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
}

// Snapshot is a point-in-time view of controller state for presentation.
type Snapshot struct {
	Phase          Phase
	JobID          string
	Title          string
	ErrorMessage   string
	StatusMessage  string
	BufferProgress prefetch.Progress
	SceneIndex     int
	SceneCount     int
}

// Snapshot returns the current phase and progress.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		Phase:          c.phase,
		JobID:          c.jobID,
		ErrorMessage:   c.errorMessage,
		StatusMessage:  c.statusMessage,
		BufferProgress: c.bufferProgress,
	}
	if c.ep != nil {
		snapshot.Title = c.ep.DisplayTitle()
	}
	if c.session != nil {
		snapshot.SceneIndex = c.session.Index()
		snapshot.SceneCount = c.session.SceneCount()
	}
	return snapshot
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Episode returns the finalized episode, or nil before buffering begins.
func (c *Controller) Episode() *episode.Episode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ep
}

// emit delivers an event to the listener outside the controller lock.
func (c *Controller) emit(event Event) {
	c.mu.Lock()
	closed := c.closed
	listener := c.listener
	jobID := c.jobID
	c.mu.Unlock()

	if closed || listener == nil {
		return
	}
	if event.JobID == "" {
		event.JobID = jobID
	}
	listener(event)
}
