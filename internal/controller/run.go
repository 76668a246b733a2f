package controller

import (
	"context"
	"errors"
	"time"

	"storyloom/internal/generation"
	"storyloom/internal/logging"
	"storyloom/internal/playback"
	"storyloom/internal/prefetch"
)

// waitMessages rotate on screen while the viewer waits for generation and
// buffering. Cosmetic only.
var waitMessages = []string{
	"Sketching the storyboard...",
	"Casting your character...",
	"Writing the dialogue...",
	"Rendering the scenes...",
	"Warming up the projector...",
}

func (c *Controller) run(ctx context.Context, jobID string) {
	defer c.wg.Done()

	rotateCtx, rotateCancel := context.WithCancel(ctx)
	defer rotateCancel()
	c.wg.Add(1)
	go c.rotateMessages(rotateCtx)

	c.setPhase(PhasePolling)

	pollCtx := ctx
	if timeout := c.cfg.Workflow.GenerationTimeout; timeout > 0 {
		var pollCancel context.CancelFunc
		pollCtx, pollCancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer pollCancel()
	}

	ep, err := c.watcher.Wait(pollCtx, jobID, func(status generation.Status) {
		c.recordStatus(ctx, jobID, status)
		c.emit(Event{Type: EventStatusObserved, Phase: PhasePolling, Status: status})
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			c.fail(ctx, jobID, "episode generation timed out")
			return
		}
		var remote *generation.RemoteFailureError
		if errors.As(err, &remote) {
			c.fail(ctx, jobID, remote.Error())
			return
		}
		c.fail(ctx, jobID, err.Error())
		return
	}

	if c.history != nil {
		if histErr := c.history.MarkComplete(ctx, jobID, ep.DisplayTitle(), len(ep.Scenes)); histErr != nil {
			c.logger.Warn("library update failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(histErr),
			)
		}
	}

	c.mu.Lock()
	c.ep = ep
	c.mu.Unlock()
	c.setPhase(PhaseBuffering)

	result := c.buffer.Run(ctx, ep.MediaURLs(), func(progress prefetch.Progress) {
		c.mu.Lock()
		c.bufferProgress = progress
		c.mu.Unlock()
		c.emit(Event{Type: EventBufferProgress, Phase: PhaseBuffering, Progress: progress})
	})
	if ctx.Err() != nil {
		return
	}
	if result.Failed > 0 || result.TimedOut > 0 {
		c.logger.Warn("buffering finished degraded",
			logging.String(logging.FieldJobID, jobID),
			logging.Int("failed", result.Failed),
			logging.Int("timed_out", result.TimedOut),
		)
	}
	rotateCancel()

	c.mu.Lock()
	c.session = playback.NewSession(ep.Scenes)
	c.mu.Unlock()
	c.setPhase(PhaseReady)

	if notifyErr := c.notifier.NotifyEpisodeReady(ctx, ep.DisplayTitle(), len(ep.Scenes)); notifyErr != nil {
		c.logger.Warn("ready notification failed", logging.Error(notifyErr))
	}
}

// fail moves the controller to the terminal error phase and surfaces message
// to the viewer.
func (c *Controller) fail(ctx context.Context, jobID, message string) {
	c.mu.Lock()
	c.phase = PhaseError
	c.errorMessage = message
	c.mu.Unlock()

	c.logger.Error("episode attempt failed",
		logging.String(logging.FieldJobID, jobID),
		logging.String("reason", message),
	)
	c.emit(Event{Type: EventPhaseChanged, Phase: PhaseError, Message: message})

	if c.history != nil {
		if histErr := c.history.MarkFailed(ctx, jobID, message); histErr != nil {
			c.logger.Warn("library update failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(histErr),
			)
		}
	}
	if notifyErr := c.notifier.NotifyGenerationFailed(ctx, jobID, message); notifyErr != nil {
		c.logger.Warn("failure notification failed", logging.Error(notifyErr))
	}
}

// recordStatus mirrors an in-flight status observation into the library.
func (c *Controller) recordStatus(ctx context.Context, jobID string, status generation.Status) {
	if c.history == nil || status.Terminal() {
		return
	}
	if err := c.history.SetStatus(ctx, jobID, status); err != nil {
		c.logger.Debug("library status update failed",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err),
		)
	}
}

func (c *Controller) setPhase(phase Phase) {
	c.mu.Lock()
	c.phase = phase
	jobID := c.jobID
	c.mu.Unlock()

	c.logger.Info("phase transition",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldPhase, string(phase)),
	)
	c.emit(Event{Type: EventPhaseChanged, Phase: phase})
}

func (c *Controller) rotateMessages(ctx context.Context) {
	defer c.wg.Done()

	if c.rotateInterval <= 0 || len(waitMessages) == 0 {
		return
	}

	index := 0
	c.setStatusMessage(waitMessages[index])

	ticker := time.NewTicker(c.rotateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			index = (index + 1) % len(waitMessages)
			c.setStatusMessage(waitMessages[index])
		}
	}
}

func (c *Controller) setStatusMessage(message string) {
	c.mu.Lock()
	c.statusMessage = message
	c.mu.Unlock()
	c.emit(Event{Type: EventStatusMessage, Message: message})
}
