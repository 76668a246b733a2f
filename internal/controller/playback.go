package controller

import (
	"context"

	"storyloom/internal/episode"
	"storyloom/internal/logging"
	"storyloom/internal/playback"
)

// CurrentScene returns the active scene once playback is ready.
func (c *Controller) CurrentScene() (episode.Scene, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseReady || c.session == nil {
		return episode.Scene{}, false
	}
	return c.session.Scene(), true
}

// SceneUnlocked reports whether the gate for the given scene index is open.
func (c *Controller) SceneUnlocked(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.Unlocked(index)
}

// QuizState returns the active scene's answer-cycle state.
func (c *Controller) QuizState() playback.QuizState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return playback.QuizUnanswered
	}
	return c.session.QuizState()
}

// RecordVideoFinished marks the given scene's video complete. Outside the
// ready phase this is a no-op. For narrative scenes the scene unlocks.
func (c *Controller) RecordVideoFinished(index int) {
	c.mu.Lock()
	if c.phase != PhaseReady || c.session == nil {
		c.mu.Unlock()
		return
	}
	wasUnlocked := c.session.Unlocked(index)
	c.session.RecordVideoFinished(index)
	nowUnlocked := c.session.Unlocked(index)
	c.mu.Unlock()

	if !wasUnlocked && nowUnlocked {
		c.emit(Event{Type: EventSceneUnlocked, Phase: PhaseReady, SceneIndex: index})
	}
}

// SubmitAnswer evaluates a quiz selection on the active scene. The second
// return is false when the submission was ignored: the controller is not
// ready, the scene is narrative, the quiz is already answered correctly, or
// the option index is out of range.
func (c *Controller) SubmitAnswer(option int) (playback.QuizOutcome, bool) {
	c.mu.Lock()
	if c.phase != PhaseReady || c.session == nil {
		c.mu.Unlock()
		return playback.QuizIncorrect, false
	}
	index := c.session.Index()
	wasUnlocked := c.session.Unlocked(index)
	outcome, accepted := c.session.SubmitAnswer(option)
	nowUnlocked := c.session.Unlocked(index)
	c.mu.Unlock()

	if !wasUnlocked && nowUnlocked {
		c.emit(Event{Type: EventSceneUnlocked, Phase: PhaseReady, SceneIndex: index})
	}
	return outcome, accepted
}

// RetryQuestion clears an incorrect answer so the viewer can choose again.
func (c *Controller) RetryQuestion() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseReady || c.session == nil {
		return false
	}
	return c.session.RetryQuestion()
}

// Advance moves to the next scene when the current gate is open. Past the
// final scene it reports completion; the first completion fires the
// episode-completed event and notification.
func (c *Controller) Advance() playback.AdvanceOutcome {
	c.mu.Lock()
	if c.phase != PhaseReady || c.session == nil {
		c.mu.Unlock()
		return playback.AdvanceBlocked
	}
	outcome := c.session.Advance()
	index := c.session.Index()
	firstCompletion := outcome == playback.AdvanceCompleted && !c.completed
	if firstCompletion {
		c.completed = true
	}
	var title string
	if c.ep != nil {
		title = c.ep.DisplayTitle()
	}
	c.mu.Unlock()

	if firstCompletion {
		c.emit(Event{Type: EventEpisodeCompleted, Phase: PhaseReady, SceneIndex: index})
		if err := c.notifier.NotifyEpisodeCompleted(context.Background(), title); err != nil {
			c.logger.Warn("completion notification failed", logging.Error(err))
		}
	}
	return outcome
}
