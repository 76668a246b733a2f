package controller

import (
	"storyloom/internal/generation"
	"storyloom/internal/prefetch"
)

// EventType identifies what a listener callback is reporting.
type EventType string

const (
	// EventPhaseChanged fires on every phase transition.
	EventPhaseChanged EventType = "phase_changed"
	// EventStatusObserved fires after each successful status poll.
	EventStatusObserved EventType = "status_observed"
	// EventBufferProgress fires after each media item settles.
	EventBufferProgress EventType = "buffer_progress"
	// EventStatusMessage fires when the rotating wait message changes.
	EventStatusMessage EventType = "status_message"
	// EventSceneUnlocked fires when a scene's gate opens.
	EventSceneUnlocked EventType = "scene_unlocked"
	// EventEpisodeCompleted fires when the viewer advances past the final
	// scene.
	EventEpisodeCompleted EventType = "episode_completed"
)

// Event is one observation delivered to the registered listener. Fields
// beyond Type are populated per event kind.
type Event struct {
	Type       EventType
	Phase      Phase
	JobID      string
	Message    string
	Status     generation.Status
	Progress   prefetch.Progress
	SceneIndex int
}
