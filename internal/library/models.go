package library

import (
	"time"

	"storyloom/internal/episode"
	"storyloom/internal/generation"
)

// Record is one episode the viewer has requested, tracked from creation
// through generation to a terminal status.
type Record struct {
	ID            int64
	JobID         string
	Title         string
	Topic         string
	CharacterName string
	StoryStyle    string
	Status        generation.Status
	ErrorMessage  string
	SceneCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// DisplayTitle returns the stored title, or derives one from the request
// inputs for episodes that never finished generating.
func (r *Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return episode.FallbackTitle(r.Topic, r.CharacterName)
}
