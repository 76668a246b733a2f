package generation

import (
	"strings"

	"storyloom/internal/episode"
)

// Status is the lifecycle of a generation job as reported by the service.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// Terminal reports whether polling can stop at this status.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// ParseStatus converts a wire string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StatusPending, StatusGenerating, StatusComplete, StatusFailed:
		return normalized, true
	}
	return "", false
}

// JobStatus is one observation of a generation job. Episode is populated iff
// State is StatusComplete.
type JobStatus struct {
	JobID   string
	State   Status
	Message string
	Reason  string
	Episode *episode.Episode
}

// statusPayload mirrors the GET /episodes/{id} response document.
type statusPayload struct {
	EpisodeID     string         `json:"episode_id"`
	Status        string         `json:"status"`
	Message       string         `json:"message"`
	Error         string         `json:"error"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Skills        []string       `json:"skills"`
	CharacterName string         `json:"character_name"`
	Scenes        []scenePayload `json:"scenes"`
}

type scenePayload struct {
	SceneNumber          int      `json:"scene_number"`
	Interaction          bool     `json:"interaction"`
	VideoURL             string   `json:"video_url"`
	Dialogue             string   `json:"dialogue"`
	Question             string   `json:"question"`
	Options              []string `json:"options"`
	CorrectAnswerIndex   int      `json:"correct_answer_index"`
	CorrectFeedbackURL   string   `json:"correct_feedback_url"`
	IncorrectFeedbackURL string   `json:"incorrect_feedback_url"`
	IdleURL              string   `json:"idle_url"`
}

func (p statusPayload) episode() *episode.Episode {
	scenes := make([]episode.Scene, 0, len(p.Scenes))
	for _, s := range p.Scenes {
		scenes = append(scenes, episode.Scene{
			Number:               s.SceneNumber,
			VideoURL:             s.VideoURL,
			Dialogue:             s.Dialogue,
			Interactive:          s.Interaction,
			Question:             s.Question,
			Options:              s.Options,
			CorrectAnswer:        s.CorrectAnswerIndex,
			CorrectFeedbackURL:   s.CorrectFeedbackURL,
			IncorrectFeedbackURL: s.IncorrectFeedbackURL,
			IdleURL:              s.IdleURL,
		})
	}
	return &episode.Episode{
		JobID:         p.EpisodeID,
		Title:         p.Title,
		Description:   p.Description,
		Skills:        p.Skills,
		CharacterName: p.CharacterName,
		Scenes:        scenes,
	}
}

// createResponse mirrors the POST /generate-episode response document.
type createResponse struct {
	Success bool           `json:"success"`
	Episode *createEpisode `json:"episode"`
	Error   string         `json:"error"`
}

type createEpisode struct {
	EpisodeID string `json:"episode_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}
