package episode

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Expected episode shape produced by the generation pipeline. Deviations are
// logged, not rejected: the client plays whatever the service delivers.
const ExpectedSceneCount = 8

var expectedInteractiveOrdinals = map[int]struct{}{2: {}, 4: {}, 6: {}}

// Scene is one narrative or interactive unit of an episode. Scenes are
// immutable once the episode is populated from a completed job.
type Scene struct {
	Number      int
	VideoURL    string
	Dialogue    string
	Interactive bool

	// Present only when Interactive is true.
	Question             string
	Options              []string
	CorrectAnswer        int
	CorrectFeedbackURL   string
	IncorrectFeedbackURL string
	IdleURL              string
}

// Validate enforces the per-scene invariants.
func (s Scene) Validate() error {
	if s.Number < 1 {
		return fmt.Errorf("scene number must be 1-based, got %d", s.Number)
	}
	if !s.Interactive {
		if s.Question != "" || len(s.Options) > 0 {
			return fmt.Errorf("scene %d: narrative scene carries quiz fields", s.Number)
		}
		return nil
	}
	if strings.TrimSpace(s.Question) == "" {
		return fmt.Errorf("scene %d: interactive scene missing question", s.Number)
	}
	if len(s.Options) < 2 {
		return fmt.Errorf("scene %d: interactive scene needs at least 2 options, got %d", s.Number, len(s.Options))
	}
	if s.CorrectAnswer < 0 || s.CorrectAnswer >= len(s.Options) {
		return fmt.Errorf("scene %d: correct answer index %d out of range [0,%d)", s.Number, s.CorrectAnswer, len(s.Options))
	}
	return nil
}

// MediaURLs returns every non-empty media URL the scene references, in
// playback order: main video first, then quiz feedback and idle clips.
func (s Scene) MediaURLs() []string {
	var urls []string
	for _, u := range []string{s.VideoURL, s.CorrectFeedbackURL, s.IncorrectFeedbackURL, s.IdleURL} {
		if strings.TrimSpace(u) != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Episode is one generated unit of scenes, populated exactly once when the
// generation job reports a terminal success.
type Episode struct {
	JobID         string
	Title         string
	Description   string
	Skills        []string
	CharacterName string
	Scenes        []Scene
}

// Validate enforces scene ordering and per-scene invariants.
func (e *Episode) Validate() error {
	if len(e.Scenes) == 0 {
		return fmt.Errorf("episode %s has no scenes", e.JobID)
	}
	for i, scene := range e.Scenes {
		if scene.Number != i+1 {
			return fmt.Errorf("scene at position %d carries ordinal %d", i+1, scene.Number)
		}
		if err := scene.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ShapeWarnings reports advisory deviations from the pipeline's canonical
// 8-scene shape with quizzes at ordinals 2, 4, and 6.
func (e *Episode) ShapeWarnings() []string {
	var warnings []string
	if len(e.Scenes) != ExpectedSceneCount {
		warnings = append(warnings, fmt.Sprintf("expected %d scenes, got %d", ExpectedSceneCount, len(e.Scenes)))
	}
	for _, scene := range e.Scenes {
		_, shouldInteract := expectedInteractiveOrdinals[scene.Number]
		if scene.Number <= ExpectedSceneCount && scene.Interactive != shouldInteract {
			warnings = append(warnings, fmt.Sprintf("scene %d: interaction=%t, expected %t", scene.Number, scene.Interactive, shouldInteract))
		}
		if scene.Interactive && len(scene.Options) != 4 {
			warnings = append(warnings, fmt.Sprintf("scene %d: %d options, expected 4", scene.Number, len(scene.Options)))
		}
	}
	return warnings
}

// MediaURLs returns every media URL the episode references, scene order
// preserved. Empty entries are already filtered; duplicates are kept so the
// prefetch buffer can account for each reference.
func (e *Episode) MediaURLs() []string {
	var urls []string
	for _, scene := range e.Scenes {
		urls = append(urls, scene.MediaURLs()...)
	}
	return urls
}

// DisplayTitle returns the generated title, or a title derived from the
// character when the service produced none.
func (e *Episode) DisplayTitle() string {
	if title := strings.TrimSpace(e.Title); title != "" {
		return title
	}
	return FallbackTitle("", e.CharacterName)
}

// FallbackTitle derives a presentable episode title from the request inputs
// when the service returned none.
func FallbackTitle(topic, characterName string) string {
	topic = strings.TrimSpace(topic)
	characterName = strings.TrimSpace(characterName)
	if topic == "" && characterName == "" {
		return "Untitled Episode"
	}
	titler := cases.Title(language.English)
	if characterName == "" {
		return titler.String(topic)
	}
	if topic == "" {
		return fmt.Sprintf("%s's Episode", titler.String(characterName))
	}
	return fmt.Sprintf("%s: %s", titler.String(characterName), titler.String(topic))
}
