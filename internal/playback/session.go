package playback

import "storyloom/internal/episode"

// AdvanceOutcome reports what a forward-navigation attempt did.
type AdvanceOutcome int

const (
	// AdvanceBlocked means the current scene's gate is still locked; nothing
	// changed.
	AdvanceBlocked AdvanceOutcome = iota
	// AdvanceMoved means the session moved to the next scene.
	AdvanceMoved
	// AdvanceCompleted means the viewer advanced past the final scene.
	AdvanceCompleted
)

func (o AdvanceOutcome) String() string {
	switch o {
	case AdvanceBlocked:
		return "blocked"
	case AdvanceMoved:
		return "moved"
	case AdvanceCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session runs one episode's scene-by-scene progression: the per-scene unlock
// gate, the quiz answer cycle, and forward navigation. A session starts at
// scene index 0 with every gate locked and is discarded when the viewing ends;
// nothing carries over to the next episode.
//
// Session is not safe for concurrent use; callers serialize access.
type Session struct {
	scenes   []episode.Scene
	index    int
	progress *Progress
	quiz     *Quiz
}

// NewSession starts a fresh session over the given scenes.
func NewSession(scenes []episode.Scene) *Session {
	s := &Session{
		scenes:   scenes,
		progress: NewProgress(),
	}
	s.resetQuiz()
	return s
}

// resetQuiz rebuilds scene-local quiz state for the active scene. Entering a
// new scene index always clears the previous scene's selection and answer
// flags.
func (s *Session) resetQuiz() {
	s.quiz = nil
	if s.index < len(s.scenes) {
		scene := s.scenes[s.index]
		if scene.Interactive {
			s.quiz = NewQuiz(scene.CorrectAnswer, len(scene.Options))
		}
	}
}

// Index returns the current scene index, starting at 0.
func (s *Session) Index() int {
	return s.index
}

// SceneCount returns the number of scenes in the session.
func (s *Session) SceneCount() int {
	return len(s.scenes)
}

// Scene returns the active scene.
func (s *Session) Scene() episode.Scene {
	return s.scenes[s.index]
}

// Scenes returns the full scene list in playback order.
func (s *Session) Scenes() []episode.Scene {
	return s.scenes
}

// Unlocked reports whether the gate for the given scene index is open.
func (s *Session) Unlocked(index int) bool {
	return s.progress.Unlocked(index)
}

// VideoFinished reports whether the given scene's video has completed.
func (s *Session) VideoFinished(index int) bool {
	return s.progress.VideoFinished(index)
}

// QuizState returns the active scene's answer-cycle state. Narrative scenes
// report QuizUnanswered.
func (s *Session) QuizState() QuizState {
	if s.quiz == nil {
		return QuizUnanswered
	}
	return s.quiz.State()
}

// SelectedOption returns the active quiz's pending selection, or -1.
func (s *Session) SelectedOption() int {
	if s.quiz == nil {
		return -1
	}
	return s.quiz.Selected()
}

// RecordVideoFinished marks the scene's video complete. For narrative scenes
// this is the sole unlock condition; for interactive scenes the gate stays
// shut until a correct answer arrives. Out-of-range indexes are ignored.
func (s *Session) RecordVideoFinished(index int) {
	if index < 0 || index >= len(s.scenes) {
		return
	}
	s.progress.MarkVideoFinished(index)
	if !s.scenes[index].Interactive {
		s.progress.Unlock(index)
	}
}

// SubmitAnswer evaluates a selection against the active scene's quiz. The
// second return is false when the submission was ignored: the scene is
// narrative, the quiz is already answered correctly, or the option index is
// out of range. A correct verdict unlocks the scene's gate.
func (s *Session) SubmitAnswer(option int) (QuizOutcome, bool) {
	if s.quiz == nil {
		return QuizIncorrect, false
	}
	outcome, accepted := s.quiz.Submit(option)
	if accepted && outcome == QuizCorrect {
		s.progress.Unlock(s.index)
	}
	return outcome, accepted
}

// RetryQuestion clears an incorrect answer on the active scene so the viewer
// can choose again. Gate state is untouched.
func (s *Session) RetryQuestion() bool {
	if s.quiz == nil {
		return false
	}
	return s.quiz.Retry()
}

// Advance moves to the next scene if the current gate is open. Past the final
// scene it reports completion instead of moving; the caller owns what happens
// next.
func (s *Session) Advance() AdvanceOutcome {
	if !s.progress.Unlocked(s.index) {
		return AdvanceBlocked
	}
	if s.index == len(s.scenes)-1 {
		return AdvanceCompleted
	}
	s.index++
	s.resetQuiz()
	return AdvanceMoved
}
