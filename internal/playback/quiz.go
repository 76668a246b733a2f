package playback

// QuizState is the answer-cycle state for one interactive scene.
type QuizState int

const (
	// QuizUnanswered means no submission is pending; the viewer may answer.
	QuizUnanswered QuizState = iota
	// QuizAnsweredCorrect is terminal for the scene; further submissions are
	// ignored.
	QuizAnsweredCorrect
	// QuizAnsweredIncorrect holds the wrong selection until the viewer
	// retries.
	QuizAnsweredIncorrect
)

func (s QuizState) String() string {
	switch s {
	case QuizUnanswered:
		return "unanswered"
	case QuizAnsweredCorrect:
		return "answered-correct"
	case QuizAnsweredIncorrect:
		return "answered-incorrect"
	default:
		return "unknown"
	}
}

// QuizOutcome is the correctness verdict for one accepted submission.
type QuizOutcome int

const (
	QuizIncorrect QuizOutcome = iota
	QuizCorrect
)

// Quiz is the answer state machine for a single interactive scene. State is
// scene-local: a fresh Quiz is built whenever the active scene changes.
type Quiz struct {
	correctAnswer int
	optionCount   int
	state         QuizState
	selected      int
}

// NewQuiz builds an unanswered quiz for a scene with the given options.
func NewQuiz(correctAnswer, optionCount int) *Quiz {
	return &Quiz{
		correctAnswer: correctAnswer,
		optionCount:   optionCount,
		state:         QuizUnanswered,
		selected:      -1,
	}
}

// Submit records a selection and evaluates it. The second return is false
// when the submission was ignored: the quiz is already answered correctly, or
// the option index is out of range.
func (q *Quiz) Submit(option int) (QuizOutcome, bool) {
	if q.state == QuizAnsweredCorrect {
		return QuizCorrect, false
	}
	if option < 0 || option >= q.optionCount {
		return QuizIncorrect, false
	}
	q.selected = option
	if option == q.correctAnswer {
		q.state = QuizAnsweredCorrect
		return QuizCorrect, true
	}
	q.state = QuizAnsweredIncorrect
	return QuizIncorrect, true
}

// Retry clears an incorrect answer so the viewer can choose again. It has no
// effect in any other state.
func (q *Quiz) Retry() bool {
	if q.state != QuizAnsweredIncorrect {
		return false
	}
	q.state = QuizUnanswered
	q.selected = -1
	return true
}

// State returns the current answer-cycle state.
func (q *Quiz) State() QuizState {
	return q.state
}

// Selected returns the most recent selection, or -1 when none is pending.
func (q *Quiz) Selected() int {
	return q.selected
}
