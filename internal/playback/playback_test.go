package playback_test

import (
	"testing"

	"storyloom/internal/episode"
	"storyloom/internal/playback"
)

func twoSceneEpisode() []episode.Scene {
	return []episode.Scene{
		{
			Number:   1,
			VideoURL: "https://cdn.example.com/1.mp4",
			Dialogue: "Watch closely.",
		},
		{
			Number:        2,
			VideoURL:      "https://cdn.example.com/2.mp4",
			Interactive:   true,
			Question:      "What did you see?",
			Options:       []string{"A", "B"},
			CorrectAnswer: 1,
		},
	}
}

func TestNarrativeSceneUnlocksOnlyByVideoFinished(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())

	if _, accepted := session.SubmitAnswer(0); accepted {
		t.Fatal("narrative scene must ignore answer submissions")
	}
	if session.Unlocked(0) {
		t.Fatal("answer events must never unlock a narrative scene")
	}

	session.RecordVideoFinished(0)
	if !session.Unlocked(0) {
		t.Fatal("expected narrative scene to unlock after video finished")
	}
}

func TestInteractiveSceneUnlocksOnMostRecentCorrectAnswer(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())
	session.RecordVideoFinished(0)
	if session.Advance() != playback.AdvanceMoved {
		t.Fatal("expected to move to the interactive scene")
	}

	outcome, accepted := session.SubmitAnswer(0)
	if !accepted || outcome != playback.QuizIncorrect {
		t.Fatalf("expected accepted incorrect submission, got outcome=%v accepted=%t", outcome, accepted)
	}
	if session.Unlocked(1) {
		t.Fatal("incorrect answer must not unlock the gate")
	}
	if session.QuizState() != playback.QuizAnsweredIncorrect {
		t.Fatalf("expected answered-incorrect, got %v", session.QuizState())
	}

	if !session.RetryQuestion() {
		t.Fatal("expected retry to be accepted after an incorrect answer")
	}
	if session.QuizState() != playback.QuizUnanswered || session.SelectedOption() != -1 {
		t.Fatal("retry must clear the selection")
	}

	outcome, accepted = session.SubmitAnswer(1)
	if !accepted || outcome != playback.QuizCorrect {
		t.Fatalf("expected accepted correct submission, got outcome=%v accepted=%t", outcome, accepted)
	}
	if !session.Unlocked(1) {
		t.Fatal("correct answer after a retry must still unlock")
	}
}

func TestVideoFinishedDoesNotUnlockInteractiveScene(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())
	session.RecordVideoFinished(0)
	session.Advance()

	session.RecordVideoFinished(1)
	if session.Unlocked(1) {
		t.Fatal("video finished must not unlock an interactive scene")
	}
	if !session.VideoFinished(1) {
		t.Fatal("video finished flag should still be recorded")
	}
}

func TestSubmitIgnoredAfterCorrectAnswer(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())
	session.RecordVideoFinished(0)
	session.Advance()

	if _, accepted := session.SubmitAnswer(1); !accepted {
		t.Fatal("first correct submission should be accepted")
	}
	if _, accepted := session.SubmitAnswer(0); accepted {
		t.Fatal("submissions after a correct answer must be ignored")
	}
	if !session.Unlocked(1) {
		t.Fatal("ignored submission must not re-lock the gate")
	}
	if session.RetryQuestion() {
		t.Fatal("retry has no meaning once answered correctly")
	}
}

func TestAdvanceBlockedWhileGateLocked(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())

	if session.Advance() != playback.AdvanceBlocked {
		t.Fatal("expected advance to be blocked before the video finishes")
	}
	if session.Index() != 0 {
		t.Fatalf("blocked advance must not move the index, got %d", session.Index())
	}
}

func TestAdvancePastFinalSceneSignalsCompletion(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())
	session.RecordVideoFinished(0)
	session.Advance()
	session.SubmitAnswer(1)

	if session.Advance() != playback.AdvanceCompleted {
		t.Fatal("expected completion past the final scene")
	}
	if session.Index() != 1 {
		t.Fatalf("completion must not move the index past the last scene, got %d", session.Index())
	}
}

func TestQuizStateResetsOnSceneChange(t *testing.T) {
	scenes := []episode.Scene{
		{Number: 1, Interactive: true, Question: "Q1", Options: []string{"A", "B"}, CorrectAnswer: 0},
		{Number: 2, Interactive: true, Question: "Q2", Options: []string{"A", "B"}, CorrectAnswer: 1},
	}
	session := playback.NewSession(scenes)

	session.SubmitAnswer(0)
	if session.Advance() != playback.AdvanceMoved {
		t.Fatal("expected to move to scene 2")
	}
	if session.QuizState() != playback.QuizUnanswered {
		t.Fatalf("entering a new scene must reset quiz state, got %v", session.QuizState())
	}
	if session.SelectedOption() != -1 {
		t.Fatalf("entering a new scene must clear the selection, got %d", session.SelectedOption())
	}
}

func TestUnlockIsSticky(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())
	session.RecordVideoFinished(0)
	session.Advance()

	if !session.Unlocked(0) {
		t.Fatal("leaving a scene must not clear its unlock")
	}
}

func TestOutOfRangeEventsIgnored(t *testing.T) {
	session := playback.NewSession(twoSceneEpisode())

	session.RecordVideoFinished(-1)
	session.RecordVideoFinished(5)
	if session.Unlocked(0) || session.Unlocked(1) {
		t.Fatal("out-of-range video events must not unlock anything")
	}

	session.RecordVideoFinished(0)
	session.Advance()
	if _, accepted := session.SubmitAnswer(7); accepted {
		t.Fatal("out-of-range option index must be ignored")
	}
}
