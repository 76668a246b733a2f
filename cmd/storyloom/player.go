package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storyloom/internal/controller"
	"storyloom/internal/mediacache"
	"storyloom/internal/playback"
)

// runPlayer walks the viewer through the episode scene by scene on the
// terminal: confirm each video finished, answer each quiz until correct,
// advance through the gates.
func runPlayer(ctrl *controller.Controller, cache *mediacache.Cache, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	for {
		scene, ok := ctrl.CurrentScene()
		if !ok {
			return nil
		}
		index := ctrl.Snapshot().SceneIndex

		fmt.Fprintf(out, "\n--- Scene %d of %d ---\n", scene.Number, ctrl.Snapshot().SceneCount)
		if scene.Dialogue != "" {
			fmt.Fprintf(out, "%s\n", scene.Dialogue)
		}
		if cache.Has(scene.VideoURL) {
			fmt.Fprintf(out, "Video: %s\n", cache.Path(scene.VideoURL))
		} else if scene.VideoURL != "" {
			fmt.Fprintf(out, "Video unavailable, continuing without it: %s\n", scene.VideoURL)
		}

		fmt.Fprint(out, "Press enter when the video has finished... ")
		if _, err := readLine(reader); err != nil {
			return err
		}
		ctrl.RecordVideoFinished(index)

		if scene.Interactive {
			if err := runQuiz(ctrl, scene.Question, scene.Options, index, reader, out); err != nil {
				return err
			}
		}

		switch ctrl.Advance() {
		case playback.AdvanceCompleted:
			fmt.Fprintln(out, "\nEpisode complete. Nicely done!")
			return nil
		case playback.AdvanceMoved:
			continue
		default:
			return fmt.Errorf("scene %d is still locked", scene.Number)
		}
	}
}

func runQuiz(ctrl *controller.Controller, question string, options []string, index int, reader *bufio.Reader, out io.Writer) error {
	for !ctrl.SceneUnlocked(index) {
		fmt.Fprintf(out, "\n%s\n", question)
		for i, option := range options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprint(out, "Your answer: ")

		line, err := readLine(reader)
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintf(out, "Pick a number between 1 and %d.\n", len(options))
			continue
		}

		outcome, accepted := ctrl.SubmitAnswer(choice - 1)
		if !accepted {
			continue
		}
		if outcome == playback.QuizCorrect {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintln(out, "Not quite. Try again.")
			ctrl.RetryQuestion()
		}
	}
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return line, nil
}
