package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"storyloom/internal/config"
	"storyloom/internal/controller"
	"storyloom/internal/episode"
	"storyloom/internal/generation"
	"storyloom/internal/logging"
	"storyloom/internal/mediacache"
)

type completeSource struct {
	ep *episode.Episode
}

func (s *completeSource) JobStatus(ctx context.Context, jobID string) (*generation.JobStatus, error) {
	return &generation.JobStatus{JobID: jobID, State: generation.StatusComplete, Episode: s.ep}, nil
}

type noopFetcher struct {
	mu sync.Mutex
}

func (f *noopFetcher) Fetch(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return nil
}

func readyController(t *testing.T, ep *episode.Episode) *controller.Controller {
	t.Helper()
	cfg := config.Default()
	cfg.Workflow.StatusPollInterval = 1
	cfg.Workflow.MessageRotateInterval = 1
	cfg.Notifications.NtfyTopic = ""

	ctrl := controller.New(&cfg, &completeSource{ep: ep}, &noopFetcher{}, logging.NewNop())
	t.Cleanup(ctrl.Stop)
	if err := ctrl.Start(context.Background(), ep.JobID); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if ctrl.Phase() == controller.PhaseReady {
			return ctrl
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("controller never became ready, stuck at %s", ctrl.Phase())
	return nil
}

func testEpisode() *episode.Episode {
	return &episode.Episode{
		JobID: "job-play",
		Title: "Lumi Learns Light",
		Scenes: []episode.Scene{
			{
				Number:   1,
				VideoURL: "https://cdn.example.com/1.mp4",
				Dialogue: "Light travels in straight lines.",
			},
			{
				Number:        2,
				VideoURL:      "https://cdn.example.com/2.mp4",
				Interactive:   true,
				Question:      "What does light travel in?",
				Options:       []string{"Circles", "Straight lines"},
				CorrectAnswer: 1,
			},
		},
	}
}

func TestPlayerWalksEpisodeToCompletion(t *testing.T) {
	ctrl := readyController(t, testEpisode())
	cache, err := mediacache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	// Scene 1 video, scene 2 video, wrong answer, correct answer.
	input := strings.NewReader("\n\n1\n2\n")
	var output strings.Builder

	if err := runPlayer(ctrl, cache, input, &output); err != nil {
		t.Fatalf("runPlayer returned error: %v", err)
	}

	text := output.String()
	if !strings.Contains(text, "Scene 1 of 2") || !strings.Contains(text, "Scene 2 of 2") {
		t.Fatalf("expected both scenes in output:\n%s", text)
	}
	if !strings.Contains(text, "Not quite") {
		t.Fatalf("expected retry feedback for the wrong answer:\n%s", text)
	}
	if !strings.Contains(text, "Correct!") {
		t.Fatalf("expected correct feedback:\n%s", text)
	}
	if !strings.Contains(text, "Episode complete") {
		t.Fatalf("expected completion message:\n%s", text)
	}
}

func TestPlayerRejectsOutOfRangeAnswers(t *testing.T) {
	ctrl := readyController(t, testEpisode())
	cache, err := mediacache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	// "9" and "x" are invalid selections; "2" finally answers correctly.
	input := strings.NewReader("\n\n9\nx\n2\n")
	var output strings.Builder

	if err := runPlayer(ctrl, cache, input, &output); err != nil {
		t.Fatalf("runPlayer returned error: %v", err)
	}
	if !strings.Contains(output.String(), "Pick a number between 1 and 2") {
		t.Fatalf("expected selection guidance:\n%s", output.String())
	}
}
