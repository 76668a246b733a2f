package generation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyloom/internal/config"
	"storyloom/internal/generation"
	"storyloom/internal/logging"
)

func clientFor(t *testing.T, server *httptest.Server) *generation.Client {
	t.Helper()
	cfg := config.Default()
	cfg.Service.BaseURL = server.URL
	cfg.Service.APIToken = "secret"
	return generation.NewClient(&cfg, logging.NewNop())
}

func TestCreateEpisodeSubmitsFormAndReturnsJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate-episode" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostFormValue("episode_topic"); got != "photosynthesis" {
			t.Errorf("unexpected topic %q", got)
		}
		if got := r.PostFormValue("character_name"); got != "Lumi" {
			t.Errorf("unexpected character %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "episode": {"episode_id": "ep_42", "status": "pending"}}`))
	}))
	defer server.Close()

	jobID, err := clientFor(t, server).CreateEpisode(context.Background(), generation.CreateRequest{
		Topic:         "photosynthesis",
		Style:         "watercolor",
		CharacterName: "Lumi",
	})
	if err != nil {
		t.Fatalf("CreateEpisode returned error: %v", err)
	}
	if jobID != "ep_42" {
		t.Fatalf("expected job id ep_42, got %q", jobID)
	}
}

func TestCreateEpisodeSurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "topic rejected"}`))
	}))
	defer server.Close()

	_, err := clientFor(t, server).CreateEpisode(context.Background(), generation.CreateRequest{Topic: "x"})
	if err == nil || err.Error() != "create episode: topic rejected" {
		t.Fatalf("expected service error surfaced, got %v", err)
	}
}

func TestJobStatusDecodesCompleteEpisode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/episodes/ep_42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected request id header")
		}
		w.Write([]byte(`{
			"episode_id": "ep_42",
			"status": "complete",
			"title": "Lumi Learns Light",
			"description": "Photosynthesis adventure",
			"skills": ["Early Biology"],
			"scenes": [
				{"scene_number": 1, "interaction": false, "video_url": "https://cdn.example.com/1.mp4", "dialogue": "Hi!"},
				{"scene_number": 2, "interaction": true, "video_url": "https://cdn.example.com/2.mp4",
				 "question": "What helps plants?", "options": ["Sun", "Naps", "TV", "Snow"], "correct_answer_index": 0,
				 "correct_feedback_url": "https://cdn.example.com/2-yes.mp4",
				 "incorrect_feedback_url": "https://cdn.example.com/2-no.mp4",
				 "idle_url": "https://cdn.example.com/2-idle.mp4"}
			]
		}`))
	}))
	defer server.Close()

	status, err := clientFor(t, server).JobStatus(context.Background(), "ep_42")
	if err != nil {
		t.Fatalf("JobStatus returned error: %v", err)
	}
	if status.State != generation.StatusComplete {
		t.Fatalf("expected complete, got %s", status.State)
	}
	ep := status.Episode
	if ep == nil || len(ep.Scenes) != 2 {
		t.Fatalf("expected decoded episode with 2 scenes, got %+v", ep)
	}
	if ep.Title != "Lumi Learns Light" || ep.Skills[0] != "Early Biology" {
		t.Fatalf("metadata not decoded: %+v", ep)
	}
	quiz := ep.Scenes[1]
	if !quiz.Interactive || quiz.CorrectAnswer != 0 || quiz.IdleURL == "" {
		t.Fatalf("quiz scene not decoded: %+v", quiz)
	}
}

func TestJobStatusFailedCarriesReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"episode_id": "ep_9", "status": "failed", "error": "quota exceeded"}`))
	}))
	defer server.Close()

	status, err := clientFor(t, server).JobStatus(context.Background(), "ep_9")
	if err != nil {
		t.Fatalf("JobStatus returned error: %v", err)
	}
	if status.State != generation.StatusFailed || status.Reason != "quota exceeded" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestJobStatusErrorsOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := clientFor(t, server).JobStatus(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestJobStatusRejectsUnknownState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"episode_id": "ep_9", "status": "daydreaming"}`))
	}))
	defer server.Close()

	if _, err := clientFor(t, server).JobStatus(context.Background(), "ep_9"); err == nil {
		t.Fatal("expected error for unknown status value")
	}
}
