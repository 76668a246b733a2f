package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyloom/internal/config"
	"storyloom/internal/logging"
)

const userAgent = "storyloom/0.1.0"

// Client talks to the episode generation service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a client from service configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Service.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Service.BaseURL, "/"),
		token:   strings.TrimSpace(cfg.Service.APIToken),
		http:    &http.Client{Timeout: timeout},
		logger:  logging.WithComponent(logger, "generation"),
	}
}

// CreateRequest carries the selection inputs for a new episode.
type CreateRequest struct {
	Topic                string
	Style                string
	CharacterName        string
	CharacterImageBase64 string
}

// CreateEpisode submits a generation request and returns the job identifier
// used to poll for completion.
func (c *Client) CreateEpisode(ctx context.Context, req CreateRequest) (string, error) {
	form := url.Values{}
	form.Set("episode_topic", req.Topic)
	form.Set("story_style", req.Style)
	form.Set("character_name", req.CharacterName)
	form.Set("character_image_base64", req.CharacterImageBase64)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-episode", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setCommonHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submit episode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("episode service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload createResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if !payload.Success {
		reason := strings.TrimSpace(payload.Error)
		if reason == "" {
			reason = "service rejected the request"
		}
		return "", fmt.Errorf("create episode: %s", reason)
	}
	if payload.Episode == nil || strings.TrimSpace(payload.Episode.EpisodeID) == "" {
		return "", fmt.Errorf("create episode: service returned no job identifier")
	}

	c.logger.Info("episode generation started",
		logging.String(logging.FieldJobID, payload.Episode.EpisodeID),
		logging.String("topic", req.Topic),
	)
	return payload.Episode.EpisodeID, nil
}

// JobStatus fetches the current state of a generation job. Network and
// protocol errors are returned as-is; the caller decides whether they are
// transient.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/episodes/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	c.setCommonHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch job status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("status endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload statusPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	state, ok := ParseStatus(payload.Status)
	if !ok {
		return nil, fmt.Errorf("unknown job status %q", payload.Status)
	}

	status := &JobStatus{
		JobID:   jobID,
		State:   state,
		Message: payload.Message,
		Reason:  payload.Error,
	}
	if state == StatusComplete {
		status.Episode = payload.episode()
	}

	c.logger.Debug("job status observed",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldRequestID, requestID),
		logging.String("status", string(state)),
	)
	return status, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
