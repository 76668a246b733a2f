package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storyloom/internal/config"
)

const userAgent = "storyloom/0.1.0"

// Service defines the notification surface exposed to the episode workflow.
type Service interface {
	NotifyEpisodeReady(ctx context.Context, title string, sceneCount int) error
	NotifyGenerationFailed(ctx context.Context, jobID, reason string) error
	NotifyEpisodeCompleted(ctx context.Context, title string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		ready:      cfg.Notifications.Ready,
		errors:     cfg.Notifications.Errors,
		completion: cfg.Notifications.Completion,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	ready      bool
	errors     bool
	completion bool
}

func (n *ntfyService) NotifyEpisodeReady(ctx context.Context, title string, sceneCount int) error {
	if !n.ready {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Storyloom - Episode Ready",
		message: fmt.Sprintf("Ready to watch: %s (%d scenes)", title, sceneCount),
		tags:    []string{"storyloom", "episode", "ready"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyGenerationFailed(ctx context.Context, jobID, reason string) error {
	if !n.errors {
		return nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Storyloom - Generation Failed",
		message:  fmt.Sprintf("Episode %s failed: %s", strings.TrimSpace(jobID), reason),
		tags:     []string{"storyloom", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyEpisodeCompleted(ctx context.Context, title string) error {
	if !n.completion {
		return nil
	}
	title = strings.TrimSpace(title)
	data := payload{
		title:   "Storyloom - Episode Finished",
		message: fmt.Sprintf("Finished watching: %s", title),
		tags:    []string{"storyloom", "episode", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Storyloom - Test",
		message:  "Notification system test",
		tags:     []string{"storyloom", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyEpisodeReady(ctx context.Context, title string, sceneCount int) error {
	return nil
}

func (noopService) NotifyGenerationFailed(ctx context.Context, jobID, reason string) error {
	return nil
}

func (noopService) NotifyEpisodeCompleted(ctx context.Context, title string) error {
	return nil
}

func (noopService) TestNotification(ctx context.Context) error {
	return nil
}
