package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyloom/internal/logging"
)

func TestNewConsoleWritesFormattedRecord(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	scoped := logging.WithComponent(logger, "prefetch")
	scoped.Info("item resolved", logging.String(logging.FieldURL, "https://example.com/a.mp4"), logging.Int("resolved", 2))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO prefetch: item resolved") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "url=https://example.com/a.mp4") || !strings.Contains(line, "resolved=2") {
		t.Fatalf("expected attrs in log line, got %q", line)
	}
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("kept")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed") {
		t.Fatalf("info record should have been filtered: %q", content)
	}
	if !strings.Contains(string(content), "kept") {
		t.Fatalf("warn record missing: %q", content)
	}
}

func TestNewJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("structured", logging.String(logging.FieldJobID, "ep_123"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"job_id":"ep_123"`) {
		t.Fatalf("expected job_id attr in JSON output, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
