package mediacache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"storyloom/internal/logging"
)

// HTTPFetcher downloads media into the cache. It satisfies the prefetch
// Fetcher capability; per-item deadlines arrive through ctx.
type HTTPFetcher struct {
	cache  *Cache
	client *http.Client
	logger *slog.Logger
}

// NewHTTPFetcher builds a fetcher over the given cache. The HTTP client
// carries no timeout of its own; the buffer's per-item context governs.
func NewHTTPFetcher(cache *Cache, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		cache:  cache,
		client: &http.Client{},
		logger: logging.WithComponent(logger, "mediacache"),
	}
}

// Fetch warms one URL. A cache hit resolves without touching the network.
func (f *HTTPFetcher) Fetch(ctx context.Context, sourceURL string) error {
	if f.cache.Has(sourceURL) {
		f.logger.Debug("cache hit", logging.String(logging.FieldURL, sourceURL))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("build media request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("media endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	written, err := f.cache.Store(sourceURL, resp.Body)
	if err != nil {
		return err
	}
	f.logger.Debug("media cached",
		logging.String(logging.FieldURL, sourceURL),
		logging.Int64("bytes", written),
	)
	return nil
}
