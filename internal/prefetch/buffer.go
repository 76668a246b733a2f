package prefetch

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"storyloom/internal/logging"
)

// Fetcher loads one media URL into the local cache. Implementations must
// respect ctx cancellation and deadlines.
type Fetcher interface {
	Fetch(ctx context.Context, url string) error
}

// Progress reports how many supplied items have settled.
type Progress struct {
	Resolved int
	Total    int
}

// Percent returns the fraction resolved rounded to an integer percentage.
// An empty buffer is complete by definition.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return int(math.Round(float64(p.Resolved) / float64(p.Total) * 100))
}

// Result summarizes a finished buffering pass.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
	TimedOut  int
}

// Buffer warms the local cache for a set of media URLs before playback.
//
// Buffering is best-effort: every item settles as success, error, or timeout,
// and the buffer resolves once all items have settled. A slow or broken asset
// never blocks the episode; the affected scene simply plays degraded.
type Buffer struct {
	fetcher     Fetcher
	itemTimeout time.Duration
	logger      *slog.Logger
}

// New builds a buffer with a per-item timeout ceiling.
func New(fetcher Fetcher, itemTimeout time.Duration, logger *slog.Logger) *Buffer {
	if itemTimeout <= 0 {
		itemTimeout = 45 * time.Second
	}
	return &Buffer{
		fetcher:     fetcher,
		itemTimeout: itemTimeout,
		logger:      logging.WithComponent(logger, "prefetch"),
	}
}

// Run fetches every non-empty URL concurrently and blocks until all of them
// settle. onProgress, when non-nil, is invoked serially after each settled
// item and once immediately for an empty list.
func (b *Buffer) Run(ctx context.Context, urls []string, onProgress func(Progress)) Result {
	items := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			items = append(items, u)
		}
	}

	if len(items) == 0 {
		if onProgress != nil {
			onProgress(Progress{Resolved: 0, Total: 0})
		}
		return Result{}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = Result{Total: len(items)}
	)

	settle := func(update func(*Result)) {
		mu.Lock()
		update(&result)
		resolved := result.Succeeded + result.Failed + result.TimedOut
		progress := Progress{Resolved: resolved, Total: result.Total}
		if onProgress != nil {
			onProgress(progress)
		}
		mu.Unlock()
	}

	wg.Add(len(items))
	for _, url := range items {
		go func(url string) {
			defer wg.Done()
			itemCtx, cancel := context.WithTimeout(ctx, b.itemTimeout)
			defer cancel()

			start := time.Now()
			err := b.fetcher.Fetch(itemCtx, url)
			switch {
			case err == nil:
				b.logger.Debug("media item warmed",
					logging.String(logging.FieldURL, url),
					logging.Duration("elapsed", time.Since(start)),
				)
				settle(func(r *Result) { r.Succeeded++ })
			case errors.Is(err, context.DeadlineExceeded):
				b.logger.Warn("media item timed out, playing degraded",
					logging.String(logging.FieldURL, url),
					logging.Duration("ceiling", b.itemTimeout),
				)
				settle(func(r *Result) { r.TimedOut++ })
			default:
				b.logger.Warn("media item failed, playing degraded",
					logging.String(logging.FieldURL, url),
					logging.Error(err),
				)
				settle(func(r *Result) { r.Failed++ })
			}
		}(url)
	}
	wg.Wait()

	return result
}
