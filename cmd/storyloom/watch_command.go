package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"storyloom/internal/controller"
	"storyloom/internal/generation"
	"storyloom/internal/library"
	"storyloom/internal/logging"
	"storyloom/internal/mediacache"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Wait for an episode to finish generating, then play it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, ctx, args[0])
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command, ctx *commandContext, jobID string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger := ctx.ensureLogger()
	out := cmd.OutOrStdout()

	cache, err := mediacache.Open(cfg.Paths.CacheDir)
	if err != nil {
		return err
	}
	client := generation.NewClient(cfg, logger)
	fetcher := mediacache.NewHTTPFetcher(cache, logger)

	opts := []controller.Option{}
	events := make(chan controller.Event, 64)
	opts = append(opts, controller.WithListener(func(event controller.Event) {
		select {
		case events <- event:
		default:
		}
	}))
	if store, storeErr := library.Open(cfg); storeErr != nil {
		logger.Warn("library unavailable", logging.Error(storeErr))
	} else {
		defer store.Close()
		opts = append(opts, controller.WithHistory(store))
	}

	ctrl := controller.New(cfg, client, fetcher, logger, opts...)
	defer ctrl.Stop()

	if err := ctrl.Start(cmd.Context(), jobID); err != nil {
		return err
	}

	lastPercent := -1
	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case event := <-events:
			switch event.Type {
			case controller.EventStatusMessage:
				fmt.Fprintf(out, "  %s\n", event.Message)
			case controller.EventStatusObserved:
				fmt.Fprintf(out, "  job %s: %s\n", event.JobID, event.Status)
			case controller.EventBufferProgress:
				if percent := event.Progress.Percent(); percent != lastPercent {
					lastPercent = percent
					fmt.Fprintf(out, "  buffering media %d%%\n", percent)
				}
			case controller.EventPhaseChanged:
				switch event.Phase {
				case controller.PhaseError:
					return errors.New(ctrl.Snapshot().ErrorMessage)
				case controller.PhaseReady:
					return playOrSummarize(cmd, ctrl, cache)
				default:
					fmt.Fprintf(out, "Phase: %s\n", event.Phase)
				}
			}
		}
	}
}

func playOrSummarize(cmd *cobra.Command, ctrl *controller.Controller, cache *mediacache.Cache) error {
	out := cmd.OutOrStdout()
	ep := ctrl.Episode()
	if ep == nil {
		return errors.New("controller ready without an episode")
	}

	fmt.Fprintf(out, "Episode ready: %s (%d scenes)\n", ep.DisplayTitle(), len(ep.Scenes))
	if ep.Description != "" {
		fmt.Fprintf(out, "%s\n", ep.Description)
	}
	if len(ep.Skills) > 0 {
		fmt.Fprintf(out, "Skills covered: %s\n", strings.Join(ep.Skills, ", "))
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return runPlayer(ctrl, cache, cmd.InOrStdin(), out)
	}

	rows := make([][]string, 0, len(ep.Scenes))
	for _, scene := range ep.Scenes {
		kind := "narrative"
		if scene.Interactive {
			kind = "interactive"
		}
		media := "missing"
		if cache.Has(scene.VideoURL) {
			media = cache.Path(scene.VideoURL)
		}
		rows = append(rows, []string{
			strconv.Itoa(scene.Number),
			kind,
			scene.Dialogue,
			media,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Kind", "Dialogue", "Media"},
		rows,
	))
	fmt.Fprintln(out, "Run from a terminal to play interactively.")
	return nil
}
