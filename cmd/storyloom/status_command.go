package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyloom/internal/generation"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Check a generation job once without waiting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := generation.NewClient(cfg, ctx.ensureLogger())
			status, err := client.JobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:    %s\n", status.JobID)
			fmt.Fprintf(out, "Status: %s\n", status.State)
			if status.Message != "" {
				fmt.Fprintf(out, "Note:   %s\n", status.Message)
			}
			switch status.State {
			case generation.StatusFailed:
				reason := status.Reason
				if reason == "" {
					reason = generation.GenericFailureMessage
				}
				fmt.Fprintf(out, "Error:  %s\n", reason)
			case generation.StatusComplete:
				if status.Episode != nil {
					fmt.Fprintf(out, "Title:  %s\n", status.Episode.DisplayTitle())
					fmt.Fprintf(out, "Scenes: %d\n", len(status.Episode.Scenes))
					if status.Episode.Description != "" {
						fmt.Fprintf(out, "About:  %s\n", status.Episode.Description)
					}
					if len(status.Episode.Skills) > 0 {
						fmt.Fprintf(out, "Skills: %s\n", strings.Join(status.Episode.Skills, ", "))
					}
				}
				fmt.Fprintf(out, "Play it with `storyloom watch %s`\n", status.JobID)
			}
			return nil
		},
	}
}
