package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"storyloom/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Browse and manage the episode history",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	libraryCmd.AddCommand(newLibraryClearCommand(ctx))

	return libraryCmd
}

func withLibrary(ctx *commandContext, fn func(*library.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := library.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every requested episode, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(ctx, func(store *library.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "Library is empty; request one with `storyloom create`")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.JobID,
						record.DisplayTitle(),
						record.Topic,
						string(record.Status),
						strconv.Itoa(record.SceneCount),
						record.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Job", "Title", "Topic", "Status", "Scenes", "Requested"},
					rows,
				))
				return nil
			})
		},
	}
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one episode record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(ctx, func(store *library.Store) error {
				record, err := store.GetByJobID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job:       %s\n", record.JobID)
				fmt.Fprintf(out, "Title:     %s\n", record.DisplayTitle())
				fmt.Fprintf(out, "Topic:     %s\n", record.Topic)
				fmt.Fprintf(out, "Character: %s\n", record.CharacterName)
				if record.StoryStyle != "" {
					fmt.Fprintf(out, "Style:     %s\n", record.StoryStyle)
				}
				fmt.Fprintf(out, "Status:    %s\n", record.Status)
				if record.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:     %s\n", record.ErrorMessage)
				}
				fmt.Fprintf(out, "Scenes:    %d\n", record.SceneCount)
				fmt.Fprintf(out, "Requested: %s\n", record.CreatedAt.Local().Format(time.DateTime))
				if record.CompletedAt != nil {
					fmt.Fprintf(out, "Completed: %s\n", record.CompletedAt.Local().Format(time.DateTime))
				}
				return nil
			})
		},
	}
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <job-id>",
		Short: "Remove one episode record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(ctx, func(store *library.Store) error {
				if err := store.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newLibraryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every episode record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(ctx, func(store *library.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s)\n", removed)
				return nil
			})
		},
	}
}
