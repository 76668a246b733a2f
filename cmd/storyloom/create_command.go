package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storyloom/internal/generation"
	"storyloom/internal/library"
	"storyloom/internal/logging"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		topic          string
		characterName  string
		storyStyle     string
		characterImage string
		watch          bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a new episode and print its job id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			if strings.TrimSpace(topic) == "" {
				return fmt.Errorf("an episode topic is required (--topic)")
			}

			request := generation.CreateRequest{
				Topic:         topic,
				Style:         storyStyle,
				CharacterName: characterName,
			}
			if strings.TrimSpace(characterImage) != "" {
				raw, err := os.ReadFile(characterImage)
				if err != nil {
					return fmt.Errorf("read character image: %w", err)
				}
				request.CharacterImageBase64 = base64.StdEncoding.EncodeToString(raw)
			}

			client := generation.NewClient(cfg, logger)
			jobID, err := client.CreateEpisode(cmd.Context(), request)
			if err != nil {
				return err
			}

			if store, storeErr := library.Open(cfg); storeErr != nil {
				logger.Warn("library unavailable", logging.Error(storeErr))
			} else {
				if _, recErr := store.NewEpisode(cmd.Context(), jobID, topic, characterName, storyStyle); recErr != nil {
					logger.Warn("library record failed", logging.Error(recErr))
				}
				_ = store.Close()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Episode generation started: %s\n", jobID)
			if !watch {
				fmt.Fprintf(out, "Track it with `storyloom watch %s`\n", jobID)
				return nil
			}
			return runWatch(cmd, ctx, jobID)
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "What the episode should teach")
	cmd.Flags().StringVarP(&characterName, "character", "n", "", "Name of the main character")
	cmd.Flags().StringVarP(&storyStyle, "style", "s", "", "Story style, e.g. adventure or mystery")
	cmd.Flags().StringVar(&characterImage, "character-image", "", "Path to a character reference image")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch the episode as soon as it is ready")
	return cmd
}
