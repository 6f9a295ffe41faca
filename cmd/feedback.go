package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/stepcoder/internal/api"
	"github.com/abhisek/stepcoder/internal/config"
	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <title> <description>",
	Short: "Send a bug report or suggestion to the course authors",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		client := api.NewClient(api.Config{
			BaseURL:   cfg.ServerURL,
			AuthToken: cfg.AuthToken,
			Timeout:   cfg.RequestTimeout,
		})

		title := args[0]
		description := strings.Join(args[1:], " ")
		if err := client.SubmitFeedback(cmd.Context(), title, description, nil); err != nil {
			return fmt.Errorf("submit feedback: %w", err)
		}
		fmt.Println("Thanks! Your feedback was sent.")
		return nil
	},
}
