package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/swarmhive/orchestrator/internal/infrastructure/colosseum"
	"github.com/swarmhive/orchestrator/internal/infrastructure/logger"
)

// Colosseum commands talk to the contest platform directly, not to the
// orchestrator.
func newColosseumCmd() *cobra.Command {
	var (
		apiKey  string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "colosseum",
		Short: "Interact with the contest platform",
	}
	cmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("SWARM_COLOSSEUM_API_KEY"), "colosseum api key")
	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "colosseum api base url")

	newClient := func() *colosseum.Client {
		return colosseum.NewClient(colosseum.ClientConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Logger:  logger.Nop(),
		})
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show contest agent status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp, err := newClient().GetStatus(ctx)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	var announceTags []string
	announceCmd := &cobra.Command{
		Use:   "announce <title> [body...]",
		Short: "Post a forum update about the swarm",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post := colosseum.ForumPost{
				Title: args[0],
				Body:  strings.Join(args[1:], " "),
				Tags:  announceTags,
			}
			if post.Body == "" {
				post.Body = post.Title
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp, err := newClient().CreateForumPost(ctx, post)
			if err != nil {
				return err
			}
			fmt.Println("posted")
			return printJSON(resp)
		},
	}
	announceCmd.Flags().StringSliceVar(&announceTags, "tags", []string{"progress"}, "forum post tags")

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the project for judging",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp, err := newClient().SubmitProject(ctx)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}

	cmd.AddCommand(statusCmd, announceCmd, submitCmd)
	return cmd
}
