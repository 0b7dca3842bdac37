package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spiffcs/issues-watcher/config"
	"github.com/spiffcs/issues-watcher/internal/log"
	"github.com/spiffcs/issues-watcher/internal/slack"
)

// NewCmdPing creates the ping command.
func NewCmdPing() *cobra.Command {
	var channel string
	var verbosity int

	cmd := &cobra.Command{
		Use:   "ping <message>",
		Short: "Post a message to the Slack channel",
		Long: `Post a message to the configured Slack channel. Useful for checking the
relay credentials before enabling --relay on snapshots.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(verbosity, os.Stderr)
			return runPing(cmd, channel, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&channel, "channel", "c", "", "Channel to post to (default from config)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	return cmd
}

func runPing(cmd *cobra.Command, channel, message string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if channel == "" {
		channel = cfg.SlackChannel
	}

	client, err := slack.NewClient(cmd.Context(), cfg.GetSlackToken())
	if err != nil {
		return err
	}
	if err := client.PostMessage(cmd.Context(), channel, message); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Posted to %s.\n", channel)
	return nil
}
