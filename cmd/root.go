package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "issues-watcher",
		Short: "Snapshot open GitHub issues and project boards",
		Long: `A CLI tool that takes a point-in-time snapshot of the open issues in a
set of repositories and the cards on a set of classic project boards.
Issues nobody from the project has answered can be singled out and the
summary relayed to a Slack channel.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, opts)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add snapshot flags to root command so `issues-watcher` and
	// `issues-watcher snapshot` work identically
	addSnapshotFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdSnapshot(opts))
	rootCmd.AddCommand(NewCmdPing())
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
