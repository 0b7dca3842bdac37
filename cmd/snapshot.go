package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spiffcs/issues-watcher/config"
	"github.com/spiffcs/issues-watcher/internal/ghclient"
	"github.com/spiffcs/issues-watcher/internal/log"
	"github.com/spiffcs/issues-watcher/internal/model"
	"github.com/spiffcs/issues-watcher/internal/output"
	"github.com/spiffcs/issues-watcher/internal/service"
	"github.com/spiffcs/issues-watcher/internal/slack"
	"github.com/spiffcs/issues-watcher/internal/tui"
)

// snapshotRuntime bundles TUI-related state that's threaded through the
// snapshot command.
type snapshotRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// startTUI initializes and starts the TUI goroutine if TUI mode is enabled.
func (rt *snapshotRuntime) startTUI(relay bool) {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events, tui.WithTasks(tui.SnapshotTasks(relay)))
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (rt *snapshotRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	rt.events = nil
	if rt.tuiDone != nil {
		if err := <-rt.tuiDone; err != nil {
			log.Warn("progress display failed", "error", err)
		}
	}
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *snapshotRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// NewCmdSnapshot creates the snapshot command.
func NewCmdSnapshot(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot watched repositories and boards (same as root issues-watcher)",
		Long: `Fetches the open issues of every configured repository and the columns
and cards of every configured project board, then prints them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, opts)
		},
	}

	addSnapshotFlags(cmd, opts)
	return cmd
}

// addSnapshotFlags adds the snapshot-specific flags to a command.
func addSnapshotFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Maximum concurrent fetches (default from config)")
	cmd.Flags().StringVar(&opts.Timeout, "timeout", "", "Deadline for the whole snapshot (e.g., 90s, 2m)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Browse the snapshot interactively")
	cmd.Flags().BoolVar(&opts.Relay, "relay", false, "Post the summary to the configured Slack channel")

	cmd.Flags().Var(newTriStateFlag(&opts.NoReply), "no-reply", "Only list issues without a member reply (default from config)")
	cmd.Flags().StringVar(&opts.Stale, "stale", "", "Minimum age of a no-reply issue (e.g., 3d, 1w)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTriStateFlag(&opts.TUI), "tui", "Enable/disable TUI progress (default: auto-detect)")

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

func runSnapshot(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prof := newProfiler(opts)
	if err := prof.Start(); err != nil {
		return err
	}
	defer prof.Stop()

	useTUI := shouldUseTUI(opts) && !opts.Interactive
	// Suppress logs during TUI to avoid interleaving with display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	format, err := resolveFormat(opts, cfg)
	if err != nil {
		return err
	}
	if opts.Relay && !cfg.RelayEnabled() {
		return fmt.Errorf("--relay: %w: set slack_token and slack_channel", slack.ErrNotConfigured)
	}

	client, err := ghclient.NewClient(ctx, cfg.GetGitHubToken(), clientOptions(cfg)...)
	if err != nil {
		return err
	}

	rt := &snapshotRuntime{useTUI: useTUI}
	rt.startTUI(opts.Relay)
	defer rt.close()

	rt.sendEvent(tui.TaskAuth, tui.StatusRunning)
	login, err := client.AuthenticatedUser(ctx)
	if err != nil {
		rt.sendEvent(tui.TaskAuth, tui.StatusError, tui.WithError(err))
		reportRateLimit(rt, client, err)
		return err
	}
	rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage(login))
	log.Info("authenticated", "user", login)

	wopts, err := watcherOptions(cfg)
	if err != nil {
		return err
	}
	wopts = append(wopts, service.WithProgress(progressBridge(rt.events)))

	watcher, err := service.NewWatcher(client, cfg.Repos, cfg.Projects, wopts...)
	if err != nil {
		return err
	}
	if len(watcher.Projects()) == 0 {
		rt.sendEvent(tui.TaskResolve, tui.StatusSkipped)
	}

	snap, err := watcher.Snapshot(ctx)
	if err != nil {
		failStage(rt, err)
		reportRateLimit(rt, client, err)
		return err
	}

	remaining, limit, _ := client.RateLimitStatus()
	log.Info("snapshot taken", "issues", snap.IssueCount(), "cards", snap.CardCount(),
		"rate_remaining", remaining, "rate_limit", limit)

	if opts.Relay {
		if err := relay(ctx, rt, cfg, snap); err != nil {
			return err
		}
	}

	// The progress display must be gone before anything is printed.
	rt.close()

	if opts.Interactive {
		return tui.RunBrowser(snap)
	}
	return output.NewFormatter(format).Format(snap, os.Stdout)
}

// applyOverrides folds command-line flags into the loaded config.
func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.Workers > 0 {
		cfg.Workers = &opts.Workers
	}
	if opts.Timeout != "" {
		cfg.Timeout = opts.Timeout
	}
	if opts.NoReply == nil && opts.Stale == "" {
		return
	}
	if cfg.Filter == nil {
		cfg.Filter = &config.FilterOverrides{}
	}
	if opts.NoReply != nil {
		cfg.Filter.Enabled = opts.NoReply
	}
	if opts.Stale != "" {
		cfg.Filter.Stale = opts.Stale
	}
}

// resolveFormat picks the output format: flag, then config, then table.
func resolveFormat(opts *Options, cfg *config.Config) (output.Format, error) {
	format := output.Format(opts.Format)
	if format == "" {
		format = output.Format(cfg.DefaultFormat)
	}
	if format == "" {
		format = output.FormatTable
	}
	if !format.Valid() {
		return "", fmt.Errorf("invalid format: %s (must be table, json or markdown)", format)
	}
	return format, nil
}

// clientOptions maps config values onto GitHub client options.
func clientOptions(cfg *config.Config) []ghclient.Option {
	issues, projects := cfg.AcceptHeaders()
	return []ghclient.Option{
		ghclient.WithBaseURL(cfg.GetAPIBaseURL()),
		ghclient.WithUserAgent(cfg.GetUserAgent()),
		ghclient.WithWorkers(cfg.GetWorkers()),
		ghclient.WithAcceptHeaders(issues, projects),
	}
}

// watcherOptions maps config values onto watcher options.
func watcherOptions(cfg *config.Config) ([]service.Option, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	opts := []service.Option{
		service.WithWorkers(cfg.GetWorkers()),
		service.WithTimeout(timeout),
	}
	if !cfg.IsStrictProjects() {
		opts = append(opts, service.WithCompatProjects())
	}
	if cfg.FilterEnabled() {
		triageOpts, err := cfg.TriageOptions()
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithFilter(triageOpts))
	}
	return opts, nil
}

// stageTask maps a watcher stage onto its progress task.
func stageTask(stage service.Stage) tui.TaskID {
	switch stage {
	case service.StageResolve:
		return tui.TaskResolve
	case service.StageRepos:
		return tui.TaskRepos
	default:
		return tui.TaskBoards
	}
}

// progressBridge forwards watcher progress to the TUI. A nil channel
// yields a callback that only logs.
func progressBridge(events chan tui.Event) service.ProgressFunc {
	return func(stage service.Stage, completed, total int) {
		task := stageTask(stage)
		switch {
		case total == 0:
			tui.SendTaskEvent(events, task, tui.StatusSkipped)
		case completed >= total:
			tui.SendTaskEvent(events, task, tui.StatusComplete, tui.WithCount(total))
		default:
			tui.SendTaskEvent(events, task, tui.StatusRunning,
				tui.WithProgress(float64(completed)/float64(total)),
				tui.WithMessage(fmt.Sprintf("%d/%d", completed, total)))
		}
		if events == nil && total > 0 {
			log.Debug("progress", "task", task, "completed", completed, "total", total)
		}
	}
}

// failStage marks the task that was running when err occurred.
func failStage(rt *snapshotRuntime, err error) {
	task := tui.TaskRepos
	switch {
	case errors.Is(err, service.ErrResolve), errors.Is(err, ghclient.ErrProjectNotFound):
		task = tui.TaskResolve
	case errors.Is(err, ghclient.ErrMissingProjectID):
		task = tui.TaskBoards
	}
	rt.sendEvent(task, tui.StatusError, tui.WithError(err))
}

// reportRateLimit tells the TUI when a failure was caused by quota
// exhaustion.
func reportRateLimit(rt *snapshotRuntime, client *ghclient.Client, err error) {
	if rt.events == nil || !errors.Is(err, ghclient.ErrRateLimited) {
		return
	}
	tui.SendEvent(rt.events, tui.RateLimitEvent{Limited: true, ResetAt: client.RateLimitResetAt()})
}

// relayMessage returns the Slack summary for snap. ok is false when the
// snapshot holds no issues and nothing should be posted.
func relayMessage(cfg *config.Config, snap *model.Snapshot) (text string, ok bool, err error) {
	if snap.IssueCount() == 0 {
		return "", false, nil
	}
	window, err := cfg.StaleWindow()
	if err != nil {
		return "", false, err
	}
	return output.Summary(snap, window, cfg.FilterEnabled()), true, nil
}

// relay posts the snapshot summary to Slack.
func relay(ctx context.Context, rt *snapshotRuntime, cfg *config.Config, snap *model.Snapshot) error {
	rt.sendEvent(tui.TaskRelay, tui.StatusRunning)

	text, ok, err := relayMessage(cfg, snap)
	if err != nil {
		rt.sendEvent(tui.TaskRelay, tui.StatusError, tui.WithError(err))
		return err
	}
	if !ok {
		rt.sendEvent(tui.TaskRelay, tui.StatusSkipped, tui.WithMessage("nothing to report"))
		log.Info("no issues to relay", "channel", cfg.SlackChannel)
		return nil
	}

	sc, err := slack.NewClient(ctx, cfg.GetSlackToken())
	if err != nil {
		rt.sendEvent(tui.TaskRelay, tui.StatusError, tui.WithError(err))
		return err
	}
	if err := sc.PostMessage(ctx, cfg.SlackChannel, text); err != nil {
		rt.sendEvent(tui.TaskRelay, tui.StatusError, tui.WithError(err))
		return err
	}
	rt.sendEvent(tui.TaskRelay, tui.StatusComplete, tui.WithMessage(cfg.SlackChannel))
	log.Info("relayed summary", "channel", cfg.SlackChannel)
	return nil
}
