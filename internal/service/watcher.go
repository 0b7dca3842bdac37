// Package service builds snapshots by orchestrating the GitHub client
// across every watched repository and board.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/ghclient"
	"github.com/spiffcs/issues-watcher/internal/log"
	"github.com/spiffcs/issues-watcher/internal/model"
	"github.com/spiffcs/issues-watcher/internal/triage"
	"golang.org/x/sync/errgroup"
)

// ErrResolve marks failures that happened while resolving board numbers to
// IDs, before any repository or board is fetched.
var ErrResolve = errors.New("failed to resolve projects")

// Stage identifies a phase of a snapshot run for progress reporting.
type Stage int

const (
	StageResolve  Stage = iota // Resolving board numbers to IDs
	StageRepos                 // Fetching repository issues
	StageProjects              // Fetching board columns and cards
)

// ProgressFunc is called as units of work within a stage complete.
type ProgressFunc func(stage Stage, completed, total int)

// Watcher builds snapshots of a fixed set of repositories and boards.
type Watcher struct {
	fetcher  ghclient.Fetcher
	repos    []model.RepoRef
	projects []model.ProjectRef

	workers       int
	timeout       time.Duration
	now           func() time.Time
	filterEnabled bool
	filter        triage.Options
	onProgress    ProgressFunc
}

type watcherOptions struct {
	workers       int
	timeout       time.Duration
	now           func() time.Time
	strict        bool
	filterEnabled bool
	filter        triage.Options
	onProgress    ProgressFunc
}

// Option configures a Watcher.
type Option func(*watcherOptions)

// WithWorkers bounds how many repositories and boards are fetched at once.
func WithWorkers(n int) Option {
	return func(o *watcherOptions) {
		o.workers = n
	}
}

// WithTimeout sets the deadline for a whole snapshot. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *watcherOptions) {
		o.timeout = d
	}
}

// WithClock overrides the clock used to stamp snapshots and judge staleness.
func WithClock(now func() time.Time) Option {
	return func(o *watcherOptions) {
		o.now = now
	}
}

// WithCompatProjects makes unparsable board URLs a warning instead of an
// error. Such boards are skipped.
func WithCompatProjects() Option {
	return func(o *watcherOptions) {
		o.strict = false
	}
}

// WithFilter enables the no-reply triage of repository issues.
func WithFilter(opts triage.Options) Option {
	return func(o *watcherOptions) {
		o.filterEnabled = true
		o.filter = opts
	}
}

// WithProgress registers a progress callback. It may be called from several
// goroutines at once.
func WithProgress(fn ProgressFunc) Option {
	return func(o *watcherOptions) {
		o.onProgress = fn
	}
}

// NewWatcher parses the configured references and prepares a Watcher.
// Boards belonging to a watched repository are dropped, since the
// repository's issue list already covers them.
func NewWatcher(fetcher ghclient.Fetcher, repos, projects []string, opts ...Option) (*Watcher, error) {
	o := watcherOptions{
		workers: constants.DefaultWorkers,
		timeout: constants.DefaultTimeout,
		now:     time.Now,
		strict:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = 1
	}

	repoRefs, err := model.ParseRepoRefs(repos)
	if err != nil {
		return nil, err
	}

	projectRefs := make([]model.ProjectRef, 0, len(projects))
	for _, raw := range projects {
		if o.strict {
			ref, err := model.ParseProjectRefStrict(raw)
			if err != nil {
				return nil, err
			}
			projectRefs = append(projectRefs, ref)
			continue
		}
		ref := model.ParseProjectRef(raw)
		if ref.IsZero() {
			log.Warn("skipping unparsable project", "url", raw)
			continue
		}
		projectRefs = append(projectRefs, ref)
	}

	filtered := model.FilterProjects(repoRefs, projectRefs)
	if dropped := len(projectRefs) - len(filtered); dropped > 0 {
		log.Debug("dropped projects covered by watched repos", "count", dropped)
	}

	return &Watcher{
		fetcher:       fetcher,
		repos:         repoRefs,
		projects:      filtered,
		workers:       o.workers,
		timeout:       o.timeout,
		now:           o.now,
		filterEnabled: o.filterEnabled,
		filter:        o.filter,
		onProgress:    o.onProgress,
	}, nil
}

// Repos returns the watched repositories in configuration order.
func (w *Watcher) Repos() []model.RepoRef {
	return slices.Clone(w.repos)
}

// Projects returns the watched boards in configuration order.
func (w *Watcher) Projects() []model.ProjectRef {
	return slices.Clone(w.projects)
}

func (w *Watcher) reportProgress(stage Stage, completed, total int) {
	if w.onProgress != nil {
		w.onProgress(stage, completed, total)
	}
}

// Snapshot fetches every watched repository and board. Results keep
// configuration order regardless of completion order. The first failure
// cancels outstanding work and no partial snapshot is returned.
func (w *Watcher) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	now := w.now()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	snap := &model.Snapshot{
		Time:          now,
		RepoIssues:    make([]model.RepoIssues, len(w.repos)),
		ProjectIssues: make([]model.ProjectIssues, len(w.projects)),
	}
	if len(w.repos) == 0 && len(w.projects) == 0 {
		return snap, nil
	}

	projects := slices.Clone(w.projects)
	if len(projects) > 0 {
		w.reportProgress(StageResolve, 0, len(projects))
		if err := w.fetcher.ResolveProjectIDs(ctx, projects); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResolve, err)
		}
		w.reportProgress(StageResolve, len(projects), len(projects))
	}

	var reposDone, projectsDone atomic.Int32
	w.reportProgress(StageRepos, 0, len(w.repos))
	w.reportProgress(StageProjects, 0, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for i, repo := range w.repos {
		g.Go(func() error {
			ri, err := w.fetcher.ListRepoIssues(gctx, repo)
			if err != nil {
				return err
			}
			if w.filterEnabled {
				ri.Issues, err = w.noReplyIssues(gctx, now, ri.Issues)
				if err != nil {
					return fmt.Errorf("failed to triage %s: %w", repo, err)
				}
			}
			snap.RepoIssues[i] = ri
			w.reportProgress(StageRepos, int(reposDone.Add(1)), len(w.repos))
			return nil
		})
	}

	for i, project := range projects {
		g.Go(func() error {
			columns, err := w.fetcher.ListColumns(gctx, project)
			if err != nil {
				return err
			}
			snap.ProjectIssues[i] = model.ProjectIssues{Project: project, Columns: columns}
			w.reportProgress(StageProjects, int(projectsDone.Add(1)), len(projects))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug("snapshot complete", "issues", snap.IssueCount(), "cards", snap.CardCount())
	return snap, nil
}

// noReplyIssues runs the triage pipeline and then drops issues a member has
// already commented on.
func (w *Watcher) noReplyIssues(ctx context.Context, now time.Time, issues []model.Issue) ([]model.Issue, error) {
	candidates := triage.NewPipelineFromOptions(now, w.filter).Apply(issues)
	counts := make([]int, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i, issue := range candidates {
		g.Go(func() error {
			n, err := w.fetcher.CountMemberComments(gctx, issue)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return triage.FilterNoMemberReplies(candidates, counts), nil
}
