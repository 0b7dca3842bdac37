// Package triage narrows fetched issues down to the ones nobody has
// responded to yet.
package triage

import (
	"slices"
	"strings"
	"time"

	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/model"
)

// Filter narrows a list of issues. Filters return a new slice and never
// modify their input.
type Filter func(issues []model.Issue) []model.Issue

// Options selects which filters a pipeline runs.
type Options struct {
	ExcludePullRequests bool
	UnassignedOnly      bool
	// StaleWindow keeps issues created at least this long ago. Zero disables
	// the age check.
	StaleWindow   time.Duration
	ExcludeLabels []string
}

// DefaultOptions returns the no-reply triage used by the watcher: issues
// only, nobody assigned, open for at least three days.
func DefaultOptions() Options {
	return Options{
		ExcludePullRequests: true,
		UnassignedOnly:      true,
		StaleWindow:         constants.DefaultStaleWindow,
	}
}

func keep(issues []model.Issue, pred func(model.Issue) bool) []model.Issue {
	filtered := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if pred(issue) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// FilterOutPullRequests removes pull requests
func FilterOutPullRequests(issues []model.Issue) []model.Issue {
	return keep(issues, func(i model.Issue) bool {
		return !i.IsPullRequest()
	})
}

// FilterUnassigned keeps issues without an assignee
func FilterUnassigned(issues []model.Issue) []model.Issue {
	return keep(issues, func(i model.Issue) bool {
		return i.Assignee == nil
	})
}

// FilterStale returns a filter keeping issues created at least window
// before now.
func FilterStale(now time.Time, window time.Duration) Filter {
	cutoff := now.Add(-window)
	return func(issues []model.Issue) []model.Issue {
		return keep(issues, func(i model.Issue) bool {
			return !i.CreatedAt.After(cutoff)
		})
	}
}

// FilterOutLabels returns a filter dropping issues carrying any of labels.
// Label names are compared case-insensitively.
func FilterOutLabels(labels []string) Filter {
	return func(issues []model.Issue) []model.Issue {
		if len(labels) == 0 {
			return slices.Clone(issues)
		}
		return keep(issues, func(i model.Issue) bool {
			for _, name := range i.LabelNames() {
				if slices.ContainsFunc(labels, func(l string) bool { return strings.EqualFold(l, name) }) {
					return false
				}
			}
			return true
		})
	}
}

// FilterNoMemberReplies keeps the issues whose member comment count is zero.
// counts is indexed like issues.
func FilterNoMemberReplies(issues []model.Issue, counts []int) []model.Issue {
	filtered := make([]model.Issue, 0, len(issues))
	for i, issue := range issues {
		if i < len(counts) && counts[i] == 0 {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// Pipeline applies filters in order.
type Pipeline struct {
	filters []Filter
}

// NewPipeline creates a pipeline running filters in the given order.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{filters: filters}
}

// NewPipelineFromOptions builds the pipeline selected by opts, evaluating
// staleness relative to now.
func NewPipelineFromOptions(now time.Time, opts Options) *Pipeline {
	var filters []Filter
	if opts.ExcludePullRequests {
		filters = append(filters, FilterOutPullRequests)
	}
	if opts.UnassignedOnly {
		filters = append(filters, FilterUnassigned)
	}
	if opts.StaleWindow > 0 {
		filters = append(filters, FilterStale(now, opts.StaleWindow))
	}
	if len(opts.ExcludeLabels) > 0 {
		filters = append(filters, FilterOutLabels(opts.ExcludeLabels))
	}
	return NewPipeline(filters...)
}

// Apply runs every filter. The input slice is left untouched.
func (p *Pipeline) Apply(issues []model.Issue) []model.Issue {
	out := slices.Clone(issues)
	if out == nil {
		out = []model.Issue{}
	}
	for _, f := range p.filters {
		out = f(out)
	}
	return out
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
