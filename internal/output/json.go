package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/issues-watcher/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// JSONOutput wraps the snapshot with totals for JSON output
type JSONOutput struct {
	*model.Snapshot
	Summary JSONSummary `json:"summary"`
}

// JSONSummary holds snapshot totals.
type JSONSummary struct {
	Repos    int `json:"repos"`
	Projects int `json:"projects"`
	Issues   int `json:"issues"`
	Cards    int `json:"cards"`
}

// Format outputs the snapshot as JSON
func (f *JSONFormatter) Format(snap *model.Snapshot, w io.Writer) error {
	out := JSONOutput{
		Snapshot: snap,
		Summary: JSONSummary{
			Repos:    len(snap.RepoIssues),
			Projects: len(snap.ProjectIssues),
			Issues:   snap.IssueCount(),
			Cards:    snap.CardCount(),
		},
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(out)
}
