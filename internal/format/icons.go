package format

import "github.com/spiffcs/issues-watcher/internal/model"

// Icon strings for display. Renderers apply their own styling.
const (
	HotTopicIcon    = "\U0001F525"   // 🔥
	NoReplyIcon     = "\U0001F4AC"   // 💬
	NoteIcon        = "\U0001F4DD"   // 📝
	IssueIcon       = "\U0001F7E2"   // 🟢
	PullRequestIcon = "\U0001F500"   // 🔀
	OpaqueIcon      = "\u2753\uFE0F" // ❓

	// IconWidth is the display width reserved for an icon column.
	IconWidth = 3
)

// HotTopicThreshold is the comment count above which an issue is hot.
const HotTopicThreshold = 10

// IssueMarker returns the marker shown before an issue title, or "" for none.
// Hot discussions take precedence over unanswered issues.
func IssueMarker(issue model.Issue) string {
	switch {
	case issue.Comments > HotTopicThreshold:
		return HotTopicIcon
	case issue.Comments == 0 && !issue.IsPullRequest():
		return NoReplyIcon
	default:
		return ""
	}
}

// CardIcon returns the icon for a card's kind.
func CardIcon(kind model.CardKind) string {
	switch kind {
	case model.CardNote:
		return NoteIcon
	case model.CardIssue:
		return IssueIcon
	case model.CardPullRequest:
		return PullRequestIcon
	default:
		return OpaqueIcon
	}
}
