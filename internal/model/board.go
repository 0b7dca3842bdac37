package model

import (
	"time"

	"github.com/spiffcs/issues-watcher/internal/urlutil"
)

// CardKind distinguishes what a project card holds.
type CardKind string

const (
	CardNote  CardKind = "note"
	CardIssue CardKind = "issue"

	// CardPullRequest is only produced for content URLs under /pulls/.
	// Classic boards link pull requests through their /issues/ URL, so
	// such cards classify as CardIssue.
	CardPullRequest CardKind = "pull_request"

	// CardOpaque marks a card whose content could not be interpreted.
	// Callers skip such cards rather than failing the snapshot.
	CardOpaque CardKind = "opaque"
)

// CardContent is the issue or pull request a card links to.
type CardContent struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// Card is an item placed in a board column.
type Card struct {
	ID         int64        `json:"id"`
	Note       *string      `json:"note"`
	ContentURL string       `json:"content_url,omitempty"`
	Archived   bool         `json:"archived"`
	CreatedAt  time.Time    `json:"created_at"`
	Kind       CardKind     `json:"kind"`
	Content    *CardContent `json:"content,omitempty"`
}

// IsOpaque reports whether the card's content is unknown.
func (c Card) IsOpaque() bool {
	return c.Kind == CardOpaque || c.Kind == ""
}

// Classify derives Kind and Content from the raw card fields.
func (c Card) Classify() Card {
	c.Kind = CardOpaque
	c.Content = nil

	switch {
	case c.ContentURL != "":
		ref, err := urlutil.ParseContentURL(c.ContentURL)
		if err != nil {
			return c
		}
		c.Content = &CardContent{Owner: ref.Owner, Repo: ref.Repo, Number: ref.Number}
		if ref.Kind == "pulls" {
			c.Kind = CardPullRequest
		} else {
			c.Kind = CardIssue
		}
	case c.Note != nil:
		c.Kind = CardNote
	}
	return c
}

// Column is a lane of a project board. Cards are attached after the column
// list has been fetched.
type Column struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// ActiveCards returns the column's non-archived, non-opaque cards.
func (c Column) ActiveCards() []Card {
	var cards []Card
	for _, card := range c.Cards {
		if card.Archived || card.IsOpaque() {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}
