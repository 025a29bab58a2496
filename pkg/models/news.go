package models

import "time"

// NewsArticle is one market headline from a configured RSS feed.
// Summary is plain text; feed HTML is stripped at fetch time.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"` // feed name, not publisher
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
