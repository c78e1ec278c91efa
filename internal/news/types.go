package news

import "time"

// Lean is the political-lean tag attached to a source.
type Lean string

const (
	LeanLeft   Lean = "left"
	LeanCenter Lean = "center"
	LeanRight  Lean = "right"
)

// Article is one item in a source feed as returned by the news API.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceID    string    `json:"sourceId"`
	Lean        Lean      `json:"lean"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Author      string    `json:"author,omitempty"`
	Content     string    `json:"content,omitempty"`
}
