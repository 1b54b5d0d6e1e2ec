// Package recommend picks the next book to suggest to the reader.
//
// Three tiers are tried in a fixed order: a hosted text-generation
// model, the Open Library subject catalog, and finally a uniform pick
// from the books already owned. The first tier with something to say
// wins; the local tier always has something to say, so a recommendation
// call never fails outright.
package recommend

import "fmt"

// Reason strings form a closed set. The reason is the only observable
// record of which tier produced a suggestion, so these are part of the
// wire contract, not display copy.
const (
	ReasonGenerative = "AI suggestion from Hugging Face"
	ReasonLocal      = "Random suggestion from your library"
)

// ReasonLiked is the catalog tier's reason for a given seed title.
func ReasonLiked(seedTitle string) string {
	return fmt.Sprintf("Because you liked '%s'", seedTitle)
}

const (
	noBooksTitle = "No books available"
	unknown      = "Unknown"
)

// Book is the read-only view of an owned book the pipeline consumes.
// The library feature owns the full records; tiers only ever look at
// these four fields and never write anything back.
type Book struct {
	Title      string
	AuthorName string
	ISBN       string
	CoverURL   string
}

// Suggestion is the pipeline's result, serialized as-is to the client.
// CoverURL is never empty: it is either a validated remote URL, a
// constructed catalog cover URL, or the bundled default cover path.
// Reason is omitted only in the empty-library case.
type Suggestion struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url"`
	Reason   string `json:"reason,omitempty"`
}
