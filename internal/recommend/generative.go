package recommend

import (
	"context"
	"fmt"
	"strings"
)

// completionEcho is the fragment of the prompt the model sometimes
// parrots back at the start of its completion.
const completionEcho = "Suggest one more book I might like:"

// GenerativeSuggester asks a text-generation model for one more book,
// feeding it the whole library as context. The model produces free
// text, so the tier is best-effort by nature.
type GenerativeSuggester struct {
	client       GenerativeClient
	defaultCover string
}

func NewGenerativeSuggester(client GenerativeClient, defaultCover string) *GenerativeSuggester {
	return &GenerativeSuggester{client: client, defaultCover: defaultCover}
}

func (g *GenerativeSuggester) Name() string { return "generative" }

func (g *GenerativeSuggester) Suggest(ctx context.Context, books []Book) (*Suggestion, error) {
	text, err := g.client.Generate(ctx, buildPrompt(books))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	title, author := parseCompletion(text)
	if title == "" {
		return nil, fmt.Errorf("completion %q parsed to an empty title", text)
	}
	// The model returns text only, never cover URLs.
	return &Suggestion{
		Title:    title,
		Author:   author,
		CoverURL: g.defaultCover,
		Reason:   ReasonGenerative,
	}, nil
}

func buildPrompt(books []Book) string {
	var b strings.Builder
	b.WriteString("Here are the books currently in my library:\n")
	for _, book := range books {
		fmt.Fprintf(&b, "- \"%s\" by %s\n", book.Title, book.AuthorName)
	}
	b.WriteString("\nSuggest one more book I might like (just give title and author).")
	return b.String()
}

// parseCompletion turns a raw completion into (title, author). The
// separator is the first " by ", so a title containing the substring
// loses its tail to the author field.
func parseCompletion(text string) (title, author string) {
	parts := strings.SplitN(strings.TrimSpace(text), " by ", 2)

	title = strings.TrimPrefix(parts[0], completionEcho)
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"`)

	author = unknown
	if len(parts) == 2 {
		author = strings.TrimSpace(parts[1])
	}
	return title, author
}
