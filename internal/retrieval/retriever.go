package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devenspear/Crafted25-AIChatbot/internal/corpus"
)

// Retriever selects the corpus pages most relevant to a query and formats
// them into the context block handed to the prompt assembler. It is pure:
// the same (query, limit) against the same corpus always yields the same
// output.
type Retriever struct {
	store *corpus.Store
}

func NewRetriever(store *corpus.Store) *Retriever {
	return &Retriever{store: store}
}

type Result struct {
	Page  corpus.Page
	Index int
	Score float64
}

// Search scores every page, applies the curated-keyword bonus and the
// source-intent multiplier, and returns up to limit results in descending
// score order. Pages scoring zero are excluded entirely. Ties keep corpus
// order.
func (r *Retriever) Search(query string, limit int) []Result {
	queryLower := strings.ToLower(query)
	keywords := ExtractKeywords(queryLower)
	matchers := compileKeywords(keywords)
	intent := DetectIntent(queryLower)

	var results []Result
	for i, page := range r.store.Pages() {
		score := scoreWith(r.store.SearchText(i), matchers, queryLower)

		for _, kw := range keywords {
			if r.store.HasKeyword(i, kw) {
				score += curatedBonus
			}
		}

		// Exactly one detected intent triggers the source multiplier.
		if intent.Event != intent.Venue {
			matching := (intent.Event && page.Source == corpus.SourceEvent) ||
				(intent.Venue && page.Source == corpus.SourceVenue)
			if matching {
				score *= matchingSourceBoost
			} else {
				score *= crossSourcePenalty
			}
		}

		if score > 0 {
			results = append(results, Result{Page: page, Index: i, Score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Retrieve returns the formatted context block for a query, or the corpus
// summary when nothing matches, so the prompt assembler always receives
// non-empty context.
func (r *Retriever) Retrieve(query string, limit int) string {
	results := r.Search(query, limit)
	if len(results) == 0 {
		return r.store.Summary()
	}
	return r.Format(results)
}

// Fallback is the context used when no page scores above zero.
func (r *Retriever) Fallback() string {
	return r.store.Summary()
}

func (r *Retriever) Format(results []Result) string {
	blocks := make([]string, len(results))
	for i, res := range results {
		sourceTag := "[EVENT DATA]"
		if res.Page.Source == corpus.SourceVenue {
			sourceTag = "[VENUE DATA]"
		}
		title := res.Page.Title
		if title == "" {
			title = "Page"
		}
		blocks[i] = fmt.Sprintf("--- %s %s (Relevance: %.0f) ---\n%s",
			sourceTag, title, res.Score, r.store.Display(res.Index))
	}
	return strings.Join(blocks, "\n\n")
}
