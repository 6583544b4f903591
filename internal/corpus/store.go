package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Store holds the corpus loaded once at startup. It precomputes the serialized
// and lower-cased form of every page so the scoring path never re-marshals.
// Read-only after construction.
type Store struct {
	doc         Document
	search      []string
	display     []string
	keywordSets []map[string]struct{}
}

func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Store, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	return NewStore(doc)
}

func NewStore(doc Document) (*Store, error) {
	s := &Store{
		doc:         doc,
		search:      make([]string, len(doc.Pages)),
		display:     make([]string, len(doc.Pages)),
		keywordSets: make([]map[string]struct{}, len(doc.Pages)),
	}

	for i, page := range doc.Pages {
		if page.Source != SourceEvent && page.Source != SourceVenue {
			return nil, fmt.Errorf("page %d (%q): unknown source %q", i, page.Title, page.Source)
		}

		compact, err := json.Marshal(page)
		if err != nil {
			return nil, fmt.Errorf("serialize page %d: %w", i, err)
		}
		pretty, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serialize page %d: %w", i, err)
		}

		s.search[i] = strings.ToLower(string(compact))
		s.display[i] = string(pretty)

		kws := make(map[string]struct{}, len(page.Keywords))
		for _, kw := range page.Keywords {
			kws[strings.ToLower(kw)] = struct{}{}
		}
		s.keywordSets[i] = kws
	}

	return s, nil
}

func (s *Store) Pages() []Page {
	return s.doc.Pages
}

func (s *Store) Len() int {
	return len(s.doc.Pages)
}

func (s *Store) Metadata() Metadata {
	return s.doc.Metadata
}

// SearchText returns the lower-cased serialized page used for scoring.
func (s *Store) SearchText(i int) string {
	return s.search[i]
}

// Display returns the indented serialized page injected into context blocks.
func (s *Store) Display(i int) string {
	return s.display[i]
}

// HasKeyword reports whether the page's curated keyword list contains kw
// (case-insensitive).
func (s *Store) HasKeyword(i int, kw string) bool {
	_, ok := s.keywordSets[i][kw]
	return ok
}

// Summary is the generic top-level description used as retrieval fallback when
// no page scores above zero.
func (s *Store) Summary() string {
	m := s.doc.Metadata
	return fmt.Sprintf(
		"Event: %s\nLocation: %s\nDates: %s\n\nThis is a multi-day celebration at %s featuring culinary experiences, workshops, and makers markets.",
		m.EventName, m.EventLocation, m.EventDates, m.EventLocation,
	)
}
