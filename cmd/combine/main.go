// Command combine builds the unified corpus file from the raw event and venue
// exports. It is run offline; the server only ever reads its output.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/corpus"
)

type rawPage struct {
	Category        string `json:"category"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description"`
}

type eventExport struct {
	Pages []rawPage `json:"pages"`
}

var venueCategoryMapping = map[string]string{
	"home":        "venue-overview",
	"real-estate": "venue-accommodations",
	"about":       "venue-amenities",
	"merchants":   "venue-dining",
	"news":        "venue-info",
	"weddings":    "venue-events",
	"careers":     "venue-info",
	"legal":       "venue-policies",
	"directory":   "venue-info",
	"beachcam":    "venue-amenities",
	"journals":    "venue-info",
	"photography": "venue-policies",
	"film":        "venue-info",
}

var knownKeywords = []string{
	"firkin", "fête", "soirée", "soiree", "pickleball", "picklebacks",
	"workshop", "maker", "market", "schedule", "ticket", "register",
	"speaker", "chef", "distiller", "artisan", "craftspeople",
	"november", "saturday", "sunday", "friday", "thursday", "wednesday",
	"beach", "pool", "caliza", "zuma", "wellness", "racquet", "tennis",
	"restaurant", "dining", "food", "bar", "merchant", "shop",
	"george's", "o-ku", "citizen", "fonville", "neat",
	"architecture", "design", "courtyard", "villa",
	"real estate", "rental", "vacation", "homeowner",
}

func main() {
	eventPath := flag.String("event", "lib/crafted_data.json", "event pages export")
	venuePath := flag.String("venue", "lib/alysbeach_data.json", "venue pages export")
	outPath := flag.String("out", "data/corpus.json", "combined corpus output")
	flag.Parse()

	if err := run(*eventPath, *venuePath, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "combine: %v\n", err)
		os.Exit(1)
	}
}

func run(eventPath, venuePath, outPath string) error {
	eventPages, err := loadEventPages(eventPath)
	if err != nil {
		return err
	}
	venuePages, err := loadVenuePages(venuePath)
	if err != nil {
		return err
	}

	pages := append(eventPages, venuePages...)

	categories := make(map[string]int, len(pages))
	for _, p := range pages {
		categories[p.Category]++
	}

	doc := corpus.Document{
		Metadata: corpus.Metadata{
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			EventName:     "CRAFTED 2025",
			EventDates:    "November 12-16, 2025",
			EventLocation: "Alys Beach, Florida",
			Sources: corpus.SourceCounts{
				Event: len(eventPages),
				Venue: len(venuePages),
			},
			Categories: categories,
		},
		Pages: pages,
	}

	// Validate before writing so a broken corpus never reaches the server.
	if _, err := corpus.NewStore(doc); err != nil {
		return fmt.Errorf("validate corpus: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}

	fmt.Printf("Event pages: %d\n", len(eventPages))
	fmt.Printf("Venue pages: %d\n", len(venuePages))
	fmt.Printf("Total pages: %d\n", len(pages))
	fmt.Printf("Corpus written to %s (%d KB)\n", outPath, len(out)/1024)
	return nil
}

func loadEventPages(path string) ([]corpus.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event export: %w", err)
	}
	var export eventExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse event export: %w", err)
	}

	pages := make([]corpus.Page, 0, len(export.Pages))
	for _, raw := range export.Pages {
		pages = append(pages, corpus.Page{
			Source:          corpus.SourceEvent,
			Category:        eventCategory(raw),
			URL:             raw.URL,
			Title:           raw.Title,
			Content:         raw.Content,
			Keywords:        extractKeywords(raw),
			MetaDescription: raw.MetaDescription,
		})
	}
	return pages, nil
}

func loadVenuePages(path string) ([]corpus.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue export: %w", err)
	}
	var raws []rawPage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse venue export: %w", err)
	}

	pages := make([]corpus.Page, 0, len(raws))
	for _, raw := range raws {
		category, ok := venueCategoryMapping[raw.Category]
		if !ok {
			category = "venue-general"
		}
		pages = append(pages, corpus.Page{
			Source:   corpus.SourceVenue,
			Category: category,
			URL:      raw.URL,
			Title:    raw.Title,
			Content:  raw.Content,
			Keywords: extractKeywords(raw),
		})
	}
	return pages, nil
}

// eventCategory picks the most specific bucket the page content suggests.
// Order matters: the first match wins.
func eventCategory(p rawPage) string {
	content := strings.ToLower(p.Content)
	title := strings.ToLower(p.Title)

	switch {
	case strings.Contains(content, "workshop") || strings.Contains(title, "workshop"):
		return "event-workshops"
	case strings.Contains(content, "schedule") || strings.Contains(content, "november"):
		return "event-schedule"
	case strings.Contains(content, "ticket") || strings.Contains(content, "register"):
		return "event-tickets"
	case strings.Contains(content, "speaker") || strings.Contains(content, "chef") || strings.Contains(content, "maker"):
		return "event-speakers"
	case strings.Contains(content, "firkin") || strings.Contains(content, "soirée") || strings.Contains(content, "soiree"):
		return "event-signature"
	default:
		return "event-general"
	}
}

func extractKeywords(p rawPage) []string {
	text := strings.ToLower(p.Title + " " + p.Content)

	var keywords []string
	for _, kw := range knownKeywords {
		if strings.Contains(text, kw) {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
