package analytics

import "strings"

type category struct {
	name     string
	keywords []string
}

// categoryTable is order-sensitive: the first category with any substring
// match wins, so ambiguous queries resolve the same way every time.
var categoryTable = []category{
	{"schedule", []string{"schedule", "when", "time", "calendar", "day", "date"}},
	{"events", []string{"event", "activity", "happening", "what to do"}},
	{"dining", []string{"food", "restaurant", "dining", "meal", "eat", "drink", "wine", "firkin"}},
	{"workshops", []string{"workshop", "class", "learn", "session", "hands-on"}},
	{"speakers", []string{"speaker", "talk", "presentation", "who is"}},
	{"location", []string{"where", "location", "venue", "place", "find"}},
	{"general", []string{"what is", "tell me about", "crafted", "alys beach"}},
}

// CategoryOther is returned when no category keyword matches.
const CategoryOther = "other"

func Categorize(query string) string {
	query = strings.ToLower(query)
	for _, cat := range categoryTable {
		for _, kw := range cat.keywords {
			if strings.Contains(query, kw) {
				return cat.name
			}
		}
	}
	return CategoryOther
}
