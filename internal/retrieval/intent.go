package retrieval

import "strings"

// Intent classifies which half of the knowledge base a query leans toward.
// A query can lean both ways or neither, in which case no source boost
// applies.
type Intent struct {
	Event bool
	Venue bool
}

var eventIndicators = []string{
	"firkin", "fête", "fete", "soirée", "soiree", "pickleball", "picklebacks",
	"workshop", "maker", "market", "schedule", "ticket", "register",
	"speaker", "chef", "saturday", "sunday", "friday", "thursday",
	"what time", "when is", "crafted event", "happening", "activity",
}

var venueIndicators = []string{
	"restaurant", "dining", "eat", "food", "drink", "bar",
	"pool", "beach", "caliza", "zuma", "wellness", "gym", "fitness",
	"tennis", "racquet", "pickleball court",
	"architecture", "building", "design", "villa", "courtyard",
	"rental", "stay", "accommodation", "real estate", "property",
	"merchant", "shop", "store", "buy",
	"george's", "o-ku", "citizen", "fonville", "neat",
	"beach club", "amenity", "amenities", "facility",
}

func DetectIntent(query string) Intent {
	query = strings.ToLower(query)

	var intent Intent
	for _, ind := range eventIndicators {
		if strings.Contains(query, ind) {
			intent.Event = true
			break
		}
	}
	for _, ind := range venueIndicators {
		if strings.Contains(query, ind) {
			intent.Venue = true
			break
		}
	}
	return intent
}
