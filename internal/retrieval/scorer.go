package retrieval

import (
	"regexp"
	"strings"
)

const (
	phraseMatchScore  = 100
	keywordMatchScore = 10
	curatedBonus      = 15

	matchingSourceBoost = 1.5
	crossSourcePenalty  = 0.7
)

var stopWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "who": {}, "how": {}, "is": {},
	"are": {}, "the": {}, "a": {}, "an": {}, "about": {}, "for": {},
	"on": {}, "at": {}, "to": {}, "in": {}, "with": {}, "tell": {},
	"me": {}, "can": {}, "you": {}, "do": {}, "does": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "i": {}, "my": {},
	"there": {}, "any": {}, "some": {}, "this": {}, "that": {},
	"these": {}, "those": {},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// ExtractKeywords turns a raw query into the candidate keywords used for
// scoring: lower-cased, whitespace-split, short tokens and stop words
// discarded, punctuation stripped.
func ExtractKeywords(query string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		cleaned := nonAlnum.ReplaceAllString(word, "")
		if cleaned == "" {
			continue
		}
		keywords = append(keywords, cleaned)
	}
	return keywords
}

// High-signal domain terms. These fire on page content alone, independent of
// the query, to mildly promote canonically important pages.
var eventTermBoosts = map[string]float64{
	"firkin":        50,
	"fête":          50,
	"fete":          50,
	"spirited":      40,
	"soirée":        50,
	"soiree":        50,
	"makers":        30,
	"market":        30,
	"pickleball":    40,
	"picklebacks":   40,
	"workshop":      30,
	"dinner":        25,
	"experiential":  30,
	"songwriter":    35,
	"architectural": 30,
	"tour":          20,
	"friday":        20,
	"saturday":      20,
	"sunday":        20,
	"thursday":      20,
	"wednesday":     20,
	"schedule":      25,
	"time":          15,
	"location":      15,
	"ticket":        20,
	"price":         20,
	"cost":          20,
}

var venueTermBoosts = map[string]float64{
	"caliza":       45,
	"zuma":         45,
	"beach club":   40,
	"pool":         30,
	"wellness":     30,
	"racquet":      30,
	"tennis":       30,
	"george's":     40,
	"o-ku":         40,
	"citizen":      40,
	"fonville":     40,
	"neat":         35,
	"restaurant":   25,
	"dining":       25,
	"food":         20,
	"bar":          20,
	"merchant":     25,
	"shop":         20,
	"architecture": 30,
	"design":       25,
	"villa":        25,
	"courtyard":    25,
	"rental":       25,
	"vacation":     25,
	"amenity":      25,
	"amenities":    25,
}

// compileKeywords builds the whole-word matcher for each keyword once, so
// scoring a whole corpus against one query reuses the compiled patterns
// instead of recompiling them per page. Empty and uncompilable keywords are
// dropped.
func compileKeywords(keywords []string) []*regexp.Regexp {
	matchers := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		if err != nil {
			continue
		}
		matchers = append(matchers, re)
	}
	return matchers
}

// Score computes the base relevance of a page's lower-cased search text
// against a query. It does not apply the curated-keyword bonus or the
// source-intent multiplier; the retriever layers those on per page.
func Score(content string, keywords []string, query string) float64 {
	return scoreWith(content, compileKeywords(keywords), query)
}

func scoreWith(content string, matchers []*regexp.Regexp, query string) float64 {
	var score float64

	query = strings.ToLower(query)
	if query != "" && strings.Contains(content, query) {
		score += phraseMatchScore
	}

	for _, re := range matchers {
		score += float64(len(re.FindAllStringIndex(content, -1))) * keywordMatchScore
	}

	for term, boost := range eventTermBoosts {
		if strings.Contains(content, term) {
			score += boost
		}
	}
	for term, boost := range venueTermBoosts {
		if strings.Contains(content, term) {
			score += boost
		}
	}

	return score
}
