package retrieval

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "drops stop words and short tokens",
			query: "when is the firkin event",
			want:  []string{"firkin", "event"},
		},
		{
			name:  "strips punctuation",
			query: "tell me about george's restaurant!",
			want:  []string{"georges", "restaurant"},
		},
		{
			name:  "lower-cases tokens",
			query: "FIRKIN Schedule",
			want:  []string{"firkin", "schedule"},
		},
		{
			name:  "all stop words",
			query: "what is the",
			want:  nil,
		},
		{
			name:  "pure punctuation token is dropped",
			query: "firkin ???",
			want:  []string{"firkin"},
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestScore_PhraseMatch(t *testing.T) {
	content := "the firkin fête happens friday evening"
	query := "firkin fête"

	with := Score(content, nil, query)
	without := Score("something unrelated entirely", nil, query)

	if with-without < phraseMatchScore {
		t.Errorf("expected phrase match to add at least %d points, got %f vs %f",
			phraseMatchScore, with, without)
	}
}

func TestScore_KeywordFrequencyMonotonic(t *testing.T) {
	keywords := []string{"beer"}

	once := Score("beer is served", keywords, "beer tasting")
	twice := Score("beer is served and more beer follows", keywords, "beer tasting")

	if twice < once {
		t.Errorf("score must not decrease with more keyword occurrences: %f < %f", twice, once)
	}
	if twice-once != keywordMatchScore {
		t.Errorf("expected one extra occurrence to add %d, got %f", keywordMatchScore, twice-once)
	}
}

func TestScore_WholeWordMatching(t *testing.T) {
	keywords := []string{"art"}

	// "artisan" must not count as a match for "art".
	if got := Score("the artisan booth", keywords, "zzz"); got != 0 {
		t.Errorf("expected 0 for partial word match, got %f", got)
	}
	if got := Score("modern art gallery", keywords, "zzz"); got != keywordMatchScore {
		t.Errorf("expected %d for whole word match, got %f", keywordMatchScore, got)
	}
}

func TestCompileKeywords(t *testing.T) {
	matchers := compileKeywords([]string{"firkin", "", "beer"})
	if len(matchers) != 2 {
		t.Fatalf("got %d matchers, want 2 with empty keyword dropped", len(matchers))
	}
	if !matchers[0].MatchString("firkin tapping") {
		t.Error("matcher should match its keyword as a whole word")
	}
	if matchers[1].MatchString("beery") {
		t.Error("matcher must not match inside a longer word")
	}
}

func TestScore_PrecompiledMatchersEquivalent(t *testing.T) {
	keywords := []string{"firkin", "beer", ""}
	matchers := compileKeywords(keywords)

	contents := []string{
		"the firkin fête serves beer and more beer",
		"nothing relevant here",
		"beer beer beer",
	}
	for _, content := range contents {
		direct := Score(content, keywords, "firkin beer")
		reused := scoreWith(content, matchers, "firkin beer")
		if direct != reused {
			t.Errorf("Score(%q) = %f, precompiled path = %f", content, direct, reused)
		}
	}
}

func TestScore_EmptyKeywordSkipped(t *testing.T) {
	// An empty keyword must not match everything.
	if got := Score("any content here", []string{""}, "zzz"); got != 0 {
		t.Errorf("expected 0 for empty keyword, got %f", got)
	}
}

func TestScore_DomainTermBoosts(t *testing.T) {
	// Boosts fire on content alone, independent of the query.
	got := Score("join us at the caliza pool", nil, "zzz")
	want := venueTermBoosts["caliza"] + venueTermBoosts["pool"]
	if got != want {
		t.Errorf("expected content boosts %f, got %f", want, got)
	}
}

func TestScore_NeverNegative(t *testing.T) {
	if got := Score("", nil, ""); got < 0 {
		t.Errorf("score must never be negative, got %f", got)
	}
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"event terms", "when is the firkin tapping", Intent{Event: true}},
		{"venue terms", "best restaurant nearby", Intent{Venue: true}},
		{"both", "workshop near the restaurant", Intent{Event: true, Venue: true}},
		{"neither", "hello there", Intent{}},
		{"case insensitive", "FRIDAY plans", Intent{Event: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectIntent(tt.query); got != tt.want {
				t.Errorf("DetectIntent(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}
