package corpus

import (
	"strings"
	"testing"
)

func testDocument() Document {
	return Document{
		Metadata: Metadata{
			EventName:     "CRAFTED 2025",
			EventDates:    "November 12-16, 2025",
			EventLocation: "Alys Beach, Florida",
			Sources:       SourceCounts{Event: 1, Venue: 1},
		},
		Pages: []Page{
			{
				Source:   SourceEvent,
				Category: "event-signature",
				Title:    "Firkin Fête",
				Content:  "Friday evening firkin tapping in Central Park with live music.",
				Keywords: []string{"firkin", "beer"},
			},
			{
				Source:   SourceVenue,
				Category: "venue-dining",
				Title:    "George's",
				Content:  "A beloved coastal restaurant with fresh Gulf seafood.",
				Keywords: []string{"restaurant", "seafood"},
			},
		},
	}
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(testDocument())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 pages, got %d", s.Len())
	}
	if s.Metadata().EventName != "CRAFTED 2025" {
		t.Errorf("unexpected metadata: %+v", s.Metadata())
	}
}

func TestNewStore_RejectsUnknownSource(t *testing.T) {
	doc := testDocument()
	doc.Pages[0].Source = "blog"

	if _, err := NewStore(doc); err == nil {
		t.Fatal("expected error for unknown page source")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name:    "valid document",
			data:    `{"metadata":{"event_name":"CRAFTED 2025"},"pages":[{"source":"event","title":"Schedule","content":"Friday"}]}`,
			wantErr: false,
		},
		{
			name:    "malformed json",
			data:    `{"pages":[`,
			wantErr: true,
		},
		{
			name:    "empty pages",
			data:    `{"metadata":{},"pages":[]}`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStore_SearchText(t *testing.T) {
	s, err := NewStore(testDocument())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	text := s.SearchText(0)
	if text != strings.ToLower(text) {
		t.Error("search text should be lower-cased")
	}
	if !strings.Contains(text, "firkin fête") {
		t.Errorf("search text should contain the serialized title, got %q", text)
	}
	if !strings.Contains(text, `"keywords":["firkin","beer"]`) {
		t.Errorf("search text should include serialized keywords, got %q", text)
	}
}

func TestStore_HasKeyword(t *testing.T) {
	s, err := NewStore(testDocument())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if !s.HasKeyword(0, "firkin") {
		t.Error("expected keyword 'firkin' on page 0")
	}
	if s.HasKeyword(0, "restaurant") {
		t.Error("did not expect keyword 'restaurant' on page 0")
	}
	if !s.HasKeyword(1, "restaurant") {
		t.Error("expected keyword 'restaurant' on page 1")
	}
}

func TestStore_Summary(t *testing.T) {
	s, err := NewStore(testDocument())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	summary := s.Summary()
	for _, want := range []string{"CRAFTED 2025", "Alys Beach, Florida", "November 12-16, 2025"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q: %s", want, summary)
		}
	}
}
