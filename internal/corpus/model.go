package corpus

type Source string

const (
	SourceEvent Source = "event"
	SourceVenue Source = "venue"
)

// Page is one retrievable unit of the knowledge base. Pages are built offline
// by cmd/combine and are immutable at serve time.
type Page struct {
	Source          Source   `json:"source"`
	Category        string   `json:"category"`
	URL             string   `json:"url,omitempty"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Keywords        []string `json:"keywords,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
}

type SourceCounts struct {
	Event int `json:"event"`
	Venue int `json:"venue"`
}

type Metadata struct {
	GeneratedAt   string         `json:"generated_at,omitempty"`
	EventName     string         `json:"event_name"`
	EventDates    string         `json:"event_dates"`
	EventLocation string         `json:"event_location"`
	Sources       SourceCounts   `json:"sources"`
	Categories    map[string]int `json:"categories,omitempty"`
}

// Document is the on-disk corpus format.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Pages    []Page   `json:"pages"`
}
