package analytics

import (
	"encoding/json"
	"fmt"
	"time"
)

type Kind string

const (
	KindSessionStart Kind = "session_start"
	KindChatRequest  Kind = "chat_request"
	KindChatResponse Kind = "chat_response"
	KindError        Kind = "error"
)

type TokenUsage struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
}

func (u TokenUsage) Total() int64 {
	return u.Input + u.Output
}

// Payload is the per-kind half of an event. Exactly one payload type exists
// per Kind, so consumers type-switch instead of probing optional fields.
type Payload interface {
	kind() Kind
}

type SessionStart struct{}

func (SessionStart) kind() Kind { return KindSessionStart }

type Request struct {
	Query    string
	Category string
}

func (Request) kind() Kind { return KindChatRequest }

type Response struct {
	ResponseTimeMs int64
	Tokens         TokenUsage
	Model          string
	RelevantChunks int
	StatusCode     int
}

func (Response) kind() Kind { return KindChatResponse }

type Failure struct {
	Details    string
	StatusCode int
}

func (Failure) kind() Kind { return KindError }

// Client context blocks, attachable to any event.
type DeviceInfo struct {
	Type           string  `json:"type,omitempty"`
	OS             string  `json:"os,omitempty"`
	Browser        string  `json:"browser,omitempty"`
	BrowserVersion string  `json:"browserVersion,omitempty"`
	ScreenSize     string  `json:"screenSize,omitempty"`
	ViewportSize   string  `json:"viewportSize,omitempty"`
	TouchEnabled   bool    `json:"touchEnabled,omitempty"`
	PixelRatio     float64 `json:"pixelRatio,omitempty"`
}

type LocationInfo struct {
	Timezone       string   `json:"timezone,omitempty"`
	TimezoneOffset int      `json:"timezoneOffset,omitempty"`
	Language       string   `json:"language,omitempty"`
	Languages      []string `json:"languages,omitempty"`
}

type PerformanceInfo struct {
	PageLoadTime   float64 `json:"pageLoadTime,omitempty"`
	ConnectionType string  `json:"connectionType,omitempty"`
	EffectiveType  string  `json:"effectiveType,omitempty"`
	Downlink       float64 `json:"downlink,omitempty"`
	RTT            float64 `json:"rtt,omitempty"`
	SaveData       bool    `json:"saveData,omitempty"`
}

// Event is one immutable telemetry record. Timestamp is epoch milliseconds
// and doubles as the sort key in the event store. ID is assigned by the
// store on append; two events that are otherwise byte-identical still get
// distinct stored representations.
type Event struct {
	ID        string
	Timestamp int64
	SessionID string
	UserID    string
	Payload   Payload

	Device      *DeviceInfo
	Location    *LocationInfo
	Performance *PerformanceInfo
}

func (e *Event) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.kind()
}

func (e *Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// wireEvent is the flat JSON shape shared with the original dashboard
// consumers: per-kind fields sit at the top level next to the envelope.
type wireEvent struct {
	EventID   string `json:"eventId,omitempty"`
	Timestamp int64  `json:"timestamp"`
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId,omitempty"`
	EventType Kind   `json:"eventType"`

	UserQuery     string `json:"userQuery,omitempty"`
	QueryCategory string `json:"queryCategory,omitempty"`

	ResponseTime   int64       `json:"responseTime,omitempty"`
	TokensUsed     *TokenUsage `json:"tokensUsed,omitempty"`
	ModelUsed      string      `json:"modelUsed,omitempty"`
	RelevantChunks int         `json:"relevantChunks,omitempty"`

	ErrorDetails string `json:"errorDetails,omitempty"`
	StatusCode   int    `json:"statusCode,omitempty"`

	Device      *DeviceInfo      `json:"device,omitempty"`
	Location    *LocationInfo    `json:"location,omitempty"`
	Performance *PerformanceInfo `json:"performance,omitempty"`
}

func (e *Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		EventID:     e.ID,
		Timestamp:   e.Timestamp,
		SessionID:   e.SessionID,
		UserID:      e.UserID,
		EventType:   e.Kind(),
		Device:      e.Device,
		Location:    e.Location,
		Performance: e.Performance,
	}

	switch p := e.Payload.(type) {
	case SessionStart:
	case Request:
		w.UserQuery = p.Query
		w.QueryCategory = p.Category
	case Response:
		w.ResponseTime = p.ResponseTimeMs
		tokens := p.Tokens
		w.TokensUsed = &tokens
		w.ModelUsed = p.Model
		w.RelevantChunks = p.RelevantChunks
		w.StatusCode = p.StatusCode
	case Failure:
		w.ErrorDetails = p.Details
		w.StatusCode = p.StatusCode
	default:
		return nil, fmt.Errorf("unknown event payload %T", e.Payload)
	}

	return json.Marshal(w)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	e.ID = w.EventID
	e.Timestamp = w.Timestamp
	e.SessionID = w.SessionID
	e.UserID = w.UserID
	e.Device = w.Device
	e.Location = w.Location
	e.Performance = w.Performance

	switch w.EventType {
	case KindSessionStart:
		e.Payload = SessionStart{}
	case KindChatRequest:
		e.Payload = Request{Query: w.UserQuery, Category: w.QueryCategory}
	case KindChatResponse:
		resp := Response{
			ResponseTimeMs: w.ResponseTime,
			Model:          w.ModelUsed,
			RelevantChunks: w.RelevantChunks,
			StatusCode:     w.StatusCode,
		}
		if w.TokensUsed != nil {
			resp.Tokens = *w.TokensUsed
		}
		e.Payload = resp
	case KindError:
		e.Payload = Failure{Details: w.ErrorDetails, StatusCode: w.StatusCode}
	default:
		return fmt.Errorf("unknown event type %q", w.EventType)
	}

	return nil
}
