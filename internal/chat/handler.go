// Package chat serves the public conversation endpoint: retrieve context for
// the question, assemble the prompt, call the model and record telemetry.
package chat

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/devenspear/Crafted25-AIChatbot/internal/analytics"
	"github.com/devenspear/Crafted25-AIChatbot/internal/llm"
	"github.com/devenspear/Crafted25-AIChatbot/internal/prompt"
	"github.com/devenspear/Crafted25-AIChatbot/internal/retrieval"
	"github.com/devenspear/Crafted25-AIChatbot/internal/shared"
	"github.com/labstack/echo/v4"
)

// RetrieveLimit caps how many pages feed the prompt.
const RetrieveLimit = 5

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Message   string    `json:"message"`
	Messages  []Message `json:"messages"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`

	Device      *analytics.DeviceInfo      `json:"device"`
	Location    *analytics.LocationInfo    `json:"location"`
	Performance *analytics.PerformanceInfo `json:"performance"`
}

type Usage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
}

type Response struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
	Model     string `json:"model"`
	Usage     Usage  `json:"usage"`
}

type Handler struct {
	retriever *retrieval.Retriever
	client    llm.Client
	tracker   *analytics.Tracker
	logger    *slog.Logger
}

func NewHandler(retriever *retrieval.Retriever, client llm.Client, tracker *analytics.Tracker, logger *slog.Logger) *Handler {
	return &Handler{
		retriever: retriever,
		client:    client,
		tracker:   tracker,
		logger:    logger.With("handler", "chat"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat", h.Chat)
}

// Chat answers one user turn. Telemetry never blocks or fails the reply: the
// request is tracked inline but response tracking runs in a goroutine with a
// background context so it survives the client disconnecting.
func (h *Handler) Chat(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_body", "request body must be valid JSON")
	}

	query, history := normalize(&req)
	if query == "" {
		return shared.BadRequest("missing_message", "message is required")
	}

	sessionID := req.SessionID
	clientCtx := &analytics.ClientContext{
		Device:      req.Device,
		Location:    req.Location,
		Performance: req.Performance,
	}
	if sessionID == "" {
		sessionID = shared.NewID("session_")
		h.tracker.TrackSessionStart(c.Request().Context(), sessionID, req.UserID, clientCtx)
	}

	h.tracker.TrackRequest(c.Request().Context(), sessionID, query, req.UserID, clientCtx)

	results := h.retriever.Search(query, RetrieveLimit)
	relevant := h.retriever.Format(results)
	if relevant == "" {
		relevant = h.retriever.Fallback()
	}

	started := time.Now()
	completion, err := h.client.Complete(c.Request().Context(), llm.Request{
		System:   prompt.Assemble(relevant),
		Messages: history,
	})
	if err != nil {
		h.logger.Error("completion failed", "error", err, "session_id", sessionID)
		h.tracker.TrackError(context.WithoutCancel(c.Request().Context()), sessionID, err.Error(), http.StatusBadGateway)
		return shared.BadGateway("llm_unavailable", "assistant is temporarily unavailable")
	}
	elapsed := time.Since(started)

	go h.tracker.TrackResponse(context.Background(), sessionID, elapsed.Milliseconds(), analytics.TokenUsage{
		Input:  completion.Usage.InputTokens,
		Output: completion.Usage.OutputTokens,
	}, completion.Model, len(results), req.UserID)

	return c.JSON(http.StatusOK, Response{
		Reply:     completion.Text,
		SessionID: sessionID,
		Model:     completion.Model,
		Usage: Usage{
			InputTokens:  completion.Usage.InputTokens,
			OutputTokens: completion.Usage.OutputTokens,
		},
	})
}

// normalize extracts the latest user query and the conversation to send
// upstream. Single-message requests become a one-turn conversation.
func normalize(req *Request) (string, []llm.Message) {
	if len(req.Messages) > 0 {
		history := make([]llm.Message, 0, len(req.Messages))
		for _, m := range req.Messages {
			history = append(history, llm.Message{Role: m.Role, Content: m.Content})
		}

		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == llm.RoleUser {
				return strings.TrimSpace(req.Messages[i].Content), history
			}
		}
		return "", nil
	}

	query := strings.TrimSpace(req.Message)
	if query == "" {
		return "", nil
	}
	return query, []llm.Message{{Role: llm.RoleUser, Content: query}}
}
