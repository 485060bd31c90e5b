// Package line is the inbound and outbound edge against the LINE messaging
// platform: the webhook server and the API client.
package line

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"docline/internal/conversation"
	"docline/internal/journal"
)

// Handler processes one conversation event and returns the reply text.
type Handler interface {
	Handle(ctx context.Context, ev conversation.Event) (string, error)
}

// Replier delivers a reply message to the platform.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// FailureJournal records swallowed failures and lists them for inspection.
type FailureJournal interface {
	Record(entry journal.Entry) error
	List(limit int) ([]journal.Entry, error)
}

// BasicAuth holds basic authentication credentials for the admin endpoints
type BasicAuth struct {
	Username string
	Password string
}

// Server handles the webhook and the admin endpoints. The webhook always
// acknowledges with 200 so the platform never retries a whole event.
type Server struct {
	handler   Handler
	replier   Replier
	journal   FailureJournal
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(handler Handler, replier Replier, fj FailureJournal, basicAuth BasicAuth) *Server {
	return NewServerWithMux(handler, replier, fj, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(handler Handler, replier Replier, fj FailureJournal, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		handler:   handler,
		replier:   replier,
		journal:   fj,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/webhook", s.handleWebhook)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/failures", s.requireAuth(s.handleFailures))
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// webhookPayload is the LINE webhook request body, one event per request.
type webhookPayload struct {
	Events []struct {
		Type       string `json:"type"`
		ReplyToken string `json:"replyToken"`
		Source     struct {
			UserID string `json:"userId"`
		} `json:"source"`
		Message struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"message"`
	} `json:"events"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	// The platform retries the whole event on anything but success, which
	// would duplicate sheet rows. Acknowledge no matter what happens.
	defer w.WriteHeader(http.StatusOK)

	if r.Method != "POST" {
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("Failed to decode webhook payload", "error", err)
		return
	}
	if len(payload.Events) == 0 {
		return
	}

	raw := payload.Events[0]
	if raw.Source.UserID == "" {
		return
	}

	ev := conversation.Event{
		UserID:     raw.Source.UserID,
		ReplyToken: raw.ReplyToken,
		Kind:       eventKind(raw.Type, raw.Message.Type),
		Text:       raw.Message.Text,
		MessageID:  raw.Message.ID,
	}

	reply, err := s.handler.Handle(r.Context(), ev)
	if err != nil {
		slog.Error("Event processing failed", "user_id", ev.UserID, "error", err)
		s.recordFailure(ev.UserID, err)
	}

	if reply == "" || ev.ReplyToken == "" {
		return
	}
	if err := s.replier.Reply(r.Context(), ev.ReplyToken, reply); err != nil {
		slog.Error("Failed to deliver reply", "user_id", ev.UserID, "error", err)
		s.recordFailure(ev.UserID, err)
	}
}

func eventKind(eventType, messageType string) conversation.EventKind {
	if eventType != "message" {
		return conversation.EventOther
	}
	switch messageType {
	case "text":
		return conversation.EventText
	case "image":
		return conversation.EventImage
	}
	return conversation.EventOther
}

func (s *Server) recordFailure(userID string, err error) {
	entry := journal.Entry{
		Time:   time.Now(),
		UserID: userID,
		Error:  err.Error(),
	}
	if jerr := s.journal.Record(entry); jerr != nil {
		slog.Error("Failed to journal failure", "error", jerr)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleFailures(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.journal.List(limit)
	if err != nil {
		slog.Error("Error listing failures", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		slog.Error("Error encoding failures", "error", err)
	}
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="docline"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
