// Package chatproxy forwards chat requests from the chat sidebar to an
// external chat-completion API, keeping the API credential server-side.
//
// Every request is a single upstream round trip: no retry, no backoff, no
// streaming.
package chatproxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultModel is used when a request does not name one.
const DefaultModel = "gpt-5-nano"

// MaxBodyBytes caps the request body.
const MaxBodyBytes = 1 << 20

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the body accepted by the chat endpoint.
type Request struct {
	Model    string    `json:"model,omitempty"`
	Messages []Message `json:"messages"`
}

// Reply is the success body.
type Reply struct {
	Reply string `json:"reply"`
}

// ErrorBody is every failure body.
type ErrorBody struct {
	Error string `json:"error"`
}

// Options configures a Handler.
type Options struct {
	// Endpoint is the upstream base URL, e.g. https://api.openai.com/v1.
	Endpoint string
	// APIKey is the server-held credential. Empty makes every request fail
	// with a configuration error.
	APIKey       string
	DefaultModel string
	// Client performs upstream calls; its Timeout bounds each round trip.
	Client *http.Client
}

// Handler serves POST /api/ai/chat.
type Handler struct {
	upstream     *upstream
	apiKey       string
	defaultModel string
}

// New builds a Handler.
func New(opts Options) *Handler {
	model := opts.DefaultModel
	if model == "" {
		model = DefaultModel
	}
	return &Handler{
		upstream:     newUpstream(opts.Endpoint, opts.APIKey, opts.Client),
		apiKey:       opts.APIKey,
		defaultModel: model,
	}
}

// Close releases idle upstream connections.
func (h *Handler) Close() error {
	h.upstream.close()
	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.apiKey == "" {
		log.Error().Msg("chat proxy: no API key configured")
		writeError(w, http.StatusInternalServerError, "Server is missing the chat API key")
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must be a non-empty array")
		return
	}
	model := req.Model
	if model == "" {
		model = h.defaultModel
	}

	id := requestID(r)
	start := time.Now()
	reply, err := h.upstream.complete(r.Context(), model, req.Messages)
	if err != nil {
		if ue, ok := asUpstreamError(err); ok {
			log.Warn().Str("request_id", id).Int("status", ue.status).Str("model", model).
				Msg("chat upstream error")
			writeError(w, ue.status, ue.body)
			return
		}
		log.Error().Err(err).Str("request_id", id).Str("model", model).Msg("chat upstream failed")
		writeError(w, http.StatusInternalServerError, "Failed to get a reply from the chat service")
		return
	}

	log.Debug().Str("request_id", id).Str("model", model).Int("messages", len(req.Messages)).
		Dur("elapsed", time.Since(start)).Msg("chat reply")
	writeJSON(w, http.StatusOK, Reply{Reply: reply})
}

// requestID returns the router's request ID, or a fresh one when the
// handler is mounted without it.
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorBody{Error: msg})
}
