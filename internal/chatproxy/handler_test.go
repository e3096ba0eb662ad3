package chatproxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// fakeUpstream records the last request and answers with status/body.
type fakeUpstream struct {
	status int
	body   string

	gotAuth  string
	gotPath  string
	gotModel string
	gotMsgs  []Message
}

func (f *fakeUpstream) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.gotAuth = r.Header.Get("Authorization")
		f.gotPath = r.URL.Path
		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.gotModel = req.Model
		f.gotMsgs = req.Messages
		w.WriteHeader(f.status)
		io.WriteString(w, f.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var eb ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &eb); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return eb.Error
}

const oneMessage = `{"messages":[{"role":"user","content":"hello"}]}`

func TestHandlerReply(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"choices":[{"message":{"content":"hi"}}]}`}
	srv := up.start(t)
	h := New(Options{Endpoint: srv.URL + "/v1/", APIKey: "sk-test"})
	defer h.Close()

	rec := post(t, h, oneMessage)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var r Reply
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Reply != "hi" {
		t.Errorf("reply = %q, want hi", r.Reply)
	}
	if up.gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", up.gotAuth)
	}
	if up.gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", up.gotPath)
	}
	if up.gotModel != DefaultModel {
		t.Errorf("model = %q, want %q", up.gotModel, DefaultModel)
	}
	if len(up.gotMsgs) != 1 || up.gotMsgs[0] != (Message{Role: "user", Content: "hello"}) {
		t.Errorf("messages = %+v", up.gotMsgs)
	}
}

func TestHandlerModelOverride(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"choices":[{"message":{"content":"ok"}}]}`}
	srv := up.start(t)
	h := New(Options{Endpoint: srv.URL, APIKey: "k", DefaultModel: "site-default"})

	post(t, h, oneMessage)
	if up.gotModel != "site-default" {
		t.Errorf("model = %q, want site-default", up.gotModel)
	}
	post(t, h, `{"model":"gpt-4o","messages":[{"role":"user","content":"x"}]}`)
	if up.gotModel != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", up.gotModel)
	}
}

func TestHandlerNoChoices(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"choices":[]}`}
	srv := up.start(t)
	rec := post(t, New(Options{Endpoint: srv.URL, APIKey: "k"}), oneMessage)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"reply":""}` {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestHandlerValidation(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{}`}
	srv := up.start(t)
	h := New(Options{Endpoint: srv.URL, APIKey: "k"})

	tests := []struct {
		name string
		body string
	}{
		{"empty messages", `{"messages":[]}`},
		{"missing messages", `{"model":"x"}`},
		{"null messages", `{"messages":null}`},
		{"wrong type", `{"messages":"hello"}`},
		{"not json", `hello`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if decodeError(t, rec) == "" {
				t.Error("missing error message")
			}
		})
	}
	if up.gotPath != "" {
		t.Error("invalid requests must not reach upstream")
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := New(Options{Endpoint: "http://unused", APIKey: "k"})
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/ai/chat", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d", method, rec.Code)
		}
		if rec.Header().Get("Allow") != "POST" {
			t.Errorf("%s: Allow = %q", method, rec.Header().Get("Allow"))
		}
		decodeError(t, rec)
	}
}

func TestHandlerMissingCredential(t *testing.T) {
	h := New(Options{Endpoint: "http://unused"})
	for _, body := range []string{oneMessage, `{"messages":[]}`, `garbage`} {
		rec := post(t, h, body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("body %q: status = %d, want 500", body, rec.Code)
		}
	}
}

func TestHandlerUpstreamErrorPassthrough(t *testing.T) {
	up := &fakeUpstream{status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`}
	srv := up.start(t)
	rec := post(t, New(Options{Endpoint: srv.URL, APIKey: "k"}), oneMessage)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := decodeError(t, rec); got != up.body {
		t.Errorf("error = %q, want raw upstream body", got)
	}
}

func TestHandlerNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := post(t, New(Options{Endpoint: url, APIKey: "k"}), oneMessage)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(decodeError(t, rec), "127.0.0.1") {
		t.Error("network details leaked to the client")
	}
}

func TestHandlerUndecodableUpstream(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `<html>`}
	srv := up.start(t)
	rec := post(t, New(Options{Endpoint: srv.URL, APIKey: "k"}), oneMessage)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestClientRoundTrip(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"choices":[{"message":{"content":"pong"}}]}`}
	upSrv := up.start(t)
	proxy := httptest.NewServer(New(Options{Endpoint: upSrv.URL, APIKey: "k"}))
	defer proxy.Close()

	c := NewClient(proxy.URL, nil)
	reply, err := c.Send(context.Background(), "", []Message{{Role: "user", Content: "ping"}})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "pong" {
		t.Errorf("reply = %q", reply)
	}

	_, err = c.Send(context.Background(), "", nil)
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 StatusError", err)
	}
	if se.Message == "" {
		t.Error("StatusError should carry the proxy message")
	}
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Send(context.Background(), "", []Message{{Role: "user", Content: "x"}})
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway || se.Message != "Bad Gateway" {
		t.Fatalf("err = %v", err)
	}
}

func TestHandlerBodyTooLarge(t *testing.T) {
	up := &fakeUpstream{status: http.StatusOK, body: `{"choices":[]}`}
	srv := up.start(t)
	h := New(Options{Endpoint: srv.URL, APIKey: "k"})

	big := `{"messages":[{"role":"user","content":"` + strings.Repeat("a", MaxBodyBytes) + `"}]}`
	rec := post(t, h, big)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if got := decodeError(t, rec); got != "Request body too large" {
		t.Errorf("error = %q", got)
	}
	if up.gotPath != "" {
		t.Error("oversized request reached upstream")
	}
}

func TestRequestIDPrefersRouterID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil)
	if _, err := uuid.Parse(requestID(req)); err != nil {
		t.Errorf("fallback id is not a UUID: %v", err)
	}
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "router-id")
	if got := requestID(req.WithContext(ctx)); got != "router-id" {
		t.Errorf("requestID = %q, want router-id", got)
	}
}
