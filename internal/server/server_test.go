package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/mimir/internal/chatproxy"
)

// captureLogs points the global logger at a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

// requestIDs maps each log message to the request_id it carried.
func requestIDs(t *testing.T, buf *bytes.Buffer) map[string]string {
	t.Helper()
	ids := map[string]string{}
	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		var entry struct {
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		ids[entry.Message] = entry.RequestID
	}
	return ids
}

func TestHealth(t *testing.T) {
	s := New("127.0.0.1:0", http.NotFoundHandler())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestChatRouteReachesHandlerForEveryMethod(t *testing.T) {
	s := New("127.0.0.1:0", chatproxy.New(chatproxy.Options{Endpoint: "http://unused", APIKey: "k"}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ChatPath, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != "POST" {
		t.Errorf("Allow = %q", rec.Header().Get("Allow"))
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ChatPath, strings.NewReader(`{"messages":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST status = %d, want 400", rec.Code)
	}
}

func TestChatLogSharesAccessLogRequestID(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`)
	}))
	t.Cleanup(upstream.Close)
	buf := captureLogs(t)

	s := New("127.0.0.1:0", chatproxy.New(chatproxy.Options{Endpoint: upstream.URL, APIKey: "k"}))
	rec := httptest.NewRecorder()
	body := `{"messages":[{"role":"user","content":"hello"}]}`
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ChatPath, strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	ids := requestIDs(t, buf)
	if ids["chat reply"] == "" {
		t.Fatalf("no request_id on the chat log line: %s", buf)
	}
	if ids["chat reply"] != ids["http request"] {
		t.Errorf("chat request_id %q != access log request_id %q", ids["chat reply"], ids["http request"])
	}
	if got := rec.Header().Get("X-Request-Id"); got != ids["http request"] {
		t.Errorf("X-Request-Id = %q, want %q", got, ids["http request"])
	}
}

func TestRequestIDHonoursCaller(t *testing.T) {
	buf := captureLogs(t)
	s := New("127.0.0.1:0", http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "caller-42")
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	if got := requestIDs(t, buf)["http request"]; got != "caller-42" {
		t.Errorf("request_id = %q, want caller-42", got)
	}
}

func TestRecoversFromPanics(t *testing.T) {
	s := New("127.0.0.1:0", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ChatPath, nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := New(ln.Addr().String(), http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var resp *http.Response
	for range 50 {
		resp, err = http.Get("http://" + ln.Addr().String() + "/health")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
