package chatproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// completionRequest is the upstream body. openai.ChatCompletionRequest
// carries many optional fields we never send, so the wire shape is kept
// minimal here.
type completionRequest struct {
	Model    string                         `json:"model"`
	Messages []openai.ChatCompletionMessage `json:"messages"`
}

// upstreamError is a non-2xx upstream reply, kept raw for passthrough.
type upstreamError struct {
	status int
	body   string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.status)
}

// upstream calls an OpenAI-compatible chat completions endpoint.
type upstream struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newUpstream(endpoint, apiKey string, client *http.Client) *upstream {
	if client == nil {
		client = &http.Client{}
	}
	return &upstream{
		baseURL:    strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: client,
	}
}

// complete performs one round trip and returns the first choice's content.
func (u *upstream) complete(ctx context.Context, model string, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &upstreamError{status: resp.StatusCode, body: string(raw)}
	}

	var out openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// close releases idle connections.
func (u *upstream) close() {
	u.httpClient.CloseIdleConnections()
}

// toOpenAIMessages converts proxy messages to the SDK message format.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return result
}

func asUpstreamError(err error) (*upstreamError, bool) {
	var ue *upstreamError
	ok := errors.As(err, &ue)
	return ue, ok
}
