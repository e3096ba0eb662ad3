package chatproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is a non-200 reply from the chat endpoint.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat: %d: %s", e.Status, e.Message)
}

// Client posts conversations to a chat proxy endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a Client for the full endpoint URL.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{url: url, httpClient: httpClient}
}

// Send posts the conversation and returns the reply text.
func (c *Client) Send(ctx context.Context, model string, messages []Message) (string, error) {
	body, err := json.Marshal(Request{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chat: read reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var eb ErrorBody
		if json.Unmarshal(raw, &eb) != nil || eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
		return "", &StatusError{Status: resp.StatusCode, Message: eb.Error}
	}

	var r Reply
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("chat: decode reply: %w", err)
	}
	return r.Reply, nil
}
