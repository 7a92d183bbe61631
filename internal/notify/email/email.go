package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/miniflavors/checkout/internal/notify"
)

// ChannelName identifies this sender in notification tasks.
const ChannelName = "email"

const defaultEndpoint = "https://api.resend.com/emails"

// Client sends transactional email through an HTTP provider API.
type Client struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

type option func(*Client)

// WithEndpoint overrides the provider endpoint. Used by tests.
func WithEndpoint(url string) option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates an email sender with a fixed from address.
func NewClient(apiKey, from string, opts ...option) *Client {
	c := &Client{
		apiKey:     apiKey,
		from:       from,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return ChannelName
}

type message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send posts one email. The receipt is plain text, so only the text part
// is filled.
func (c *Client) Send(ctx context.Context, task notify.Task) notify.Outcome {
	payload, err := json.Marshal(message{
		From:    c.from,
		To:      []string{task.Recipient},
		Subject: task.Subject,
		Text:    task.Body,
	})
	if err != nil {
		return notify.Outcome{Task: task, Detail: fmt.Sprintf("marshal message: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return notify.Outcome{Task: task, Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return notify.Outcome{Task: task, Detail: fmt.Sprintf("email request: %v", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	return notify.Outcome{
		Task:   task,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Detail: string(body),
	}
}
