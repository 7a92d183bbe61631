package whatsapp

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
const ChannelName = "whatsapp"

const defaultBaseURL = "https://graph.facebook.com/v17.0"

// Client sends text messages through the WhatsApp Cloud API.
type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

type option func(*Client)

// WithBaseURL overrides the Graph API base URL. Used by tests.
func WithBaseURL(url string) option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a WhatsApp sender for one business phone number.
func NewClient(token, phoneNumberID string, opts ...option) *Client {
	c := &Client{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string {
	return ChannelName
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// Send posts one text message. The recipient must already be normalized
// to digits; the subject is ignored, WhatsApp has none.
func (c *Client) Send(ctx context.Context, task notify.Task) notify.Outcome {
	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		To:               task.Recipient,
		Type:             "text",
		Text:             textBody{Body: task.Body},
	})
	if err != nil {
		return notify.Outcome{Task: task, Detail: fmt.Sprintf("marshal message: %v", err)}
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return notify.Outcome{Task: task, Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return notify.Outcome{Task: task, Detail: fmt.Sprintf("whatsapp request: %v", err)}
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
