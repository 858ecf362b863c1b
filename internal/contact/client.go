package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RelayPath is where the mail relay accepts messages, relative to its base URL.
const RelayPath = "/functions/v1/send-contact-email"

// DeliveryError is a non-2xx answer from the relay.
type DeliveryError struct {
	Status int
	// ServerMessage is the relay's "error" field, possibly empty.
	ServerMessage string
}

func (e *DeliveryError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("relay rejected message (%d): %s", e.Status, e.ServerMessage)
	}
	return fmt.Sprintf("relay rejected message (%d)", e.Status)
}

// Client posts messages to the relay. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient builds a Client for the relay at baseURL. timeout bounds each
// request; zero leaves it to the caller's context.
func NewClient(httpClient *http.Client, baseURL string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout > 0 {
		c := *httpClient
		c.Timeout = timeout
		httpClient = &c
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(baseURL, "/") + RelayPath,
	}
}

// Endpoint is the full relay URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Send posts msg as JSON. The status class alone decides success, but the
// body must parse as JSON whatever the status. A non-2xx answer carries the
// relay's "error" string when the body is an object holding one.
func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return fmt.Errorf("could not decode response (%d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{Status: resp.StatusCode, ServerMessage: serverMessage(parsed)}
	}

	return nil
}

// serverMessage extracts a string "error" field from a decoded body.
func serverMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := obj["error"].(string)
	return strings.TrimSpace(msg)
}
