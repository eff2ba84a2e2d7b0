// Package client is a Go client for the mentorship HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/SAP-F-2025/mentorship-service/internal/models"
)

// APIError is a non-2xx response decoded from the service's error envelope
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mentorship api: %d %s: %s", e.StatusCode, e.Kind, e.Message)
}

// Client calls the /api/v1 endpoints with a bearer token.
// Reads go through the retry policy; writes are sent once unless they carry an idempotency key.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      RetryPolicy
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.retry = policy }
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ===== READS =====

func (c *Client) ListConnections(ctx context.Context, status models.ConnectionStatus) ([]models.Connection, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	var out []models.Connection
	err := c.read(ctx, "/connections?"+query.Encode(), &out)
	return out, err
}

func (c *Client) GetConnection(ctx context.Context, connectionID uint) (*models.Connection, error) {
	var out models.Connection
	if err := c.read(ctx, fmt.Sprintf("/connections/%d", connectionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMessages(ctx context.Context, connectionID uint) ([]models.Message, error) {
	var out []models.Message
	err := c.read(ctx, fmt.Sprintf("/connections/%d/messages", connectionID), &out)
	return out, err
}

func (c *Client) UnreadCount(ctx context.Context, connectionID uint) (*models.UnreadCount, error) {
	var out models.UnreadCount
	if err := c.read(ctx, fmt.Sprintf("/connections/%d/messages/unread", connectionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUpcomingSessions(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	err := c.read(ctx, "/sessions/upcoming", &out)
	return out, err
}

func (c *Client) ListWork(ctx context.Context, connectionID uint) ([]models.WorkItem, error) {
	var out []models.WorkItem
	err := c.read(ctx, fmt.Sprintf("/connections/%d/work", connectionID), &out)
	return out, err
}

// ===== WRITES =====

// SendMessageInput mirrors the send request body
type SendMessageInput struct {
	MessageType     models.MessageType     `json:"message_type"`
	Content         string                 `json:"content,omitempty"`
	File            *models.FileAttachment `json:"file,omitempty"`
	ClientMessageID *string                `json:"client_message_id,omitempty"`
}

// SendMessage is retried only when ClientMessageID is set, since the server
// deduplicates on it.
func (c *Client) SendMessage(ctx context.Context, connectionID uint, in SendMessageInput) (*models.Message, error) {
	policy := NoRetry()
	if in.ClientMessageID != nil {
		policy = c.retry
	}

	var out models.Message
	path := fmt.Sprintf("/connections/%d/messages", connectionID)
	if err := c.call(ctx, policy, http.MethodPost, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestConnection(ctx context.Context, mentorID, message string, targetBand float64) (*models.Connection, error) {
	body := map[string]interface{}{
		"mentor_id":         mentorID,
		"message":           message,
		"target_band_score": targetBand,
	}
	var out models.Connection
	if err := c.call(ctx, NoRetry(), http.MethodPost, "/connections", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RespondToConnection(ctx context.Context, connectionID uint, decision models.ConnectionDecision) (*models.Connection, error) {
	var out models.Connection
	path := fmt.Sprintf("/connections/%d/respond", connectionID)
	if err := c.call(ctx, NoRetry(), http.MethodPost, path, map[string]interface{}{"decision": decision}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ===== TRANSPORT =====

func (c *Client) read(ctx context.Context, path string, out interface{}) error {
	return c.call(ctx, c.retry, http.MethodGet, path, nil, out)
}

func (c *Client) call(ctx context.Context, policy RetryPolicy, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	return policy.Do(ctx, func(ctx context.Context) error {
		err := c.do(ctx, method, path, payload, out)
		if retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Kind, apiErr.Message = envelope.Kind, envelope.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// retryable reports transport failures and 5xx/429 responses
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
