// Package provider talks to an OpenAI-compatible chat-completion service (OpenRouter by
// default) and turns its replies into domain.Reply values.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/registry"
)

// Defaults used when the corresponding option is not set.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "google/gemini-pro-1.5"
	DefaultReferer = "https://github.com/aretw0/deckhand"
	DefaultTitle   = "Deckhand"
)

// SystemPrompt is sent as the first turn of every request.
const SystemPrompt = "You are a helpful file system assistant. You interpret natural language requests and turn them into specific tool calls. " +
	"You do not execute the tools yourself; you only output the function calls. " +
	"If a request is vague, ask for clarification. " +
	"If the user asks to move or copy 'all files' without a specific extension or criteria, ask for confirmation or clarification to avoid moving system files."

// Observer is notified after every chat-completion round-trip.
type Observer interface {
	ObserveProviderRequest(failed bool)
}

// Client is a chat-completion client. It performs no retries.
type Client struct {
	baseURL  string
	apiKey   string
	model    string
	referer  string
	title    string
	http     *http.Client
	logger   *slog.Logger
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAppIdentity sets the informational HTTP-Referer and X-Title headers.
func WithAppIdentity(referer, title string) Option {
	return func(c *Client) {
		if referer != "" {
			c.referer = referer
		}
		if title != "" {
			c.title = title
		}
	}
}

// WithTimeout bounds each HTTP round-trip. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithObserver attaches a request observer (metrics).
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a Client authenticating with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		model:   DefaultModel,
		referer: DefaultReferer,
		title:   DefaultTitle,
		http:    &http.Client{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Turns builds the two-message exchange for a user utterance.
func Turns(userText string) []domain.ConversationTurn {
	return []domain.ConversationTurn{
		{Role: domain.RoleSystem, Content: SystemPrompt},
		{Role: domain.RoleUser, Content: userText},
	}
}

type chatRequest struct {
	Model      string                    `json:"model"`
	Messages   []domain.ConversationTurn `json:"messages"`
	Tools      []registry.ToolDefinition `json:"tools,omitempty"`
	ToolChoice string                    `json:"tool_choice,omitempty"`
}

// Query sends one chat-completion request and returns the raw response body.
// Tools are attached, with automatic tool choice, only when catalog is non-empty.
// Network failures and non-2xx statuses are returned as *TransportError.
func (c *Client) Query(ctx context.Context, userText string, catalog []domain.ActionSpec) ([]byte, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: Turns(userText),
	}
	if len(catalog) > 0 {
		payload.Tools = registry.ToolDefinitions(catalog)
		payload.ToolChoice = "auto"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("build request: %v", err)}
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Provider Request", "model", c.model, "tools", len(payload.Tools))
	data, err := c.do(req)
	c.observe(err != nil)
	if err != nil {
		c.logger.Debug("Provider Request Failed", "err", err)
		return nil, err
	}
	return data, nil
}

// Ask sends userText and parses the reply. It never returns a Go error:
// transport failures become an error Reply whose Error is the failure message and whose
// Raw is the response body, so the body is shown once.
func (c *Client) Ask(ctx context.Context, userText string, catalog []domain.ActionSpec) domain.Reply {
	data, err := c.Query(ctx, userText, catalog)
	if err != nil {
		reply := domain.Reply{Kind: domain.ReplyError, Error: err.Error()}
		var te *TransportError
		if errors.As(err, &te) {
			reply.Error = te.Message
			if len(te.Body) > 0 {
				reply.Raw = rawPayload(te.Body)
			}
		}
		return reply
	}
	return Parse(data)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("read response: %v", err), Status: res.StatusCode}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &TransportError{
			Message: fmt.Sprintf("%d %s for url: %s", res.StatusCode, http.StatusText(res.StatusCode), req.URL),
			Status:  res.StatusCode,
			Body:    data,
		}
	}
	return data, nil
}

func (c *Client) observe(failed bool) {
	if c.observer != nil {
		c.observer.ObserveProviderRequest(failed)
	}
}
