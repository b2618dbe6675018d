// Package translator talks to the Anthropic Messages API to translate one
// sentence at a time into a structured, word-annotated result.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/techurbanist/duread/internal/client/models"
	"github.com/techurbanist/duread/internal/common"
)

const (
	DefaultURL       = "https://api.anthropic.com/v1/messages"
	DefaultModel     = "claude-haiku-4-5-20251001"
	DefaultMaxTokens = 2048
	APIVersion       = "2023-06-01"

	maxErrorBody = 4 << 10
)

// Translator is the single operation the scheduler depends on.
type Translator interface {
	Translate(ctx context.Context, apiKey, source string, direction models.Direction) (*models.TranslationResult, error)
}

// Client performs exactly one HTTP request per Translate call and never
// retries on its own.
type Client struct {
	url        string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type Option func(*Client)

func WithURL(url string) Option { return func(c *Client) { c.url = url } }

func WithModel(model string) Option { return func(c *Client) { c.model = model } }

func WithMaxTokens(n int) Option { return func(c *Client) { c.maxTokens = n } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func New(opts ...Option) *Client {
	c := &Client{
		url:        DefaultURL,
		model:      DefaultModel,
		maxTokens:  DefaultMaxTokens,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate sends source to the model and decodes its JSON answer.
//
// Errors: common.ErrCredentialMissing for an empty key, *APIError (matching
// common.ErrTranslationAPI) when the call does not succeed, and an error
// wrapping common.ErrTranslationParse when the answer is not the expected
// object.
func (c *Client) Translate(ctx context.Context, apiKey, source string, direction models.Direction) (*models.TranslationResult, error) {
	if apiKey == "" {
		return nil, common.ErrCredentialMissing
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: Prompt(source, direction)}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}

	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
		}
		return nil, fmt.Errorf("%w: envelope: %v", common.ErrTranslationParse, err)
	}

	var text string
	for _, block := range mr.Content {
		if block.Type == "" || block.Type == "text" {
			text = block.Text
			break
		}
	}
	return ParseResult(text)
}

func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return fmt.Sprintf("API error: %d", resp.StatusCode)
}

// ParseResult decodes the model's text answer, tolerating a surrounding
// ``` or ```json fence.
func ParseResult(text string) (*models.TranslationResult, error) {
	payload := stripFence(strings.TrimSpace(text))

	var r models.TranslationResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTranslationParse, err)
	}
	if strings.TrimSpace(r.Translation) == "" {
		return nil, fmt.Errorf("%w: missing translation", common.ErrTranslationParse)
	}
	if r.Words == nil {
		r.Words = []models.Word{}
	}
	return &r, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSpace(s)
}
