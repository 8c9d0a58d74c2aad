// Package aiserver implements the AIClient port against Ollama and
// OpenAI-compatible servers (for example Open WebUI) using resty.
package aiserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
	"github.com/ericfisherdev/selflearning/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AIClient = (*Client)(nil)

var errInvalidFormat = errors.New("invalid response format")

// Client talks to AI servers in one of the supported dialects.
type Client struct {
	http   *resty.Client
	api    model.ModelAPI
	logger *slog.Logger
}

// NewClient creates a Client with the following transport stack:
//  1. httpcache (ETag revalidation of model listings)
//  2. net/http with an overall per-request timeout
//  3. resty (JSON bodies, bearer auth, debug logging middleware)
func NewClient(api model.ModelAPI, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   timeout,
	}
	return NewClientWithHTTPClient(httpClient, api, logger)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing with an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, api model.ModelAPI, logger *slog.Logger) *Client {
	rc := resty.NewWithClient(httpClient)
	rc.SetHeader("Content-Type", "application/json")
	rc.SetHeader("Accept", "application/json")
	rc.AddResponseMiddleware(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("ai server request",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
		)
		return nil
	})

	return &Client{http: rc, api: api, logger: logger}
}

// ListModels returns the model names served at endpointURL. Every failure is
// wrapped in driven.ErrProbeFailed.
func (c *Client) ListModels(ctx context.Context, endpointURL, token string) ([]string, error) {
	path := "/api/models"
	if c.api == model.ModelAPIOllama {
		path = "/api/tags"
	}
	url := joinURL(endpointURL, path)

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", driven.ErrProbeFailed, url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: GET %s: server responded with status %d", driven.ErrProbeFailed, url, resp.StatusCode())
	}

	names, err := decodeModelList([]byte(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", driven.ErrProbeFailed, url, err)
	}
	return names, nil
}

// decodeModelList accepts both the Ollama shape {"models":[{"name"}]} and the
// OpenAI shape {"data":[{"id"}]}. Entries without a name are skipped.
func decodeModelList(body []byte) ([]string, error) {
	var payload struct {
		Models *[]struct {
			Name string `json:"name"`
		} `json:"models"`
		Data *[]struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidFormat, err)
	}

	names := []string{}
	switch {
	case payload.Models != nil:
		for _, m := range *payload.Models {
			if m.Name != "" {
				names = append(names, m.Name)
			}
		}
	case payload.Data != nil:
		for _, m := range *payload.Data {
			if m.ID != "" {
				names = append(names, m.ID)
			}
		}
	default:
		return nil, fmt.Errorf("%w: neither models nor data present", errInvalidFormat)
	}
	return names, nil
}

// generateRequest is the body of Ollama's /api/generate.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Chat sends req.Message to req.Model and returns the trimmed answer.
func (c *Client) Chat(ctx context.Context, req driven.ChatRequest) (string, error) {
	if c.api == model.ModelAPIOllama {
		return c.generate(ctx, req)
	}
	return c.chatCompletion(ctx, req)
}

func (c *Client) generate(ctx context.Context, req driven.ChatRequest) (string, error) {
	url := joinURL(req.EndpointURL, "/api/generate")
	body := generateRequest{Model: req.Model, Prompt: req.Message, System: req.SystemPrompt, Stream: false}

	raw, err := c.post(ctx, url, req.Token, body)
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode %s: %w: %w", url, errInvalidFormat, err)
	}
	answer := strings.TrimSpace(out.Response)
	if answer == "" {
		return "", fmt.Errorf("decode %s: %w: empty response", url, errInvalidFormat)
	}
	return answer, nil
}

func (c *Client) chatCompletion(ctx context.Context, req driven.ChatRequest) (string, error) {
	url := joinURL(req.EndpointURL, "/api/chat/completions")

	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})

	body := openai.ChatCompletionRequest{Model: req.Model, Messages: messages, Stream: false}

	raw, err := c.post(ctx, url, req.Token, body)
	if err != nil {
		return "", err
	}

	var out openai.ChatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode %s: %w: %w", url, errInvalidFormat, err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("decode %s: %w: no message content", url, errInvalidFormat)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url, token string, body any) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("POST %s: server responded with status %d", url, resp.StatusCode())
	}
	return []byte(resp.String()), nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
