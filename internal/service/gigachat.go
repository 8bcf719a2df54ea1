package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"domli-search/internal/config"
)

// AIClient is the interface for conversational model providers
type AIClient interface {
	// ChatCompletion sends the conversation and returns the assistant reply text
	ChatCompletion(ctx context.Context, messages []Message) (string, error)

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// Message is a single message in a model conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GigaChatClient handles GigaChat API interactions. Access tokens are
// obtained via the OAuth endpoint and cached until shortly before expiry.
type GigaChatClient struct {
	config     *config.GigaChatConfig
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// Ensure GigaChatClient implements AIClient
var _ AIClient = (*GigaChatClient)(nil)

// NewGigaChatClient creates a new GigaChat client
func NewGigaChatClient(cfg *config.GigaChatConfig) *GigaChatClient {
	return &GigaChatClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *GigaChatClient) IsEnabled() bool {
	return c.config.Enabled
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix milliseconds
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatCompletion performs a chat completion request
func (c *GigaChatClient) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if !c.config.Enabled {
		return "", fmt.Errorf("GigaChat API is not enabled (missing credentials)")
	}

	token, err := c.ensureToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("API response contains no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// ensureToken returns a valid access token, requesting a new one when the
// cached token is missing or within a minute of expiry.
func (c *GigaChatClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.expiresAt) > time.Minute {
		return c.accessToken, nil
	}

	form := url.Values{"scope": {c.config.Scope}}
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString(
		[]byte(c.config.ClientID + ":" + c.config.ClientSecret))
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Basic %s", credentials))
	httpReq.Header.Set("RqUID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to unmarshal auth response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("auth response contains no access token")
	}

	c.accessToken = token.AccessToken
	c.expiresAt = time.UnixMilli(token.ExpiresAt)
	return c.accessToken, nil
}
