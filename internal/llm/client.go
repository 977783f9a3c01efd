// Package llm is a client for the xAI chat, image, and live-search APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.x.ai/v1"

	// ModelGeneration is the flagship model for rich content generation.
	ModelGeneration = "grok-3-latest"
	// ModelStructured is the fast non-reasoning model for JSON outputs.
	ModelStructured = "grok-4-1-fast-non-reasoning"
	// ModelReasoning is the fast chain-of-thought model for analysis steps.
	ModelReasoning = "grok-4-1-fast-reasoning"

	imageModel = "grok-imagine-v0p9"

	defaultTemperature = 0.6
	defaultMaxTokens   = 1024
)

// Client talks to the completion service.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the client.
type Config struct {
	APIKey  string
	BaseURL string // Overridable for tests; defaults to the public API.
}

// New creates a new client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Options tunes a single completion request. Zero values fall back to
// defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SearchSource selects one live-search backend with optional filters.
type SearchSource struct {
	Type              string   `json:"type"` // "web", "news", "x", "rss"
	Country           string   `json:"country,omitempty"`
	AllowedWebsites   []string `json:"allowed_websites,omitempty"`
	ExcludedWebsites  []string `json:"excluded_websites,omitempty"`
	PostFavoriteCount int      `json:"post_favorite_count,omitempty"`
	Links             []string `json:"links,omitempty"`
}

// SearchOptions configures a live-search completion.
type SearchOptions struct {
	Options
	Sources    []SearchSource
	MaxResults int
	FromDate   string // ISO8601 YYYY-MM-DD
	ToDate     string
}

// SearchResult is the grounded output of a live search.
type SearchResult struct {
	Content     string
	Citations   []string
	SourcesUsed int
}

type searchParameters struct {
	Mode             string         `json:"mode,omitempty"`
	ReturnCitations  bool           `json:"return_citations,omitempty"`
	FromDate         string         `json:"from_date,omitempty"`
	ToDate           string         `json:"to_date,omitempty"`
	MaxSearchResults int            `json:"max_search_results,omitempty"`
	Sources          []SearchSource `json:"sources,omitempty"`
}

type jsonSchemaFormat struct {
	Type       string `json:"type"`
	JSONSchema struct {
		Name   string         `json:"name"`
		Strict bool           `json:"strict"`
		Schema map[string]any `json:"schema"`
	} `json:"json_schema"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	Temperature      float64           `json:"temperature"`
	MaxTokens        int               `json:"max_tokens"`
	ResponseFormat   *jsonSchemaFormat `json:"response_format,omitempty"`
	SearchParameters *searchParameters `json:"search_parameters,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		NumSourcesUsed   int `json:"num_sources_used"`
	} `json:"usage"`
	Citations []string `json:"citations"`
	Error     *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a single system+user completion request and returns the
// model's text. Errors propagate unchanged; retrying is the caller's call.
func (c *Client) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	resp, err := c.chat(ctx, chatRequest{
		Model: modelOrDefault(opts.Model),
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperatureOrDefault(opts.Temperature),
		MaxTokens:   maxTokensOrDefault(opts.MaxTokens),
	})
	if err != nil {
		return "", err
	}
	return firstContent(resp)
}

// CompleteStructured requests strict JSON-schema-constrained output and
// returns the raw JSON for the caller to unmarshal.
func (c *Client) CompleteStructured(ctx context.Context, system, user, schemaName string, schema map[string]any, opts Options) (json.RawMessage, error) {
	format := &jsonSchemaFormat{Type: "json_schema"}
	format.JSONSchema.Name = schemaName
	format.JSONSchema.Strict = true
	format.JSONSchema.Schema = schema

	model := opts.Model
	if model == "" {
		model = ModelStructured
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.3 // Lower default for structured outputs.
	}

	resp, err := c.chat(ctx, chatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    temperature,
		MaxTokens:      maxTokensOrDefault(opts.MaxTokens),
		ResponseFormat: format,
	})
	if err != nil {
		return nil, err
	}

	content, err := firstContent(resp)
	if err != nil {
		return nil, err
	}

	// Strict mode should return bare JSON, but some models still wrap it in
	// prose or code fences. Salvage the first balanced object before giving up.
	if !json.Valid([]byte(content)) {
		extracted := ExtractJSON(content)
		if extracted == "" {
			return nil, fmt.Errorf("structured response for %s is not valid JSON", schemaName)
		}
		content = extracted
	}
	return json.RawMessage(content), nil
}

// LiveSearch runs a completion grounded by real-time web/news/x search and
// returns the text plus source citations.
func (c *Client) LiveSearch(ctx context.Context, system, query string, opts SearchOptions) (*SearchResult, error) {
	sources := opts.Sources
	if len(sources) == 0 {
		sources = []SearchSource{{Type: "web"}, {Type: "news"}, {Type: "x"}}
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = 10
	}

	resp, err := c.chat(ctx, chatRequest{
		Model: modelOrDefault(opts.Model),
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: query},
		},
		Temperature: temperatureOrDefault(opts.Temperature),
		MaxTokens:   maxTokensOrDefault(opts.MaxTokens),
		SearchParameters: &searchParameters{
			Mode:             "on",
			ReturnCitations:  true,
			FromDate:         opts.FromDate,
			ToDate:           opts.ToDate,
			MaxSearchResults: maxResults,
			Sources:          sources,
		},
	})
	if err != nil {
		return nil, err
	}

	content, err := firstContent(resp)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Content:     content,
		Citations:   resp.Citations,
		SourcesUsed: resp.Usage.NumSourcesUsed,
	}, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateImage renders an image from a prompt and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(imageRequest{
		Model:          imageModel,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: "url",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, c.baseURL+"/images/generations", body)
	if err != nil {
		return "", err
	}

	var imgResp imageResponse
	if err := json.Unmarshal(respBody, &imgResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if imgResp.Error != nil {
		return "", fmt.Errorf("API error: %s", imgResp.Error.Message)
	}
	if len(imgResp.Data) == 0 || imgResp.Data[0].URL == "" {
		return "", fmt.Errorf("no image in response")
	}

	return imgResp.Data[0].URL, nil
}

func (c *Client) chat(ctx context.Context, req chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	respBody, err := c.post(ctx, c.baseURL+"/chat/completions", body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s - %s", resp.Error.Type, resp.Error.Message)
	}

	return &resp, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func firstContent(resp *chatResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	return resp.Choices[0].Message.Content, nil
}

func modelOrDefault(model string) string {
	if model == "" {
		return ModelGeneration
	}
	return model
}

func temperatureOrDefault(t float64) float64 {
	if t == 0 {
		return defaultTemperature
	}
	return t
}

func maxTokensOrDefault(n int) int {
	if n == 0 {
		return defaultMaxTokens
	}
	return n
}
