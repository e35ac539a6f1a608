package llm

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

// LLMClient is a chat-completion style backend.
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
}

// newLLMClient creates an OpenAI-compatible client based on config
func newLLMClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		APIKey:      config.APIKey,
		BaseURL:     baseURL,
		Timeout:     config.Timeout,
		Temperature: config.Temperature,
	}, nil
}

// MockLLMClient returns a canned answer; used for dry runs and tests.
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return `{
		"CALIFICACION LEGAL": "NINGUNO DE INTERÉS",
		"MODALIDAD": "NO ESPECIFICADO",
		"ARMA": "NO ESPECIFICADO",
		"LESIONADA": "NO",
		"TENTATIVA": "NO"
	}`, nil
}

// Classify lets the mock stand in for any classifier.
func (m *MockLLMClient) Classify(ctx context.Context, prompt string) (string, error) {
	return m.ChatCompletion(ctx, "", prompt, 0)
}

// OpenAIClient implements LLMClient for OpenAI-compatible chat completion APIs
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	HTTPClient  *http.Client
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", fmt.Errorf("missing model")
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	type reqBody struct {
		Model          string          `json:"model"`
		Messages       []msg           `json:"messages"`
		Temperature    float64         `json:"temperature,omitempty"`
		MaxTokens      int             `json:"max_tokens,omitempty"`
		ResponseFormat *responseFormat `json:"response_format,omitempty"`
	}
	body := reqBody{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: "Eres un clasificador de relatos delictivos. Responde únicamente con un objeto JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature:    c.Temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	// "Error <status>" keeps the text matchable by the row failure rules.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai Error %d: %s", resp.StatusCode, strings.TrimSpace(string(respRaw)))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

// OpenAIClassifier sends classification prompts through an LLMClient.
type OpenAIClassifier struct {
	client    LLMClient
	model     string
	maxTokens int
}

// NewOpenAIClassifier builds a classifier on top of any LLMClient.
func NewOpenAIClassifier(client LLMClient, model string, maxTokens int) *OpenAIClassifier {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClassifier{client: client, model: model, maxTokens: maxTokens}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	return c.client.ChatCompletion(ctx, c.model, prompt, c.maxTokens)
}

func (c *OpenAIClassifier) Provider() string { return ProviderOpenAI }
func (c *OpenAIClassifier) Model() string    { return c.model }
