package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultLocalBaseURL      = "http://127.0.0.1:8845/v1"
	DefaultModel             = "google/gemini-2.0-flash-001"

	ProviderOpenRouter = "openrouter"
	ProviderLocal      = "local"
	ProviderNone       = "none"
)

// ChatProvider calls an OpenAI-compatible chat completions endpoint.
// OpenRouter and local inference servers share the wire format.
type ChatProvider struct {
	name        string
	endpointURL string
	apiKey      string
	model       string
	client      *http.Client
}

type ChatOptions struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewChatProvider(opts ChatOptions) *ChatProvider {
	name := normalizeProviderName(opts.Name)
	if name == "" {
		name = ProviderOpenRouter
	}
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultOpenRouterBaseURL
		if name == ProviderLocal {
			base = DefaultLocalBaseURL
		}
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &ChatProvider{
		name:        name,
		endpointURL: chatCompletionsURL(normalizeEndpoint(base)),
		apiKey:      strings.TrimSpace(opts.APIKey),
		model:       model,
		client:      client,
	}
}

func (p *ChatProvider) Name() string {
	return p.name
}

func (p *ChatProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *ChatProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if p == nil {
		return "", fmt.Errorf("chat provider is nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	model := p.model
	if strings.TrimSpace(req.Model) != "" {
		model = strings.TrimSpace(req.Model)
	}
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.JSON {
		payload.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	if p.name == ProviderOpenRouter {
		httpReq.Header.Set("HTTP-Referer", "https://github.com/Ducky705/Live-Pick-Scraper")
		httpReq.Header.Set("X-Title", "Pick Engine")
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload chatResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil && errPayload.Error != nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return "", fmt.Errorf("%s endpoint status %d: %s", p.name, resp.StatusCode, msg)
			}
		}
		return "", fmt.Errorf("%s endpoint status %d: %s", p.name, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s error: %s", p.name, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response missing choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion response was empty")
	}
	return content, nil
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultOpenRouterBaseURL
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.Path == "" {
		parsed.Path = "/v1"
	}
	return parsed.String()
}

func chatCompletionsURL(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultOpenRouterBaseURL + "/chat/completions"
	}
	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat/completions"):
		parsed.Path = path
	case path == "":
		parsed.Path = "/v1/chat/completions"
	default:
		parsed.Path = path + "/chat/completions"
	}
	return parsed.String()
}
