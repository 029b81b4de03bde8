package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatCompletionsURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://openrouter.ai/api/v1":              "https://openrouter.ai/api/v1/chat/completions",
		"http://127.0.0.1:8845":                     "http://127.0.0.1:8845/v1/chat/completions",
		"127.0.0.1:8845/v1/":                        "http://127.0.0.1:8845/v1/chat/completions",
		"http://localhost:1234/v1/chat/completions": "http://localhost:1234/v1/chat/completions",
	}
	for in, want := range cases {
		if got := chatCompletionsURL(normalizeEndpoint(in)); got != want {
			t.Fatalf("chatCompletionsURL(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestChatProviderComplete(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	var auth, title string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		title = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  [{\"raw_pick_id\":1}]  "}}]}`))
	}))
	defer server.Close()

	provider := NewChatProvider(ChatOptions{Name: "openrouter", BaseURL: server.URL, APIKey: "secret", Model: "test/model"})
	out, err := provider.Complete(context.Background(), CompletionRequest{
		System: "extract picks",
		Prompt: "Lakers -5",
		JSON:   true,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `[{"raw_pick_id":1}]` {
		t.Fatalf("unexpected content %q", out)
	}
	if auth != "Bearer secret" || title == "" {
		t.Fatalf("unexpected headers auth=%q title=%q", auth, title)
	}
	if captured.Model != "test/model" || captured.Temperature != 0 {
		t.Fatalf("unexpected request model=%q temperature=%v", captured.Model, captured.Temperature)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("expected system and user messages, got %+v", captured.Messages)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json response format")
	}
}

func TestChatProviderErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	provider := NewChatProvider(ChatOptions{Name: "local", BaseURL: server.URL})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestChatProviderHonoursContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := NewChatProvider(ChatOptions{Name: "local", BaseURL: server.URL})
	if _, err := provider.Complete(ctx, CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatalf("expected cancelled context to fail the call")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := NewRegistryFromSettings("local", "http://127.0.0.1:9", "", "")
	provider, err := registry.Provider("")
	if err != nil {
		t.Fatalf("default provider: %v", err)
	}
	if provider.Name() != "local" {
		t.Fatalf("unexpected provider %q", provider.Name())
	}
	if _, err := registry.Provider("openrouter"); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}

	none := NewRegistryFromSettings("none", "", "", "")
	if _, err := none.Provider(""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if names := none.Names(); len(names) != 0 {
		t.Fatalf("expected empty registry, got %v", names)
	}
}
