package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func anthropicTestServer(t *testing.T, handler http.HandlerFunc) (*AnthropicProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewAnthropicProvider failed: %v", err)
	}
	return provider, srv
}

func TestAnthropic_RequiresAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Error("Expected an error without an API key")
	}
}

func TestAnthropic_Generate(t *testing.T) {
	provider, _ := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Missing anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if req.System != "system text" || len(req.Messages) != 1 || req.Messages[0].Content != "prompt text" {
			t.Errorf("Request not forwarded faithfully: %+v", req)
		}

		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant",
			"content":[{"type":"text","text":"  the reply  "}],
			"model":"claude-3-5-haiku-20241022","stop_reason":"end_turn",
			"usage":{"input_tokens":42,"output_tokens":7}}`)
	})

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Model:  "claude-3-5-haiku-20241022",
		System: "system text",
		Prompt: "prompt text",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text != "the reply" {
		t.Errorf("Expected trimmed reply, got %q", resp.Text)
	}
	if resp.InputTokens != 42 || resp.OutputTokens != 7 {
		t.Errorf("Token accounting wrong: in=%d out=%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestAnthropic_APIError(t *testing.T) {
	provider, _ := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	})

	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Error("Expected an error from a non-200 response")
	}
}

func TestAnthropic_EmptyContent(t *testing.T) {
	provider, _ := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"msg_1","content":[],"model":"claude-3-5-haiku-20241022","usage":{"input_tokens":1,"output_tokens":0}}`)
	})

	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Error("Expected an error for an empty content array")
	}
}

func TestOllama_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		fmt.Fprint(w, `{"model":"llama3.1:8b","response":"local reply","done":true,"prompt_eval_count":10,"eval_count":5}`)
	}))
	defer srv.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: srv.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.Text != "local reply" {
		t.Errorf("Got %q", resp.Text)
	}
	if resp.InputTokens != 10 || resp.OutputTokens != 5 {
		t.Errorf("Token accounting wrong: in=%d out=%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestOllama_EstimatesMissingTokenCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"llama3.1:8b","response":"a reply of some length here","done":true}`)
	}))
	defer srv.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: srv.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "a prompt that is long enough to estimate"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp.InputTokens == 0 || resp.OutputTokens == 0 {
		t.Errorf("Expected estimated token counts, got in=%d out=%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestOllama_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Error("Expected an error when no model is configured")
	}
}

func TestOllama_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			fmt.Fprint(w, `{"models":[]}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: srv.URL, Model: "llama3.1:8b"})
	if err != nil {
		t.Fatal(err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected the provider to report available")
	}
}
