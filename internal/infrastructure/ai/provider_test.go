package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

func TestBuildRequestBodyChatCompletionDefaults(t *testing.T) {
	p := newHTTPProvider(domain.ModelDefinition{ModelID: "gpt-4o", MaxTokens: 512}, nil)
	raw, err := p.buildRequestBody("system prompt", "user text")
	if err != nil {
		t.Fatalf("buildRequestBody() error = %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if _, hasSystem := body["system"]; hasSystem {
		t.Fatal("inline mode must not emit a top-level system field")
	}
	messages := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %v, want system + user", messages)
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "system prompt" {
		t.Fatalf("first message = %v", first)
	}
	second := messages[1].(map[string]any)
	if _, isString := second["content"].(string); !isString {
		t.Fatal("standard wrapper must use plain string content")
	}
}

func TestBuildRequestBodyAnthropicFormat(t *testing.T) {
	p := newHTTPProvider(domain.ModelDefinition{
		ModelID:   "claude-sonnet-4-5",
		MaxTokens: 1024,
		APIFormat: domain.APIFormat{
			SystemMessageMode: domain.SystemMessageModeSeparate,
			ContentWrapper:    domain.ContentWrapperAnthropic,
		},
	}, nil)
	raw, err := p.buildRequestBody("system prompt", "user text")
	if err != nil {
		t.Fatalf("buildRequestBody() error = %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body["system"] != "system prompt" {
		t.Fatalf("system field = %v", body["system"])
	}
	messages := body["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("messages = %v, want only the user turn", messages)
	}
	content := messages[0].(map[string]any)["content"].([]any)
	block := content[0].(map[string]any)
	if block["type"] != "text" || block["text"] != "user text" {
		t.Fatalf("content block = %v", block)
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	var gotAuth, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		reply := `{"intent":"create","message":"ok","actions":[]}`
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": reply}},
		})
	}))
	defer server.Close()

	t.Setenv("TEST_PROVIDER_KEY", "secret")
	p := newHTTPProvider(domain.ModelDefinition{
		Name:       "claude",
		Endpoint:   server.URL,
		AuthEnvVar: "TEST_PROVIDER_KEY",
		ModelID:    "claude-sonnet-4-5",
		APIFormat: domain.APIFormat{
			AuthHeaderName:   "x-api-key",
			ResponseJSONPath: "content[0].text",
			ExtraHeaders:     map[string]string{"anthropic-version": "2023-06-01"},
		},
	}, server.Client())

	resp, err := p.Generate(context.Background(), ports.ProviderRequest{Text: "hello", Locale: "en"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Intent != "create" || resp.Message != "ok" {
		t.Fatalf("got %+v", resp)
	}
	if gotAuth != "secret" {
		t.Fatalf("auth header = %q, want bare key", gotAuth)
	}
	if gotVersion != "2023-06-01" {
		t.Fatalf("extra header = %q", gotVersion)
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	t.Setenv("TEST_EMPTY_KEY", "")
	p := newHTTPProvider(domain.ModelDefinition{
		Endpoint:   "http://127.0.0.1:0",
		AuthEnvVar: "TEST_EMPTY_KEY",
	}, http.DefaultClient)

	if _, err := p.Generate(context.Background(), ports.ProviderRequest{Text: "hello"}); err == nil {
		t.Fatal("missing API key must error")
	}
}

func TestGenerateHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	t.Setenv("TEST_PROVIDER_KEY", "secret")
	p := newHTTPProvider(domain.ModelDefinition{
		Endpoint:   server.URL,
		AuthEnvVar: "TEST_PROVIDER_KEY",
	}, server.Client())

	if _, err := p.Generate(context.Background(), ports.ProviderRequest{Text: "hello"}); err == nil {
		t.Fatal("HTTP 429 must surface as an error")
	}
}
