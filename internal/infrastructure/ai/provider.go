// Package ai provides the generative backend adapters.
//
// A single configuration-driven HTTP provider covers every backend: all
// provider-specific behavior (auth header shape, system message placement,
// content wrapping, response JSON path) is controlled through the model's
// APIFormat configuration, so the two shipped backends are interchangeable
// without separate implementations.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

type httpProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newHTTPProvider(model domain.ModelDefinition, client *http.Client) *httpProvider {
	return &httpProvider{model: model, httpClient: client}
}

func (p *httpProvider) Name() string {
	return p.model.Name
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *httpProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	systemPrompt, err := buildSystemPrompt(req.Locale, req.Shapes)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("build prompt: %w", err)
	}

	requestBody, err := p.buildRequestBody(systemPrompt, req.Text)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("build request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.model.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if err := p.setAuthHeaders(httpReq); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("set auth headers: %w", err)
	}
	for key, value := range p.model.APIFormat.ExtraHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("read response body: %w", err)
	}

	content, err := p.extractContent(responseBody.Bytes())
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("parse response: %w", err)
	}

	return parseReply(content)
}

// buildRequestBody constructs the JSON request body based on the model's
// APIFormat configuration.
func (p *httpProvider) buildRequestBody(systemPrompt, userText string) ([]byte, error) {
	format := p.model.APIFormat

	request := map[string]interface{}{
		"model": p.model.ModelID,
	}
	if p.model.MaxTokens > 0 {
		request["max_tokens"] = p.model.MaxTokens
	}

	userMessage := map[string]interface{}{"role": "user"}
	if format.IsContentWrapped() {
		userMessage["content"] = []map[string]string{{"type": "text", "text": userText}}
	} else {
		userMessage["content"] = userText
	}

	if format.IsSystemMessageSeparate() {
		request["system"] = systemPrompt
		request["messages"] = []map[string]interface{}{userMessage}
	} else {
		request["messages"] = []map[string]interface{}{
			{"role": "system", "content": systemPrompt},
			userMessage,
		}
	}

	return json.Marshal(request)
}

func (p *httpProvider) setAuthHeaders(req *http.Request) error {
	format := p.model.APIFormat
	apiKey := ""
	if p.model.AuthEnvVar != "" {
		apiKey = os.Getenv(p.model.AuthEnvVar)
	}
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s environment variable", p.model.AuthEnvVar)
	}
	req.Header.Set(format.GetAuthHeaderName(), format.GetAuthHeaderPrefix()+apiKey)
	return nil
}

// extractContent pulls the generated text out of the provider reply using
// the configured JSON path.
func (p *httpProvider) extractContent(body []byte) (string, error) {
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal JSON: %w", err)
	}

	path := p.model.APIFormat.GetResponseJSONPath()
	content, err := extractJSONPath(response, path)
	if err != nil {
		return "", fmt.Errorf("extract from path '%s': %w", path, err)
	}
	return strings.TrimSpace(content), nil
}

// extractJSONPath extracts a string value from a nested JSON structure using
// a simple path notation: "field", "field.nested", "field[0].nested".
func extractJSONPath(data map[string]interface{}, path string) (string, error) {
	parts := parseJSONPath(path)
	var current interface{} = data

	for _, part := range parts {
		switch part.kind {
		case "field":
			obj, ok := current.(map[string]interface{})
			if !ok {
				return "", fmt.Errorf("expected object at '%s'", part.value)
			}
			var found bool
			current, found = obj[part.value]
			if !found {
				return "", fmt.Errorf("field '%s' not found", part.value)
			}

		case "index":
			arr, ok := current.([]interface{})
			if !ok {
				return "", fmt.Errorf("expected array at index %s", part.value)
			}
			var idx int
			fmt.Sscanf(part.value, "%d", &idx)
			if idx < 0 || idx >= len(arr) {
				return "", fmt.Errorf("index %d out of bounds (len=%d)", idx, len(arr))
			}
			current = arr[idx]
		}
	}

	if str, ok := current.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("final value is not a string: %T", current)
}

type pathPart struct {
	kind  string // "field" or "index"
	value string
}

func parseJSONPath(path string) []pathPart {
	var parts []pathPart
	current := ""

	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch ch {
		case '.':
			if current != "" {
				parts = append(parts, pathPart{kind: "field", value: current})
				current = ""
			}
		case '[':
			if current != "" {
				parts = append(parts, pathPart{kind: "field", value: current})
				current = ""
			}
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				parts = append(parts, pathPart{kind: "index", value: path[i+1 : j]})
				i = j
			}
		default:
			current += string(ch)
		}
	}

	if current != "" {
		parts = append(parts, pathPart{kind: "field", value: current})
	}
	return parts
}
