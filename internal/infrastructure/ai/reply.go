package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// replyEnvelope is the strict schema every backend reply must satisfy.
// Pointer fields distinguish "absent" from "zero": a reply missing any of
// intent, message or actions is rejected so loosely-typed provider output
// never reaches the effect executor.
type replyEnvelope struct {
	Intent  *string       `json:"intent"`
	Message *string       `json:"message"`
	Actions *[]replyCall  `json:"actions"`
}

type replyCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// parseReply validates the generated text into the provider response
// envelope. The text may be raw JSON or a fenced code block around it.
func parseReply(content string) (ports.ProviderResponse, error) {
	payload := stripCodeFence(content)

	var envelope replyEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("reply is not valid JSON: %w", err)
	}
	if envelope.Intent == nil || envelope.Message == nil || envelope.Actions == nil {
		return ports.ProviderResponse{}, fmt.Errorf("reply missing required fields (intent/message/actions)")
	}

	actions := make([]domain.ToolCall, 0, len(*envelope.Actions))
	for _, call := range *envelope.Actions {
		if call.Name == "" {
			return ports.ProviderResponse{}, fmt.Errorf("reply action missing tool name")
		}
		args := call.Args
		if args == nil {
			args = map[string]any{}
		}
		actions = append(actions, domain.ToolCall{Name: call.Name, Args: args})
	}

	return ports.ProviderResponse{
		Intent:  *envelope.Intent,
		Message: *envelope.Message,
		Actions: actions,
	}, nil
}

// stripCodeFence unwraps the first ``` block if present.
func stripCodeFence(content string) string {
	if !strings.Contains(content, "```") {
		return strings.TrimSpace(content)
	}

	start := strings.Index(content, "```")
	suffix := content[start+3:]
	end := strings.Index(suffix, "```")
	if end == -1 {
		return strings.TrimSpace(content)
	}

	block := suffix[:end]
	if idx := strings.Index(block, "\n"); idx != -1 && strings.HasPrefix(strings.TrimSpace(block[:idx]), "json") {
		block = block[idx+1:]
	}
	return strings.TrimSpace(block)
}
