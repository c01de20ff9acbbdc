package services

import (
	"context"
	"strings"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// Tier is one stage in the ordered fallback chain. A tier signals "miss"
// (no intent recognized, fall through) via ResultMiss; an error counts as a
// miss after classification. Tiers are tried strictly in sequence, never
// raced: a slow provider delays the chain, it does not skip it.
type Tier interface {
	Name() string
	Interpret(ctx context.Context, text, locale string) (domain.InterpretResult, error)
}

// InterpreterService is the tier router. It orchestrates the fallback order
// and normalizes every tier's result into the one envelope the UI consumes.
// It has no side effects of its own; it only aggregates.
type InterpreterService struct {
	Rules    *RuleParser
	Fallback []Tier
	Logger   ports.Logger
}

// InterpretWithFallback turns free text into an AIResponse.
//
// The deterministic parser runs first and short-circuits on success. A
// deterministic Failure means the parser owns the intent: it converts
// directly to a clarification and never escalates to generative tiers.
// Only a Miss walks the fallback chain.
func (s *InterpreterService) InterpretWithFallback(ctx context.Context, text, locale string) domain.AIResponse {
	result, err := s.Rules.Interpret(ctx, text, locale)
	if err == nil {
		if resp, done := s.wrap(result, text); done {
			return resp
		}
	}

	for _, tier := range s.Fallback {
		result, err := tier.Interpret(ctx, text, locale)
		if err != nil {
			s.Logger.Warn("tier failed", map[string]interface{}{
				"tier": tier.Name(), "reason": classifyProviderError(err),
			})
			continue
		}
		if resp, done := s.wrap(result, text); done {
			return resp
		}
	}

	return s.exhausted(text)
}

// wrap converts a tier result into an envelope; done=false means Miss.
func (s *InterpreterService) wrap(result domain.InterpretResult, text string) (domain.AIResponse, bool) {
	switch result.Kind {
	case domain.ResultSuccess:
		return domain.SuccessResponse(result.Message, result.ToolCalls), true
	case domain.ResultConfirm:
		return domain.ConfirmationResponse(result.Message, result.Confirm), true
	case domain.ResultFailure:
		return domain.ClarificationResponse(result.Reason, suggestionsFor(text)...), true
	default:
		return domain.AIResponse{}, false
	}
}

// exhausted classifies why every tier missed: a recognizable action keyword
// with insufficient object context gets a tailored clarification, anything
// else a generic one.
func (s *InterpreterService) exhausted(text string) domain.AIResponse {
	t := domain.Normalize(text)
	switch {
	case hasAny(t, "create", "add", "draw", "insert", "new"):
		return domain.ClarificationResponse(
			"What would you like to create?",
			"create a red circle", "create a 3x3 grid of rectangles", "create a login form",
		)
	case hasAny(t, "move", "resize", "rotate", "turn", "bigger", "smaller"):
		return domain.ClarificationResponse(
			"Which shape should I change?",
			"rotate the blue rectangle 45 degrees", "move the circle to the center", "make the rectangle twice as big",
		)
	case hasAny(t, "delete", "remove", "erase", "clear"):
		return domain.ClarificationResponse(
			"What should I delete?",
			"delete the circle", "delete all rectangles",
		)
	}
	return domain.ClarificationResponse(
		"I didn't understand that. Try one of these:",
		"create a red circle", "rotate the rectangle 45 degrees", "move the circle to the center", "create a login form",
	)
}

// suggestionsFor picks 2-5 example follow-up commands for a clarification,
// keyed on the intent family mentioned in the original text.
func suggestionsFor(text string) []string {
	t := domain.Normalize(text)
	switch {
	case hasAny(t, "rotate", "turn", "spin"):
		return []string{"rotate the rectangle 45 degrees", "rotate the circle clockwise"}
	case hasAny(t, "move", "put", "place", "center"):
		return []string{"move the circle to the center", "move the rectangle right 100"}
	case hasAny(t, "resize", "bigger", "smaller", "twice", "half"):
		return []string{"make the rectangle twice as big", "resize the circle to 300x300"}
	case hasAny(t, "delete", "remove", "erase"):
		return []string{"delete the circle", "delete all rectangles"}
	case hasAny(t, "color", "colour", "paint", "fill"):
		return []string{"make the circle blue", "change the rectangle color to red"}
	}
	return []string{"create a red circle", "rotate the rectangle 45 degrees", "select the largest shape"}
}

// classifyProviderError maps transport/auth/quota/malformed-reply failures
// to a short operator-facing hint. It drives fallback logging only and is
// never shown to the end user verbatim.
func classifyProviderError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"), strings.Contains(msg, "api key"), strings.Contains(msg, "unauthorized"):
		return "authentication"
	case strings.Contains(msg, "429"), strings.Contains(msg, "quota"), strings.Contains(msg, "rate"):
		return "rate limited"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "missing"), strings.Contains(msg, "unknown tool"), strings.Contains(msg, "invalid"):
		return "malformed reply"
	case strings.Contains(msg, "circuit breaker"):
		return "breaker open"
	}
	return "unavailable"
}
