package domain

import "fmt"

// ResultKind tags the interpretation result union.
type ResultKind int

const (
	// ResultMiss means no rule or intent matched; the router should fall
	// through to the next tier. A miss is expected and never treated as
	// an error.
	ResultMiss ResultKind = iota
	// ResultSuccess carries the tool calls that were executed.
	ResultSuccess
	// ResultFailure means an intent matched but could not execute,
	// e.g. no resolvable target.
	ResultFailure
	// ResultConfirm means a destructive bulk intent matched and must not
	// run eagerly; Confirm holds the deferred action.
	ResultConfirm
)

// InterpretResult is the tagged union every tier produces.
type InterpretResult struct {
	Kind      ResultKind
	ToolCalls []ToolCall
	Message   string
	Reason    string
	Confirm   ConfirmFunc
}

// Missed signals that no intent was recognized.
func Missed() InterpretResult {
	return InterpretResult{Kind: ResultMiss}
}

// Succeed wraps executed tool calls with a confirmation message.
func Succeed(message string, calls ...ToolCall) InterpretResult {
	return InterpretResult{Kind: ResultSuccess, Message: message, ToolCalls: calls}
}

// Failf records an intent that was recognized but could not be carried out.
func Failf(format string, args ...any) InterpretResult {
	return InterpretResult{Kind: ResultFailure, Reason: fmt.Sprintf(format, args...)}
}

// NeedsConfirm defers a destructive bulk operation behind an explicit
// second call.
func NeedsConfirm(message string, confirm ConfirmFunc) InterpretResult {
	return InterpretResult{Kind: ResultConfirm, Message: message, Confirm: confirm}
}

// ResponseType classifies the UI-facing envelope.
type ResponseType string

const (
	ResponseSuccess       ResponseType = "success"
	ResponseClarification ResponseType = "clarification_needed"
	ResponseConfirmation  ResponseType = "confirmation_required"
	ResponseError         ResponseType = "error"
)

// ConfirmFunc is a deferred destructive action. Invoking it performs the
// operation and returns the resulting envelope.
type ConfirmFunc func() AIResponse

// AIResponse is the only shape the UI ever consumes. It erases which tier
// produced the result.
type AIResponse struct {
	Type        ResponseType `json:"type"`
	Message     string       `json:"message"`
	Result      []ToolCall   `json:"result,omitempty"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Confirm     ConfirmFunc  `json:"-"`
}

// SuccessResponse wraps executed tool calls.
func SuccessResponse(message string, calls []ToolCall) AIResponse {
	return AIResponse{Type: ResponseSuccess, Message: message, Result: calls}
}

// ClarificationResponse asks the user to rephrase, with example follow-ups.
func ClarificationResponse(message string, suggestions ...string) AIResponse {
	return AIResponse{Type: ResponseClarification, Message: message, Suggestions: suggestions}
}

// ConfirmationResponse defers a destructive action behind an explicit
// second call.
func ConfirmationResponse(message string, confirm ConfirmFunc) AIResponse {
	return AIResponse{Type: ResponseConfirmation, Message: message, Confirm: confirm}
}

// ErrorResponse reports a non-recoverable interpretation error.
func ErrorResponse(message string) AIResponse {
	return AIResponse{Type: ResponseError, Message: message}
}
