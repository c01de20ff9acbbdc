package services

import (
	"context"
	"errors"
	"testing"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// stubProvider replays a scripted backend reply.
type stubProvider struct {
	reply   ports.ProviderResponse
	err     error
	lastReq ports.ProviderRequest
}

func (s *stubProvider) Name() string                  { return "stub-model" }
func (s *stubProvider) Model() domain.ModelDefinition { return domain.ModelDefinition{Name: "stub-model"} }

func (s *stubProvider) Generate(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	s.lastReq = req
	return s.reply, s.err
}

func TestProviderTierExecutesValidActions(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	provider := &stubProvider{reply: ports.ProviderResponse{
		Intent:  "create",
		Message: "Created a circle for you",
		Actions: []domain.ToolCall{{Name: domain.ToolCreateShape, Args: map[string]any{
			"type": "circle", "x": 100.0, "y": 100.0, "w": 140.0, "h": 140.0,
		}}},
	}}
	tier := NewProviderTier(provider, mem, tools)

	result, err := tier.Interpret(context.Background(), "draw me a circle", "en")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if result.Kind != domain.ResultSuccess || result.Message != "Created a circle for you" {
		t.Fatalf("got %+v", result)
	}
	if got := len(mem.All()); got != 1 {
		t.Fatalf("%d shapes, want 1", got)
	}
}

func TestProviderTierSendsCanvasSnapshot(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	seedShape(mem, domain.Shape{ID: "s", Type: domain.ShapeCircle})
	provider := &stubProvider{reply: ports.ProviderResponse{Intent: "clarify", Message: "say more"}}
	tier := NewProviderTier(provider, mem, tools)

	tier.Interpret(context.Background(), "do the thing", "de")
	if len(provider.lastReq.Shapes) != 1 || provider.lastReq.Locale != "de" {
		t.Fatalf("request = %+v, want canvas snapshot and locale", provider.lastReq)
	}
}

func TestProviderTierClarifyBecomesFailure(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	provider := &stubProvider{reply: ports.ProviderResponse{Intent: "clarify", Message: "which shape?"}}
	tier := NewProviderTier(provider, mem, tools)

	result, err := tier.Interpret(context.Background(), "do the thing", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != domain.ResultFailure || result.Reason != "which shape?" {
		t.Fatalf("got %+v", result)
	}
}

func TestProviderTierEmptyActionsNoMessageMisses(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	provider := &stubProvider{reply: ports.ProviderResponse{Intent: "noop"}}
	tier := NewProviderTier(provider, mem, tools)

	result, err := tier.Interpret(context.Background(), "do the thing", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Kind != domain.ResultMiss {
		t.Fatalf("got %+v", result)
	}
}

func TestProviderTierTransportErrorSurfaces(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	provider := &stubProvider{err: errors.New("HTTP 503: Service Unavailable")}
	tier := NewProviderTier(provider, mem, tools)

	result, err := tier.Interpret(context.Background(), "do the thing", "en")
	if err == nil {
		t.Fatal("transport error must surface to the router")
	}
	if result.Kind != domain.ResultMiss {
		t.Fatalf("got %+v", result)
	}
}

func TestProviderTierInvalidActionRejectsWholeReply(t *testing.T) {
	tools, mem, _, _ := newTestToolbox(t)
	provider := &stubProvider{reply: ports.ProviderResponse{
		Intent:  "create",
		Message: "done",
		Actions: []domain.ToolCall{
			{Name: domain.ToolCreateShape, Args: map[string]any{"type": "circle", "x": 0.0, "y": 0.0, "w": 10.0, "h": 10.0}},
			{Name: "explodeShape", Args: map[string]any{}},
		},
	}}
	tier := NewProviderTier(provider, mem, tools)

	_, err := tier.Interpret(context.Background(), "do the thing", "en")
	if err == nil {
		t.Fatal("invalid action must fail validation")
	}
	if got := len(mem.All()); got != 0 {
		t.Fatalf("%d shapes created despite invalid batch, want 0", got)
	}
}
