package services

import (
	"context"
	"fmt"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// ProviderTier adapts one generative backend into the fallback chain. It
// sends the canvas snapshot with the user text, validates the structured
// reply and executes the resulting tool calls through the same contract as
// the deterministic tiers.
type ProviderTier struct {
	Provider ports.Provider
	Store    ports.ShapeStore
	Tools    *Toolbox
}

// NewProviderTier wraps a provider for the router.
func NewProviderTier(provider ports.Provider, store ports.ShapeStore, tools *Toolbox) *ProviderTier {
	return &ProviderTier{Provider: provider, Store: store, Tools: tools}
}

func (t *ProviderTier) Name() string {
	return t.Provider.Name()
}

// Interpret asks the backend for tool calls. Transport and validation
// problems surface as errors so the router falls through to the next tier.
func (t *ProviderTier) Interpret(ctx context.Context, text, locale string) (domain.InterpretResult, error) {
	reply, err := t.Provider.Generate(ctx, ports.ProviderRequest{
		Text:   text,
		Locale: locale,
		Shapes: t.Store.All(),
	})
	if err != nil {
		return domain.Missed(), err
	}

	if reply.Intent == "clarify" || len(reply.Actions) == 0 {
		if reply.Message == "" {
			return domain.Missed(), nil
		}
		return domain.Failf("%s", reply.Message), nil
	}

	for _, call := range reply.Actions {
		if err := domain.ValidateToolCall(call); err != nil {
			return domain.Missed(), fmt.Errorf("invalid action from %s: %w", t.Provider.Name(), err)
		}
	}

	if err := t.Tools.Execute(ctx, reply.Actions); err != nil {
		return domain.Missed(), fmt.Errorf("apply actions from %s: %w", t.Provider.Name(), err)
	}

	message := reply.Message
	if message == "" {
		message = "Done."
	}
	return domain.Succeed(message, reply.Actions...), nil
}
