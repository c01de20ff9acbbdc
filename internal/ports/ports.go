// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the interpretation engine and
// external collaborators (infrastructure). Following the Ports and Adapters
// pattern, these interfaces keep the engine independent of the concrete shape
// store, realtime channel, durable storage and generative providers, so the
// whole pipeline is testable against in-memory stubs.
package ports

import (
	"context"

	"github.com/inkboard/inkboard/internal/domain"
)

// ShapeStore holds canvas shapes keyed by id, the selection state and a
// bounded undo history stack. The engine never mutates shapes except through
// the effect executor, which funnels every change through this port.
//
// All must return shapes in stable store-iteration order (insertion order);
// the target resolver's type/color hint matching depends on it.
type ShapeStore interface {
	All() []domain.Shape
	Get(id string) (domain.Shape, bool)
	Upsert(shape domain.Shape)
	Remove(id string)
	Replace(shapes []domain.Shape)

	Selection() []string
	Select(ids []string)

	PushHistory(snapshot []domain.Shape)
	PopHistory() ([]domain.Shape, bool)
}

// Broadcaster fans shape changes out to connected peers over the realtime
// channel. Sends are fire-and-forget from the engine's perspective: errors
// are logged by the caller, never propagated into command control flow.
type Broadcaster interface {
	Send(event string, payload any) error
}

// Persister writes shape changes to durable storage and hydrates the store
// at boot. Like Broadcaster, persistence failures never fail a command.
type Persister interface {
	UpsertShapes(ctx context.Context, shapes []domain.Shape) error
	DeleteShape(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]domain.Shape, error)
	Close() error
}

// ProviderFactory builds generative backend instances from model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider is one generative backend: it receives the tool manifest, a canvas
// summary and the user text, and returns either validated tool calls or a
// clarification message. Transport, auth and malformed-reply problems surface
// as errors so the router can fall through to the next tier.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest carries everything a backend needs to interpret a command.
type ProviderRequest struct {
	Text   string
	Locale string
	Shapes []domain.Shape
}

// ProviderResponse is the strict envelope every backend reply is validated
// into. Intent "clarify" (or an empty action list) means the model could not
// produce tool calls and Message should be surfaced as a clarification.
type ProviderResponse struct {
	Intent  string
	Message string
	Actions []domain.ToolCall
}

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.inkboard/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Logger provides structured logging abstraction for the engine.
// Implementations can route to different backends (stdout, files, external
// services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
