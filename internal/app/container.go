// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"fmt"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/infrastructure/ai"
	"github.com/inkboard/inkboard/internal/infrastructure/config"
	"github.com/inkboard/inkboard/internal/infrastructure/persist"
	"github.com/inkboard/inkboard/internal/infrastructure/realtime"
	"github.com/inkboard/inkboard/internal/infrastructure/store"
	"github.com/inkboard/inkboard/internal/pkg/logger"
	"github.com/inkboard/inkboard/internal/ports"
	"github.com/inkboard/inkboard/internal/services"
)

// Container wires up the interpretation pipeline with its adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Interpreter  *services.InterpreterService
	Toolbox      *services.Toolbox
	Store        ports.ShapeStore
	Hub          *realtime.Hub
	Persister    ports.Persister
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. The durable store is
// loaded into the in-memory store before any command runs, so a restarted
// server resumes the board where peers left it.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	hub := realtime.NewHub(log)

	persister, err := persist.NewSQLiteStore(cfg.Persistence.Path)
	if err != nil {
		return nil, fmt.Errorf("open persistence: %w", err)
	}

	shapeStore := store.NewMemoryStore(cfg.Canvas.HistoryDepth)
	if shapes, err := persister.LoadAll(ctx); err != nil {
		log.Warn("hydrate from persistence failed", map[string]interface{}{"error": err.Error()})
	} else if len(shapes) > 0 {
		shapeStore.Replace(shapes)
		log.Info("board hydrated", map[string]interface{}{"shapes": len(shapes)})
	}

	tools := services.NewToolbox(shapeStore, hub, persister, log, "assistant", cfg.Canvas)

	fallback := make([]services.Tier, 0, 4)
	factory := ai.NewFactory()
	for _, model := range cfg.FallbackChain() {
		provider, err := factory.ForModel(model)
		if err != nil {
			log.Warn("skipping model", map[string]interface{}{"model": model.Name, "error": err.Error()})
			continue
		}
		fallback = append(fallback, services.NewProviderTier(provider, shapeStore, tools))
	}
	fallback = append(fallback, services.NewLegacyParser(shapeStore, tools))

	interpreter := &services.InterpreterService{
		Rules:    services.NewRuleParser(shapeStore, tools),
		Fallback: fallback,
		Logger:   log,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Interpreter:  interpreter,
		Toolbox:      tools,
		Store:        shapeStore,
		Hub:          hub,
		Persister:    persister,
		Logger:       log,
	}, nil
}

// Close releases container resources.
func (c *Container) Close() error {
	c.Hub.Close()
	return c.Persister.Close()
}
