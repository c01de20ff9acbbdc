package ai

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

const httpClientTimeout = 60 * time.Second

// Factory creates generative backend instances from model definitions.
// It maintains one HTTP client shared across providers, plus a circuit
// breaker and rate limiter per model: an open breaker makes a failing
// backend miss instantly so the router's fallback chain stays responsive.
type Factory struct {
	httpClient *http.Client

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[ports.ProviderResponse]
	limiters map[string]*rate.Limiter
}

// NewFactory creates a provider factory with a configured HTTP client.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		breakers:   make(map[string]*gobreaker.CircuitBreaker[ports.ProviderResponse]),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// ForModel builds a guarded HTTP provider for any model definition.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	breaker, ok := f.breakers[model.Name]
	if !ok {
		breaker = gobreaker.NewCircuitBreaker[ports.ProviderResponse](gobreaker.Settings{
			Name:    model.Name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
		f.breakers[model.Name] = breaker
	}

	limiter, ok := f.limiters[model.Name]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(2), 4)
		f.limiters[model.Name] = limiter
	}

	return &guardedProvider{
		inner:   newHTTPProvider(model, f.httpClient),
		breaker: breaker,
		limiter: limiter,
	}, nil
}

var _ ports.ProviderFactory = (*Factory)(nil)

// guardedProvider wraps a provider with its breaker and limiter.
type guardedProvider struct {
	inner   *httpProvider
	breaker *gobreaker.CircuitBreaker[ports.ProviderResponse]
	limiter *rate.Limiter
}

func (g *guardedProvider) Name() string {
	return g.inner.Name()
}

func (g *guardedProvider) Model() domain.ModelDefinition {
	return g.inner.Model()
}

func (g *guardedProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return ports.ProviderResponse{}, err
	}
	return g.breaker.Execute(func() (ports.ProviderResponse, error) {
		return g.inner.Generate(ctx, req)
	})
}
