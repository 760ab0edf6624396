// Package generate drives per-subtask content generation.
package generate

import (
	"context"
	"fmt"

	"github.com/promptforge/promptforge/pkg/models"
)

// Generator produces content for one subtask from its opaque generation
// config. Implementations decide what the config means; the driver only
// passes it through and inspects success or failure.
type Generator interface {
	Generate(ctx context.Context, config any) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, config any) (string, error)

// Generate calls the wrapped function.
func (f GeneratorFunc) Generate(ctx context.Context, config any) (string, error) {
	return f(ctx, config)
}

// requestFromConfig unwraps the decomposer's generation payload.
// Generators that understand other payload types bypass this helper.
func requestFromConfig(config any) (*models.GenerationRequest, error) {
	req, ok := config.(*models.GenerationRequest)
	if !ok || req == nil {
		return nil, fmt.Errorf("unsupported generation config type %T", config)
	}
	return req, nil
}
