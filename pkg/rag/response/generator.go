package response

import (
	"context"
	"errors"
	"strings"
	"time"

	"soros-rag-be/internal/pkg/logger"
	"soros-rag-be/pkg/llm"
)

// ErrEmptyPrompt is a caller bug: the pipeline short-circuits blank questions before composing.
var ErrEmptyPrompt = errors.New("prompt is empty")

const (
	msgTimeout     = "The language model did not respond in time. Please try again in a moment."
	msgCancelled   = "The request was cancelled before the language model finished answering."
	msgRateLimited = "The language model is receiving too many requests right now. Please try again shortly."
	msgUnavailable = "The language model is currently unavailable. Please try again later."
)

const defaultTimeout = 60 * time.Second

// Generator sends a finished prompt to a backend and always hands back text.
type Generator struct {
	backend llm.Backend
	config  llm.GenerationConfig
	timeout time.Duration
	logger  logger.ILogger
}

type Option func(*Generator)

func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func NewGenerator(backend llm.Backend, cfg llm.GenerationConfig, log logger.ILogger, opts ...Option) *Generator {
	g := &Generator{
		backend: backend,
		config:  cfg,
		timeout: defaultTimeout,
		logger:  log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the normalized answer. The only error is ErrEmptyPrompt;
// transport failures and timeouts come back as explanatory text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.backend.Complete(callCtx, strings.TrimSpace(prompt), g.config)
	if err != nil {
		msg := g.failureMessage(ctx, callCtx, err)
		g.logger.Error("GENERATION", "Backend call failed", map[string]interface{}{
			"backend":     g.backend.Name(),
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return msg, nil
	}

	normalized := Normalize(raw)
	if refused, ok := normalized.(Refused); ok {
		g.logger.Warn("GENERATION", "Backend returned no text", map[string]interface{}{
			"backend": g.backend.Name(),
			"reasons": refused.Reasons,
		})
	} else {
		g.logger.Info("GENERATION", "Answer generated", map[string]interface{}{
			"backend":     g.backend.Name(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}

	return Render(normalized), nil
}

func (g *Generator) failureMessage(parent, call context.Context, err error) string {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return msgCancelled
	case errors.Is(call.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, llm.ErrRateLimit):
		return msgRateLimited
	default:
		return msgUnavailable
	}
}
