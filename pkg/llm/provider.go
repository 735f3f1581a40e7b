package llm

import (
	"context"
	"errors"
)

var (
	ErrNoAPIKey     = errors.New("llm: missing API key")
	ErrProviderDown = errors.New("llm: provider unavailable")
	ErrRateLimit    = errors.New("llm: rate limited")
)

// GenerationConfig is sent unchanged with every request.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.4,
		TopP:            0.9,
		TopK:            40,
		MaxOutputTokens: 1024,
	}
}

// Option allows overriding single fields of a GenerationConfig.
type Option func(*GenerationConfig)

func WithTemperature(temp float64) Option {
	return func(c *GenerationConfig) {
		c.Temperature = temp
	}
}

func WithTopP(p float64) Option {
	return func(c *GenerationConfig) {
		c.TopP = p
	}
}

func WithTopK(k int) Option {
	return func(c *GenerationConfig) {
		if k > 0 {
			c.TopK = k
		}
	}
}

func WithMaxOutputTokens(n int) Option {
	return func(c *GenerationConfig) {
		if n > 0 {
			c.MaxOutputTokens = n
		}
	}
}

func (c GenerationConfig) With(opts ...Option) GenerationConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Candidate is one alternative returned by a backend, reduced to its text parts and stop reason.
type Candidate struct {
	Parts        []string
	FinishReason string
}

// RawResponse is the backend reply before normalization. Text is nil unless the backend
// produced a single unambiguous answer string.
type RawResponse struct {
	Text        *string
	Candidates  []Candidate
	BlockReason string
}

// Backend defines the contract for any text-completion backend.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string, cfg GenerationConfig) (*RawResponse, error)
}
