// Package llm defines the narrow generative-service boundary the pipeline
// depends on, plus the Gemini-backed implementation.
package llm

import (
	"context"
	"errors"
)

// ErrNoCredentials means no API key was supplied or found in the
// environment. It is a configuration error: fatal, surfaced immediately,
// never retried.
var ErrNoCredentials = errors.New("no generative service credentials configured (set GEMINI_API_KEY)")

// Generator produces one completion for one prompt. This is the pipeline's
// only non-deterministic collaborator; tests substitute a scripted
// implementation. Implementations own their timeout/retry policy; the
// pipeline imposes none and never re-invokes a call on its own.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
