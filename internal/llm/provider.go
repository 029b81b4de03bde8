// Package llm talks to generative text models behind a small provider
// interface.
package llm

import (
	"context"
	"errors"
)

var (
	ErrProviderNotFound = errors.New("llm provider not found")
	ErrNotConfigured    = errors.New("llm provider not configured")
)

// Provider completes one prompt. Implementations do not retry; callers bound
// the call with ctx.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string // overrides the provider default when set
	Temperature float64
	// JSON asks for a JSON object response where the endpoint supports it.
	JSON bool
}
