// Package provider abstracts the optional language-model backends used
// to polish designed responses. The pipeline itself never depends on a
// live model: every provider failure falls back to the deterministic
// template output.
package provider

import (
	"context"
	"errors"
)

// Provider is the completion interface every backend implements.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend in logs and metadata.
	Name() string
}

// ErrNotConfigured is returned by constructors when required
// credentials are missing.
var ErrNotConfigured = errors.New("provider: not configured")
