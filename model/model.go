// Package model defines the minimal abstraction the pipeline needs from a
// text-generation backend, keeping higher layers decoupled from vendor SDKs
// and easy to fake in tests.
package model

import "context"

// Info contains metadata about a generator implementation.
type Info struct {
	Model    string
	Provider string
}

// Generator is the interface required to turn a rendered prompt into a
// completion. Calls are synchronous; implementations do not retry.
type Generator interface {
	// Generate sends one prompt and returns the full completion text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns information about the generator implementation.
	Info() Info
}
