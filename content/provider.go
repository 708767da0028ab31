package content

import (
	"context"
	"errors"
)

// Provider yields the current record set of an upstream system.
type Provider interface {
	Name() string
	Records(ctx context.Context) ([]Record, error)
}

// ErrNoProvider is returned by NoProvider.
var ErrNoProvider = errors.New("no provider configured")

// NoProvider stands in for an absent upstream.
type NoProvider struct{}

func (NoProvider) Name() string { return "none" }

func (NoProvider) Records(context.Context) ([]Record, error) {
	return nil, ErrNoProvider
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc struct {
	ID string
	Fn func(ctx context.Context) ([]Record, error)
}

func (p ProviderFunc) Name() string { return p.ID }

func (p ProviderFunc) Records(ctx context.Context) ([]Record, error) {
	return p.Fn(ctx)
}
