package mocks

import (
	"context"
	"stayfinder/infras/otel"
)

// Otel hands out a fresh Scope per span and exports nothing.
type Otel struct{}

func (Otel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (Otel) Shutdown(context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return Otel{}
}
