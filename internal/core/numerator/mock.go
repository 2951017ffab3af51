package numerator

import (
	"context"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextFunc    func(ctx context.Context, m Movement, now time.Time) (string, error)
	PreviewFunc func(ctx context.Context, m Movement, now time.Time) (string, error)
}

// Next implements Generator.
func (g *MockGenerator) Next(ctx context.Context, m Movement, now time.Time) (string, error) {
	if g.NextFunc != nil {
		return g.NextFunc(ctx, m, now)
	}
	return DefaultConfig().Format(m, now, 1), nil
}

// Preview implements Generator.
func (g *MockGenerator) Preview(ctx context.Context, m Movement, now time.Time) (string, error) {
	if g.PreviewFunc != nil {
		return g.PreviewFunc(ctx, m, now)
	}
	return DefaultConfig().Format(m, now, 1), nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
