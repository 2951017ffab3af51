package numerator

import (
	"context"
	"time"
)

// Generator issues date-scoped sequential receipt codes.
// Implementations live in the infrastructure layer.
type Generator interface {
	// Next increments the counter for (movement, business day of now) and
	// returns the formatted code. When ctx carries a transaction the increment
	// is part of it and is reverted on rollback.
	Next(ctx context.Context, m Movement, now time.Time) (string, error)

	// Preview returns the code Next would issue without advancing the counter.
	// The result is advisory: a concurrent Next may take it first.
	Preview(ctx context.Context, m Movement, now time.Time) (string, error)
}
