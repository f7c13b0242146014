package numerator

import (
	"context"
	"time"
)

// Generator hands out sequential names. Implementations live in the storage
// layer; calls made inside a transaction are rolled back with it.
type Generator interface {
	// GetNextNumber generates the next number for cfg in the period's counter.
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}
