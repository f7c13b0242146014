package memory

import (
	"context"
	"time"

	"milkledger/internal/core/numerator"
)

// GetNextNumber implements numerator.Generator. Counters live in the store
// state, so a rolled back transaction gives its numbers back.
func (s *Store) GetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	var next int64
	_ = s.write(func(st *state) error {
		key := cfg.Key(period)
		st.sequences[key]++
		next = st.sequences[key]
		return nil
	})
	return cfg.Format(period, next), nil
}

var _ numerator.Generator = (*Store)(nil)
