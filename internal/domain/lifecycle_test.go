package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookRegistryRunsInOrderAndStopsOnError(t *testing.T) {
	r := NewHookRegistry[*[]string]()
	boom := errors.New("boom")

	r.On(OnValidate, func(ctx context.Context, log *[]string) error {
		*log = append(*log, "first")
		return nil
	})
	r.On(OnValidate, func(ctx context.Context, log *[]string) error {
		*log = append(*log, "second")
		return boom
	})
	r.On(OnValidate, func(ctx context.Context, log *[]string) error {
		*log = append(*log, "third")
		return nil
	})

	var log []string
	err := r.Run(context.Background(), OnValidate, &log)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, log)
	assert.Equal(t, 3, r.Len(OnValidate))
	assert.NoError(t, r.Run(context.Background(), AfterCancel, &log))
}
