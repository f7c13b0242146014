package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		from, to DocStatus
		ok       bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusSubmitted, StatusCancelled, true},
		{StatusDraft, StatusCancelled, false},
		{StatusCancelled, StatusSubmitted, false},
		{StatusSubmitted, StatusDraft, false},
		{StatusCancelled, StatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			doc := NewDocument(now, "u1")
			doc.Status = tt.from
			err := doc.Transition(tt.to, now, "u2")
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, doc.Status)
				assert.Equal(t, "u2", doc.UpdatedBy)
				assert.Equal(t, now, doc.UpdatedAt)
			} else {
				assert.True(t, apperror.IsInvalidTransition(err))
				assert.Equal(t, tt.from, doc.Status)
			}
		})
	}
}

func TestCanModifyOnlyDrafts(t *testing.T) {
	doc := NewDocument(now, "u1")
	assert.NoError(t, doc.CanModify())

	doc.Status = StatusSubmitted
	assert.Error(t, doc.CanModify())
}

func TestResolvePostingTimeFillsMissingParts(t *testing.T) {
	doc := Document{}
	at, err := doc.ResolvePostingTime(now)
	require.NoError(t, err)
	assert.Equal(t, now, at)
	assert.Equal(t, "09:30:00", doc.PostingTime)

	doc = Document{PostingDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), PostingTime: "18:05:00"}
	at, err = doc.ResolvePostingTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 18, 5, 0, 0, time.UTC), at)
}

func TestValidateRejectsBadClock(t *testing.T) {
	doc := NewDocument(now, "u1")
	doc.PostingTime = "25:99"
	assert.Error(t, doc.Validate(context.Background()))
}
