package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodesSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewInvalidLine(3, "warehouse"))

	assert.True(t, IsInvalidLine(err))
	assert.False(t, IsMissingInput(err))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(err))

	appErr, ok := AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, appErr.Details["line_no"])
	assert.Equal(t, "warehouse", appErr.Details["field"])
}

func TestMissingInputIsBadRequest(t *testing.T) {
	err := NewMissingInput("supplier")
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "supplier is required", err.Message)
}

func TestUnknownErrorMapsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.False(t, IsAppError(errors.New("boom")))
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("pool closed")
	err := NewInternal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "pool closed")
}
