package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchTableCoversEveryCode(t *testing.T) {
	codes := []ErrorCode{
		ErrPermissionDenied, ErrInvalidPeriod, ErrInvalidSeverity,
		ErrOverlap, ErrNotFound, ErrQuotaExceeded, ErrBadRequest, ErrInternal,
	}
	for _, code := range codes {
		_, ok := statusByCode[code]
		assert.True(t, ok, "code %s is missing from the dispatch table", code)
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, StatusOf(ErrPermissionDenied))
	assert.Equal(t, http.StatusBadRequest, StatusOf(ErrOverlap))
	assert.Equal(t, http.StatusNotFound, StatusOf(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(ErrorCode("NO_SUCH_CODE")),
		"unmapped codes fall back to 500")
}

func TestAsAppErrorUnwrapsChains(t *testing.T) {
	base := Overlap("windows conflict")
	wrapped := fmt.Errorf("creating announcement: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrOverlap, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorsIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", PermissionDenied("nope"))
	assert.True(t, errors.Is(err, &AppError{Code: ErrPermissionDenied}))
	assert.False(t, errors.Is(err, &AppError{Code: ErrNotFound}))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("bad payload")
	err := BadRequest("cannot parse request", cause)
	assert.Equal(t, "cannot parse request: bad payload", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}
