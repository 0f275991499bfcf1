package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	t.Parallel()

	err := New(CodeNotFound, "order not found")
	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, "order not found", err.Message())
	assert.Equal(t, "NOT_FOUND: order not found", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "ping database")
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)

	// A nil cause degrades to a plain New.
	assert.Nil(t, Wrap(CodeInternal, nil, "no cause").Unwrap())
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := New(CodeStateConflict, "already completed")
	wrapped := fmt.Errorf("handling webhook: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeStateConflict, typed.Code())

	assert.Nil(t, As(stdErrors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	details := map[string]string{"field": "email"}
	err := New(CodeValidation, "validation failed").WithDetails(details)
	assert.Equal(t, details, err.Details())
}

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeIdempotency, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, MetadataFor(tc.code).HTTPStatus, "code %s", tc.code)
	}

	// Unknown codes fall back to internal.
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("BOGUS")).HTTPStatus)
}
