package errx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPrefixesCodes(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("SOMETHING_BROKE", TypeInternal, 500, "Something broke")

	assert.Equal(t, Code("TEST_SOMETHING_BROKE"), code)

	err := reg.New(code)
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, 500, err.HTTPStatus)
	assert.Contains(t, err.Error(), "TEST_SOMETHING_BROKE")
}

func TestNewWithCauseUnwraps(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("WRAPPED", TypeExternal, 502, "Upstream failed")

	cause := errors.New("connection refused")
	err := reg.NewWithCause(code, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorsAsFindsRegisteredError(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, 404, "Missing")

	wrapped := fmt.Errorf("outer: %w", reg.New(code))

	var e *Error
	require.True(t, errors.As(wrapped, &e))
	assert.Equal(t, code, e.Code)
}

func TestWithDetailChains(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("DETAILED", TypeValidation, 400, "Bad input")

	err := reg.New(code).
		WithDetail("field", "email").
		WithDetail("length", 3)

	assert.Equal(t, "email", err.Details["field"])
	assert.Equal(t, 3, err.Details["length"])
}

func TestUnregisteredCodeFallsBackToInternal(t *testing.T) {
	reg := NewRegistry("TEST")
	err := reg.New(Code("TEST_NEVER_REGISTERED"))

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, 500, err.HTTPStatus)
}
