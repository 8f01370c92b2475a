package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/appointly/appointly-api/pkg/errors"
)

func TestTypeOf(t *testing.T) {
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(apperrors.NewNotFoundError("missing")))
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.TypeOf(apperrors.NewConflictError("busy")))
	assert.Equal(t, apperrors.ErrorTypeLocked, apperrors.TypeOf(apperrors.NewLockedError("in effect")))
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(fmt.Errorf("plain error")))
}

func TestTypeOf_Wrapped(t *testing.T) {
	inner := apperrors.NewForbiddenError("not yours")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.TypeOf(wrapped))
	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeForbidden))
	assert.False(t, apperrors.IsType(wrapped, apperrors.ErrorTypeConflict))
}

func TestErrorMessage(t *testing.T) {
	err := apperrors.NewInternalError("query failed", fmt.Errorf("connection reset"))
	assert.Contains(t, err.Error(), "INTERNAL")
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.EqualError(t, err.Unwrap(), "connection reset")
}
