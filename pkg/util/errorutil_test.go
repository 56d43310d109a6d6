package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{NewNotFound("ticket", nil), CodeNotFound, http.StatusNotFound},
		{NewUnauthorized("nope"), CodeUnauthorized, http.StatusUnauthorized},
		{NewPermissionDenied("nope"), CodePermissionDenied, http.StatusForbidden},
		{NewConflict("taken", nil), CodeConflict, http.StatusConflict},
		{NewInvalidTransition("bad move", nil), CodeInvalidTransition, http.StatusUnprocessableEntity},
		{NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		domainErr := ToDomainError(tc.err)
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	domainErr := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)

	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	inner := NewConflict("already taken", map[string]any{"ticket_id": "t-1"})
	wrapped := fmt.Errorf("claim failed: %w", inner)

	domainErr := ToDomainError(wrapped)
	assert.Equal(t, CodeConflict, domainErr.Code)
	assert.Equal(t, "t-1", domainErr.Details["ticket_id"])
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConflict(NewConflict("x", nil)))
	assert.False(t, IsConflict(NewNotFound("x", nil)))
	assert.True(t, IsNotFound(NewNotFound("x", nil)))
	assert.True(t, IsPermissionDenied(NewPermissionDenied("x")))
	assert.False(t, HasCode(nil, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
}
