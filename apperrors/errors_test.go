package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrValidation, "student ID and Name cannot be empty")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "student ID and Name cannot be empty", err.Error())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Same(t, ErrStudentNotFound, FromError(ErrStudentNotFound))

	wrapped := fmt.Errorf("mark: %w", ErrInvalidStatus)
	assert.Equal(t, http.StatusBadRequest, FromError(wrapped).Status)

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, "internal server error: boom", plain.Error())
}
