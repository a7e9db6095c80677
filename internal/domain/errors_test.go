package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError_Error(t *testing.T) {
	// Arrange
	cause := errors.New("boom")
	err := NewPipelineError(ErrKindResource, "normalize", "missing synonym file", cause)

	// Act
	msg := err.Error()

	// Assert
	assert.Contains(t, msg, "normalize")
	assert.Contains(t, msg, "RESOURCE")
	assert.Contains(t, msg, "missing synonym file")
	assert.Contains(t, msg, "boom")
	assert.ErrorIs(t, err, cause)
}

func TestIsCancellation(t *testing.T) {
	// Arrange
	cancelErr := NewPipelineError(ErrKindCancellation, "rank", "cancelled", nil)
	dataErr := NewPipelineError(ErrKindDataShape, "normalize", "bad row", nil)

	// Act / Assert
	assert.True(t, IsCancellation(cancelErr))
	assert.False(t, IsCancellation(dataErr))
	assert.False(t, IsCancellation(errors.New("plain")))
}
