package enginefail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapsToCause(t *testing.T) {
	cause := errors.New("index out of sync")
	err := New(7, CodeInvariantViolation, cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "turn 7")
	assert.Contains(t, err.Error(), "invariantViolation")
}

func TestFromRecoverWrapsErrorValue(t *testing.T) {
	cause := errors.New("nil map write")

	err := FromRecover(3, cause)

	assert.Equal(t, CodePanic, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestFromRecoverWrapsNonErrorValue(t *testing.T) {
	err := FromRecover(3, "runtime error: index out of range")

	assert.Equal(t, CodePanic, err.Code)
	assert.Contains(t, err.Error(), "index out of range")
}
