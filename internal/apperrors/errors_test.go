package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	inner := NotFound("setup")
	err := Wrap(inner, "load setup")

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "load setup: setup not found", err.Error())
}

func TestWrapPlainError(t *testing.T) {
	err := Wrapf(errors.New("boom"), "step %d", 3)
	assert.Equal(t, CodeInternal, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("bad step"))
	assert.True(t, IsValidation(err))
	assert.Equal(t, "UNKNOWN", GetCode(errors.New("plain")))
}

func TestNotFoundIDsDetails(t *testing.T) {
	err := NotFoundIDs("components", []int{3, 9})

	assert.Equal(t, "components not found: [3 9]", err.Error())
	assert.Equal(t, map[string]any{"missing_ids": []int{3, 9}}, GetDetails(err))
}
