package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindError(t *testing.T) {
	cause := errors.New("disk full")
	err := wrapError(ErrRegeneration, "write output", cause)

	assert.ErrorIs(t, err, ErrRegeneration)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrExtraction)
	assert.Equal(t, "write output", Message(err))
	assert.Equal(t, "output regeneration failed: write output: disk full", err.Error())

	wrapped := fmt.Errorf("translate job: %w", newError(ErrQuotaExceeded, MsgTooManyCharacters))
	assert.ErrorIs(t, wrapped, ErrQuotaExceeded)
	assert.Equal(t, MsgTooManyCharacters, Message(wrapped))

	assert.Empty(t, Message(errors.New("plain")))
}
