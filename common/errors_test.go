package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamGenerationErrorWrapping(t *testing.T) {
	err := fmt.Errorf("chat: %w", &UpstreamGenerationError{
		Provider: "gemini",
		Status:   429,
		Detail:   "quota exceeded",
		Err:      context.DeadlineExceeded,
	})

	var upstream *UpstreamGenerationError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 429, upstream.Status)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "status 429")
}

func TestPersistenceErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := &PersistenceError{Op: OpInsert, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "store insert: connection refused", err.Error())
}
