package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	err := fmt.Errorf("save audio: %w", NewValidation("unsupported audio format: .txt"))

	assert.True(t, Is(err, CodeValidation))
	assert.False(t, Is(err, CodeNotFound))
	assert.False(t, Is(io.EOF, CodeValidation))
}

func TestUnwrapKeepsCause(t *testing.T) {
	err := NewBackendFailure("transcription failed", io.ErrUnexpectedEOF)

	require.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "BACKEND_FAILURE")
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"typed", NewNotFound("a.mp3"), "file not found: a.mp3"},
		{"wrapped typed", fmt.Errorf("stage: %w", NewRenderFailure("could not render PDF", io.EOF)), "could not render PDF"},
		{"untyped", io.EOF, "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeRenderFailure, CodeOf(NewRenderFailure("x", nil)))
	assert.Equal(t, CodeInternal, CodeOf(io.EOF))
}
