package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTypeThroughWrapping(t *testing.T) {
	base := NotFoundf("layout %s not found", "home")
	wrapped := fmt.Errorf("loading: %w", base)

	assert.Equal(t, ErrorTypeNotFound, GetType(wrapped))
	assert.Equal(t, ErrorTypeInternal, GetType(errors.New("plain")))
}

func TestClientMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", Validationf("invalid layout name %q", "A"), `invalid layout name "A"`},
		{"wrapped validation hides cause", WrapValidation("invalid layout document", cause), "invalid layout document"},
		{"internal", WrapInternal("failed to save layout", cause), "internal server error"},
		{"untyped", cause, "internal server error"},
		{"unavailable", Unavailable("session limit reached"), "session limit reached"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientMessage(tt.err))
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapInternal("failed to write layout file", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to write layout file: disk full", err.Error())
}
