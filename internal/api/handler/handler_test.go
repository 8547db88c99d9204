package handler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/hourglass/internal/service"
)

func TestMessageStripsSentinel(t *testing.T) {
	assert.Equal(t, "cannot follow yourself", message(service.ErrFollowSelf, service.ErrForbidden))
	assert.Equal(t, "user not found", message(service.ErrUserNotFound, service.ErrNotFound))
	assert.Equal(t, "not found", message(service.ErrNotFound, service.ErrNotFound))

	wrapped := fmt.Errorf("%w: hour 24 out of range", service.ErrInvalidArgument)
	assert.Equal(t, "hour 24 out of range", message(wrapped, service.ErrInvalidArgument))
}

func TestUsernameRule(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.RegisterValidation("username", validUsername))

	type req struct {
		Username string `validate:"username"`
	}
	cases := []struct {
		name string
		ok   bool
	}{
		{"alice", true},
		{"Alice Smith", true},
		{"李雷", true},
		{"", false},
		{" alice", false},
		{"alice\n", false},
		{"a\tb", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tc := range cases {
		err := v.Struct(req{Username: tc.name})
		if tc.ok {
			assert.NoError(t, err, "%q", tc.name)
		} else {
			assert.Error(t, err, "%q", tc.name)
		}
	}
}
