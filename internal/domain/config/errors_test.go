package config

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *UserError
		expected string
	}{
		{
			name:     "simple message",
			err:      &UserError{Code: ErrCodeToolNotFound, Message: "cannot find diff tool \"meld\""},
			expected: "cannot find diff tool \"meld\"",
		},
		{
			name: "message with context",
			err: &UserError{
				Code:    ErrCodeConfigNotFound,
				Message: "config file not found",
				Context: "extdiff.yaml",
			},
			expected: "config file not found (at extdiff.yaml)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUserError_Format(t *testing.T) {
	t.Parallel()

	err := &UserError{
		Code:       ErrCodeRevisionInvalid,
		Message:    "cannot resolve revision",
		Context:    "nope",
		Suggestion: "List revisions with 'git log --oneline'.",
	}

	formatted := err.Format()
	assert.Contains(t, formatted, "[REVISION_INVALID] cannot resolve revision")
	assert.Contains(t, formatted, "Location: nope")
	assert.Contains(t, formatted, "Suggestion: List revisions")
}

func TestUserError_Builders(t *testing.T) {
	t.Parallel()

	inner := errors.New("exec: not found")
	base := NewUserError(ErrCodeToolNotFound, "cannot find diff tool")
	err := base.WithContext("meld").WithSuggestion("Install it.").WithUnderlying(inner)

	assert.Empty(t, base.Context, "builders must not modify the receiver")
	assert.Equal(t, "meld", err.Context)
	assert.Equal(t, "Install it.", err.Suggestion)
	assert.ErrorIs(t, err, inner)
	assert.ErrorIs(t, err, &UserError{Code: ErrCodeToolNotFound})
	assert.NotErrorIs(t, err, &UserError{Code: ErrCodeUsage})
}

// hasCode reports whether err carries a UserError with code.
func hasCode(err error, code string) bool {
	ue := GetUserError(err)
	return ue != nil && ue.Code == code
}

func TestGetUserError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", NewUserError(ErrCodeStagingFailed, "disk full"))
	assert.True(t, hasCode(err, ErrCodeStagingFailed))
	assert.False(t, hasCode(err, ErrCodeUsage))

	ue := GetUserError(err)
	require.NotNil(t, ue)
	assert.Equal(t, "disk full", ue.Message)
	assert.Nil(t, GetUserError(errors.New("plain")))
}

func TestErrorList(t *testing.T) {
	t.Parallel()

	list := NewErrorList()
	assert.NoError(t, list.AsError())
	assert.Empty(t, list.Error())

	list.AddValidation("tools[0].name", "is required", "")
	assert.Equal(t, 1, list.Len())
	assert.Equal(t, "tools[0].name: is required (at tools[0].name)", list.Error())

	list.Add(nil)
	list.AddValidation("log.format", "unknown format", "")
	assert.Equal(t, 2, list.Len())
	assert.Contains(t, list.Error(), "2 errors occurred")
	assert.Len(t, list.Errors(), 2)
	assert.Error(t, list.AsError())
}

func TestNewYAMLParseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     string
		message string
		context string
	}{
		{
			name:    "tools as map",
			err:     "yaml: unmarshal errors:\n  line 2: cannot unmarshal !!map into []config.ToolConfig",
			message: "invalid tools format",
			context: "cfg.yaml (line 2)",
		},
		{
			name:    "bad bool",
			err:     "yaml: unmarshal errors:\n  line 4: cannot unmarshal !!str `maybe` into bool",
			message: "expected true or false",
			context: "cfg.yaml (line 4)",
		},
		{
			name:    "unknown",
			err:     "yaml: something odd",
			message: "invalid YAML syntax",
			context: "cfg.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ue := NewYAMLParseError("cfg.yaml", errors.New(tt.err))
			assert.Equal(t, ErrCodeConfigParse, ue.Code)
			assert.Equal(t, tt.message, ue.Message)
			assert.Equal(t, tt.context, ue.Context)
			assert.NotEmpty(t, ue.Suggestion)
		})
	}
}
