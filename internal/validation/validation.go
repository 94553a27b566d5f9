// Package validation checks user input before it reaches git or an
// external tool's command line.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput       = errors.New("input cannot be empty")
	ErrInvalidToolName  = errors.New("invalid tool name")
	ErrInvalidRevision  = errors.New("invalid revision")
	ErrInvalidCommand   = errors.New("invalid command")
	ErrNewlineInjection = errors.New("newline injection detected")
)

var (
	// toolNameRegex matches tool names as typed after --using.
	// Examples: "meld", "kdiff3", "p4merge", "vim.diff", "bc4+"
	toolNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

	// controlCharRegex matches NUL, newlines and other control characters.
	controlCharRegex = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

const (
	maxToolName = 64
	maxRevision = 1024
	maxCommand  = 4096
)

// ValidateToolName validates a catalog tool name.
func ValidateToolName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}
	if len(name) > maxToolName {
		return fmt.Errorf("%w: name too long (max %d characters)", ErrInvalidToolName, maxToolName)
	}
	if !toolNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q must start with a letter or digit and contain only letters, digits, '.', '_', '+' and '-'", ErrInvalidToolName, name)
	}
	return nil
}

// ValidateRevision validates one revision specifier. Git's own syntax
// (^, ~, @{...}, :path) is allowed; option-like and control characters
// are not.
func ValidateRevision(spec string) error {
	if spec == "" {
		return ErrEmptyInput
	}
	if len(spec) > maxRevision {
		return fmt.Errorf("%w: specifier too long (max %d characters)", ErrInvalidRevision, maxRevision)
	}
	if strings.HasPrefix(spec, "-") {
		return fmt.Errorf("%w: %q looks like an option", ErrInvalidRevision, spec)
	}
	if controlCharRegex.MatchString(spec) {
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidRevision, spec)
	}
	return nil
}

// ValidateOptions validates a --diff-options string. Options are split on
// whitespace and never pass through a shell, so only line breaks and NUL
// are refused.
func ValidateOptions(options string) error {
	if strings.ContainsAny(options, "\x00\n\r") {
		return fmt.Errorf("%w: options must be on one line", ErrNewlineInjection)
	}
	return nil
}

// ValidateCommand validates a configured executable name or path.
func ValidateCommand(command string) error {
	if command == "" {
		return ErrEmptyInput
	}
	if len(command) > maxCommand {
		return fmt.Errorf("%w: path too long (max %d characters)", ErrInvalidCommand, maxCommand)
	}
	if controlCharRegex.MatchString(command) {
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidCommand, command)
	}
	return nil
}
