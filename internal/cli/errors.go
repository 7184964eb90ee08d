package cli

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/spec-kit/ticket-desk/pkg/util/errorutil"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitNotFound     = 3
	ExitAuthError    = 4
	ExitStorageError = 5
	ExitConflict     = 6
)

// Common suggestions
const (
	SuggestLogin       = "Run 'ticketctl login --email <email>' to start a session."
	SuggestListTickets = "Run 'ticketctl ticket list' to see available tickets."
	SuggestRegister    = "Run 'ticketctl register' to create an account."
)

// CLIError is an error with an exit code and optional suggestion.
type CLIError struct {
	Code       int
	Message    string
	Cause      error
	Suggestion string
}

func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for any error. Domain errors map by code.
func ExitCode(err error) int {
	var cerr *CLIError
	if errors.As(err, &cerr) && cerr.Code != 0 {
		return cerr.Code
	}
	var derr *apperrors.DomainError
	if errors.As(err, &derr) {
		switch derr.Code {
		case apperrors.CodeValidation:
			return ExitInvalidArgs
		case apperrors.CodeNotFound:
			return ExitNotFound
		case apperrors.CodeUnauthorized, apperrors.CodeForbidden:
			return ExitAuthError
		case apperrors.CodeConflict:
			return ExitConflict
		case apperrors.CodeInternal:
			return ExitStorageError
		}
	}
	return ExitGeneralError
}

// FormatErrorMessage returns formatted error with suggestion if available.
func FormatErrorMessage(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())
	var cerr *CLIError
	if errors.As(err, &cerr) && cerr.Suggestion != "" {
		b.WriteString("\n\nSuggestion: ")
		b.WriteString(cerr.Suggestion)
	}
	return b.String()
}

// ErrInvalidArgs creates an error for invalid arguments (exit code 2)
func ErrInvalidArgs(format string, args ...any) error {
	return &CLIError{Code: ExitInvalidArgs, Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidArgsWithCause is ErrInvalidArgs wrapping cause.
func ErrInvalidArgsWithCause(cause error, format string, args ...any) error {
	return &CLIError{Code: ExitInvalidArgs, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ErrStorage creates an error for substrate failures (exit code 5)
func ErrStorage(cause error, format string, args ...any) error {
	return &CLIError{Code: ExitStorageError, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// withSuggestion attaches a hint while keeping err's exit code.
func withSuggestion(err error, suggestion string) error {
	return &CLIError{Code: ExitCode(err), Cause: err, Suggestion: suggestion}
}
