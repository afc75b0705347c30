package cli

import (
	"errors"

	"github.com/yaklabco/pgmllint/pkg/runner"
)

// Exit codes for pgmllint.
const (
	// ExitSuccess indicates no ERROR issues were found. Warnings never
	// change the status.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found ERROR issues.
	ExitLintErrors = 1

	// ExitCommandFailed indicates a failure that fits no narrower code.
	ExitCommandFailed = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or rule file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors mapped to exit codes by ExitCode.
var (
	// ErrLintIssuesFound is returned when ERROR issues are found.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrUnreadableFiles is returned when some inputs could not be read.
	ErrUnreadableFiles = errors.New("some files could not be read")

	// ErrInvalidUsage marks bad flags or arguments.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig marks configuration and rule file errors.
	ErrConfig = errors.New("configuration error")

	// ErrIO marks failures reading inputs or writing output.
	ErrIO = errors.New("i/o error")

	// ErrInternal marks failures inside the linter itself.
	ErrInternal = errors.New("internal error")
)

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result.HasErrors():
		return ExitLintErrors
	case result.HasFailures():
		return ExitIOError
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnreadableFiles), errors.Is(err, ErrIO):
		return ExitIOError
	case errors.Is(err, ErrInternal):
		return ExitInternalError
	default:
		return ExitCommandFailed
	}
}
