package exitcodes

import (
	"fmt"
	"os"
)

// Standard exit codes for image-tea-installer
const (
	// Success indicates a clean exit (including uninstall or a plain menu exit)
	Success = 0

	// GeneralError indicates a general/unknown error
	GeneralError = 1

	// InvalidArgs indicates invalid command-line arguments or flags
	InvalidArgs = 2

	// PreconditionFailed indicates a precondition was not met
	// (e.g., no install present for launch, install dir unwritable)
	PreconditionFailed = 3

	// NetworkError indicates network/connectivity failure
	// (e.g., release host unreachable, timeout, DNS failure)
	NetworkError = 4

	// HTTPError indicates a non-2xx response from the release host
	HTTPError = 5

	// ArchiveError indicates a corrupt or unreadable release archive
	ArchiveError = 6

	// FilesystemError indicates filesystem failure
	// (e.g., permission denied, disk full, path too long)
	FilesystemError = 7

	// ProcessError indicates child process launch failure
	ProcessError = 8
)

// Exit terminates the program with the given code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError prints error message to stderr and exits with the given code
func ExitWithError(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

// ExitWithErrorf prints formatted error message to stderr and exits
func ExitWithErrorf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// CodeForError returns the appropriate exit code for an error.
// Unwraps ErrorWithCode for explicit codes, otherwise returns GeneralError.
// Use explicit error constructors (NetworkErr, ArchiveErr, etc.) for specific codes.
func CodeForError(err error) int {
	if err == nil {
		return Success
	}

	if ec, ok := err.(*ErrorWithCode); ok {
		return ec.Code
	}

	// Default to general error - callers should use explicit error constructors
	return GeneralError
}
