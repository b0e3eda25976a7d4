package exitcodes

import (
	"errors"
	"fmt"
)

// ErrorWithCode is an error that carries an explicit exit code
type ErrorWithCode struct {
	Code    int
	Message string
	Cause   error
}

func (e *ErrorWithCode) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ErrorWithCode) Unwrap() error {
	return e.Cause
}

// NewError creates an error with an explicit exit code
func NewError(code int, message string) *ErrorWithCode {
	return &ErrorWithCode{Code: code, Message: message}
}

// NewErrorf creates an error with formatted message and exit code
func NewErrorf(code int, format string, args ...interface{}) *ErrorWithCode {
	return &ErrorWithCode{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps an existing error with an exit code
func WrapError(code int, message string, cause error) *ErrorWithCode {
	return &ErrorWithCode{Code: code, Message: message, Cause: cause}
}

// HasCode reports whether err (or anything it wraps) carries the given exit code.
func HasCode(err error, code int) bool {
	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec.Code == code
	}
	return false
}

// Common error constructors

func InvalidArgsError(message string) *ErrorWithCode {
	return NewError(InvalidArgs, message)
}

func InvalidArgsErrorf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(InvalidArgs, format, args...)
}

func PreconditionError(message string) *ErrorWithCode {
	return NewError(PreconditionFailed, message)
}

func PreconditionErrorf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(PreconditionFailed, format, args...)
}

func NetworkErr(message string, cause error) *ErrorWithCode {
	return WrapError(NetworkError, message, cause)
}

func NetworkErrf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(NetworkError, format, args...)
}

func HTTPErr(message string) *ErrorWithCode {
	return NewError(HTTPError, message)
}

func HTTPErrf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(HTTPError, format, args...)
}

func ArchiveErr(message string, cause error) *ErrorWithCode {
	return WrapError(ArchiveError, message, cause)
}

func ArchiveErrf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(ArchiveError, format, args...)
}

func FilesystemErr(message string, cause error) *ErrorWithCode {
	return WrapError(FilesystemError, message, cause)
}

func FilesystemErrf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(FilesystemError, format, args...)
}

func ProcessErr(message string, cause error) *ErrorWithCode {
	return WrapError(ProcessError, message, cause)
}

func ProcessErrf(format string, args ...interface{}) *ErrorWithCode {
	return NewErrorf(ProcessError, format, args...)
}
