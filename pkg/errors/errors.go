package errors

import (
	"errors"
	"fmt"
)

// Kind classifies where in a run an error came from
type Kind string

const (
	KindTransport  Kind = "transport"
	KindDecode     Kind = "decode"
	KindFilesystem Kind = "filesystem"
	KindConfig     Kind = "config"
	KindUnknown    Kind = "unknown"
)

// ErrNoData is reported when a download returned no body
var ErrNoData = errors.New("no data downloaded")

// Error is a tagged failure for a single page or download item
type Error struct {
	Kind Kind
	Op   string
	// Code is the HTTP status when one was received, 0 otherwise
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (status %d) during %s: %v", e.Kind, e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport wraps a connection, timeout or status failure
func Transport(op string, code int, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Code: code, Err: err}
}

// Decode wraps a body that is not valid JSON or does not match the schema
func Decode(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// Filesystem wraps a failure creating or writing a destination file
func Filesystem(op string, err error) *Error {
	return &Error{Kind: KindFilesystem, Op: op, Err: err}
}

// Config wraps a configuration that could not be loaded or is invalid
func Config(op string, err error) *Error {
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsSuccessStatus reports whether an HTTP status counts as a successful response
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
