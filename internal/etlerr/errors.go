package etlerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a pipeline failure.
type Kind string

const (
	// KindResourceUnavailable means an input resource could not be opened.
	KindResourceUnavailable Kind = "resource_unavailable"
	// KindMalformedSchema means the rate input lacks a required column or value.
	KindMalformedSchema Kind = "malformed_schema"
	// KindFetch means the source document could not be retrieved.
	KindFetch Kind = "fetch"
	// KindTableNotFound means the document has no matching table.
	KindTableNotFound Kind = "table_not_found"
	// KindParse means a table cell could not be parsed.
	KindParse Kind = "parse"
	// KindWrite means a persistence target could not be written.
	KindWrite Kind = "write"
	// KindQuery means a query statement failed.
	KindQuery Kind = "query"
)

// Error is a classified pipeline error.
type Error struct {
	Kind       Kind
	Op         string // e.g. "load rates", "write csv"
	Message    string
	StatusCode int // set for fetch failures that got an HTTP response
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, msg)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether any error in err's tree is an *Error of the given kind.
// Joined errors are searched as well.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return true
	}
	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if Is(inner, kind) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), kind)
	}
	return false
}

// NewResourceUnavailable wraps a failure to open an input resource.
func NewResourceUnavailable(op string, cause error) *Error {
	return &Error{Kind: KindResourceUnavailable, Op: op, Message: "resource unavailable", Cause: cause}
}

// NewMalformedSchema reports an input whose shape is not what the loader expects.
func NewMalformedSchema(op, message string) *Error {
	return &Error{Kind: KindMalformedSchema, Op: op, Message: message}
}

// NewFetchError wraps a transport failure.
func NewFetchError(op string, cause error) *Error {
	return &Error{Kind: KindFetch, Op: op, Message: "request failed", Cause: cause}
}

// NewStatusError reports a non-success HTTP status.
func NewStatusError(op string, statusCode int) *Error {
	return &Error{Kind: KindFetch, Op: op, Message: "unexpected response", StatusCode: statusCode}
}

// NewTableNotFound reports a missing target table.
func NewTableNotFound(op, selector string) *Error {
	return &Error{Kind: KindTableNotFound, Op: op, Message: fmt.Sprintf("no table matches %q", selector)}
}

// NewParseError wraps a cell that could not be parsed.
func NewParseError(op, message string, cause error) *Error {
	return &Error{Kind: KindParse, Op: op, Message: message, Cause: cause}
}

// NewWriteError wraps a persistence failure.
func NewWriteError(op string, cause error) *Error {
	return &Error{Kind: KindWrite, Op: op, Message: "write failed", Cause: cause}
}

// NewQueryError wraps a failing query statement.
func NewQueryError(statement string, cause error) *Error {
	return &Error{Kind: KindQuery, Op: "query", Message: statement, Cause: cause}
}
