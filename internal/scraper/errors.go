// internal/scraper/errors.go
package scraper

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures for the routing layer.
type ErrorKind string

const (
	KindInvalid    ErrorKind = "invalid"
	KindFetch      ErrorKind = "fetch"
	KindParse      ErrorKind = "parse"
	KindExtraction ErrorKind = "extraction"
	KindInternal   ErrorKind = "internal"
)

// FetchError means the source could not be reached or answered with an
// error status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means no queryable document could be built from the bytes.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError means a required anchor element matched nothing.
type ExtractionError struct {
	Field    string
	Selector string
	Key      ResourceKey
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("required field '%s' not found with selector '%s' (%s)", e.Field, e.Selector, e.Key)
}

// EngineError is the opaque error surfaced to callers of the Engine.
type EngineError struct {
	Kind ErrorKind
	Key  ResourceKey
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Key, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// ErrInvalidRequest is wrapped by EngineErrors of KindInvalid.
var ErrInvalidRequest = errors.New("invalid request")

// KindOf classifies err. Errors that are not EngineErrors are internal.
func KindOf(err error) ErrorKind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindInternal
}

// wrap attaches the failing stage to err.
func wrap(key ResourceKey, err error) *EngineError {
	var (
		fe *FetchError
		pe *ParseError
		xe *ExtractionError
	)
	switch {
	case errors.As(err, &fe):
		return &EngineError{Kind: KindFetch, Key: key, Err: err}
	case errors.As(err, &pe):
		return &EngineError{Kind: KindParse, Key: key, Err: err}
	case errors.As(err, &xe):
		return &EngineError{Kind: KindExtraction, Key: key, Err: err}
	case errors.Is(err, ErrInvalidRequest):
		return &EngineError{Kind: KindInvalid, Key: key, Err: err}
	default:
		return &EngineError{Kind: KindInternal, Key: key, Err: err}
	}
}
