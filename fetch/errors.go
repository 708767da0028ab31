package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyURL is returned before any I/O when the url is blank.
var ErrEmptyURL = errors.New("url must not be empty")

// NetworkError is a connection or timeout failure. Retryable.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError is a 4xx or 5xx answer. Retryable, with a longer wait for 403/429.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s location=%s", e.StatusCode, e.URL, loc)
}

// ParseError is malformed content or an invalid selector. Never retried.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FetchError is the terminal failure of a scrape. It wraps the last error.
type FetchError struct {
	URL      string
	Attempts int
	Trace    []Attempt
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("scrape %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
