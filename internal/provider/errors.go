package provider

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload marks a well-formed response that carried no usable data.
var ErrEmptyPayload = errors.New("empty payload")

// NetworkError is a transport-level failure (DNS, dial, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-success HTTP response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("coingecko API error %d: %s", e.Code, e.Body)
}

// ParseError is a response whose shape did not match what we expect.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
