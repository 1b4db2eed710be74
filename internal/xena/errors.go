package xena

import (
	"errors"
	"fmt"
)

// FetchError reports a failure reaching the hub: transport errors, non-2xx
// responses and unreadable bodies. Calls are never retried.
type FetchError struct {
	// Op is the client operation, e.g. "dataset_samples".
	Op string

	// Dataset is the dataset the call targeted, if any.
	Dataset string

	// StatusCode is the hub HTTP status, zero for transport failures.
	StatusCode int

	Err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("xena %s %q: hub returned status %d: %v", e.Op, e.Dataset, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("xena %s %q: %v", e.Op, e.Dataset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError reports a hub response whose shape does not match the call,
// e.g. an empty code list or a value vector misaligned with the samples.
//
// A raw code with no label is not a DecodeError: it resolves to null.
type DecodeError struct {
	Op      string
	Dataset string
	Reason  string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("xena %s %q: unexpected response: %s", e.Op, e.Dataset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsDecodeError reports whether err wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
