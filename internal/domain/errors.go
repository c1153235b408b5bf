package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFileSelected is returned when a batch submission carries no file.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrSubmissionInFlight rejects a submission while another of the same kind is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrNoBatch is returned when exporting before any batch succeeded.
	ErrNoBatch = errors.New("no batch result available")
)

// NetworkError reports a transport failure talking to the prediction service.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RequestError represents a non-2xx response from the prediction service.
type RequestError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}
