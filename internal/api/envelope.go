package api

import "fmt"

// Envelope is the uniform result of every endpoint call. A failed call has
// Success=false and a non-empty Error; Data is the zero value.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Err converts a failed envelope into an error, nil otherwise.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = "request failed"
	}
	return &RemoteError{Message: msg}
}

// RemoteError is an envelope failure surfaced as a Go error.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("api: %s", e.Message)
}

func failure[T any](msg string) Envelope[T] {
	if msg == "" {
		msg = "Unknown error"
	}
	return Envelope[T]{Success: false, Error: msg}
}

func success[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: data}
}
