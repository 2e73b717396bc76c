// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package httperr

import (
	"errors"
	"net/http"
)

// CodedError wraps an error with an HTTP status code, letting the code travel
// through the call stack to wherever the error is classified.
type CodedError struct {
	err  error
	code int
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As() compatibility.
func (e *CodedError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *CodedError) HTTPCode() int {
	return e.code
}

// WithCode wraps an error with an HTTP status code.
// If err is nil, WithCode returns nil.
func WithCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &CodedError{err: err, code: code}
}

// Code extracts the HTTP status code from an error chain.
// If no CodedError is found, it returns http.StatusInternalServerError.
func Code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.code
	}

	return http.StatusInternalServerError
}

// New creates a new error with the given message and HTTP status code.
func New(message string, code int) error {
	return &CodedError{err: errors.New(message), code: code}
}
