// Copyright 2025 The Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"net/http"
)

// Formatter converts an error into HTTP response components. Implementations
// are framework-agnostic: the caller applies the returned status, content
// type, and body however it writes responses.
type Formatter interface {
	Format(req *http.Request, err error) Response
}

// Response is a formatted error ready to be written.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body, marshaled by the caller.
	Body any
}

// ErrorType lets domain errors declare their own HTTP status code.
//
// Example:
//
//	func (e NotFoundError) HTTPStatus() int { return http.StatusNotFound }
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorDetails lets domain errors expose structured field-level details.
type ErrorDetails interface {
	error
	Details() any
}

// ErrorCode lets domain errors expose a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// WithStatus wraps an error with an explicit HTTP status code; the wrapper
// implements [ErrorType]. A nil err uses the status text as the message.
//
// Example:
//
//	return errors.WithStatus(err, http.StatusConflict)
//	return errors.WithStatus(nil, http.StatusForbidden)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func (e *statusError) HTTPStatus() int { return e.status }

// statusOf resolves an error's status through the [ErrorType] interface,
// defaulting to 500.
func statusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}
