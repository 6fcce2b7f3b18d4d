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

package binding

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBodyTooLarge is reported when a request body exceeds the configured cap.
var ErrBodyTooLarge = errors.New("binding: request body too large")

// MediaTypeError is returned when no decoder is registered for the
// request's Content-Type.
type MediaTypeError struct {
	ContentType string
}

func (e *MediaTypeError) Error() string {
	if e.ContentType == "" {
		return "binding: missing content type"
	}
	return fmt.Sprintf("binding: unsupported media type %q", e.ContentType)
}

// HTTPStatus implements the status hint recognized by error formatters.
func (e *MediaTypeError) HTTPStatus() int { return http.StatusUnsupportedMediaType }

// DecodeError wraps a failure to read or decode a request body.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	if e.ContentType == "" {
		return fmt.Sprintf("binding: %v", e.Err)
	}
	return fmt.Sprintf("binding: decode %s: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// HTTPStatus implements the status hint recognized by error formatters.
func (e *DecodeError) HTTPStatus() int { return http.StatusBadRequest }
