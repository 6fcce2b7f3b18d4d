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

package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrValidation is the sentinel for validation failures.
// Use errors.Is(err, ErrValidation) to classify an error.
var ErrValidation = errors.New("validation")

// FieldError is a single validation failure for one field.
type FieldError struct {
	Path    string         `json:"path,omitempty"` // dotted path, e.g. "items.2.price"
	Code    string         `json:"code"`           // stable code, e.g. "tag.required", "schema.type"
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error returns "path: message", or just the message when path is empty.
func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns [ErrValidation] for errors.Is compatibility.
func (e FieldError) Unwrap() error { return ErrValidation }

// Error collects the validation failures of one value.
type Error struct {
	Fields []FieldError `json:"fields"`
}

// Add appends a field error.
func (e *Error) Add(path, code, message string, meta map[string]any) {
	e.Fields = append(e.Fields, FieldError{Path: path, Code: code, Message: message, Meta: meta})
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns [ErrValidation] for errors.Is compatibility.
func (e *Error) Unwrap() error { return ErrValidation }

// HTTPStatus implements the status hint recognized by error formatters.
func (e *Error) HTTPStatus() int { return http.StatusBadRequest }

// Details implements the details hint recognized by error formatters.
func (e *Error) Details() any { return e.Fields }
