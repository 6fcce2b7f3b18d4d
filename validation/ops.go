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
	"strconv"
	"strings"
)

// Op transforms a request value before schema validation. Ops run in
// declaration order; an Op error fails the whole resolution.
type Op func(value any) (any, error)

// Trim removes surrounding whitespace from string values. Non-strings pass
// through unchanged.
func Trim() Op {
	return func(value any) (any, error) {
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s), nil
		}
		return value, nil
	}
}

// Lower lowercases string values. Non-strings pass through unchanged.
func Lower() Op {
	return func(value any) (any, error) {
		if s, ok := value.(string); ok {
			return strings.ToLower(s), nil
		}
		return value, nil
	}
}

// Upper uppercases string values. Non-strings pass through unchanged.
func Upper() Op {
	return func(value any) (any, error) {
		if s, ok := value.(string); ok {
			return strings.ToUpper(s), nil
		}
		return value, nil
	}
}

// Number coerces a string value to float64, as produced by JSON decoding.
// Numeric values pass through unchanged; anything else fails.
func Number() Op {
	return func(value any) (any, error) {
		switch v := value.(type) {
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, &Error{Fields: []FieldError{{
					Code:    "op.number",
					Message: "not a number: " + strconv.Quote(v),
				}}}
			}
			return f, nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
		return nil, &Error{Fields: []FieldError{{
			Code:    "op.number",
			Message: "value is not numeric",
		}}}
	}
}

// Boolean coerces a string value to bool using strconv semantics. Bool
// values pass through unchanged; anything else fails.
func Boolean() Op {
	return func(value any) (any, error) {
		switch v := value.(type) {
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, &Error{Fields: []FieldError{{
					Code:    "op.boolean",
					Message: "not a boolean: " + strconv.Quote(v),
				}}}
			}
			return b, nil
		case bool:
			return v, nil
		}
		return nil, &Error{Fields: []FieldError{{
			Code:    "op.boolean",
			Message: "value is not boolean",
		}}}
	}
}

// Default substitutes fallback when the value is nil or an empty string.
func Default(fallback any) Op {
	return func(value any) (any, error) {
		if value == nil {
			return fallback, nil
		}
		if s, ok := value.(string); ok && s == "" {
			return fallback, nil
		}
		return value, nil
	}
}
