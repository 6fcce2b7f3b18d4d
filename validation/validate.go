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
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validate applies ops to value in order, then validates the result
// against schema. Either may be nil: nil ops means no transformation, a
// nil schema means no structural check. The (possibly transformed) value
// is returned so callers hand the coerced form to the target function.
func Validate(schema *Schema, ops []Op, value any) (any, error) {
	var err error
	for _, op := range ops {
		value, err = op(value)
		if err != nil {
			return nil, err
		}
	}
	if schema == nil {
		return value, nil
	}
	normalized, err := normalize(value)
	if err != nil {
		return nil, err
	}
	if err := schema.validate(normalized); err != nil {
		return nil, err
	}
	return value, nil
}

// normalize converts value into the JSON-generic shape the schema engine
// expects. Values already in generic shape pass through without a marshal
// round-trip.
func normalize(value any) (any, error) {
	switch value.(type) {
	case nil, bool, string, float64, map[string]any, []any:
		return value, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &Error{Fields: []FieldError{{Code: "marshal", Message: err.Error()}}}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &Error{Fields: []FieldError{{Code: "unmarshal", Message: err.Error()}}}
	}
	return out, nil
}

var (
	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
)

func initTagValidator() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New(validator.WithRequiredStructEnabled())

		// Use json tags as field names for better error messages
		tagValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if name == "-" {
				return ""
			}
			if idx := strings.Index(name, ","); idx != -1 {
				name = name[:idx]
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return tagValidator
}

// Struct validates a struct value using go-playground/validator tags
// (e.g. `validate:"required,email"`). Failures are reported as an [*Error]
// with one [FieldError] per failing field.
func Struct(v any) error {
	err := initTagValidator().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Error{Fields: []FieldError{{Code: "tag", Message: err.Error()}}}
	}
	result := &Error{}
	for _, e := range verrs {
		path := e.Namespace()
		// Drop the leading struct type name.
		if idx := strings.Index(path, "."); idx != -1 {
			path = path[idx+1:]
		}
		result.Add(path, "tag."+e.Tag(), tagMessage(e), map[string]any{
			"tag":   e.Tag(),
			"param": e.Param(),
		})
	}
	return result
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "len":
		return "must have length " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "failed " + e.Tag() + " validation"
	}
}
