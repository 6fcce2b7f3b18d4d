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
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a compiled JSON Schema used to validate request values.
// Compile one once at startup with [CompileSchema] or [MustSchema] and
// attach it to parameter descriptors; Schema is safe for concurrent use.
type Schema struct {
	compiled *jsonschema.Schema
	source   string
}

// CompileSchema compiles a JSON Schema document from its JSON text.
func CompileSchema(schemaJSON string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.AssertContent()

	var doc any
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("validation: invalid schema JSON: %w", err)
	}
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("validation: add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema: %w", err)
	}
	return &Schema{compiled: compiled, source: schemaJSON}, nil
}

// MustSchema compiles a JSON Schema and panics on failure.
// Use at package scope or in main() where panic on startup is acceptable.
func MustSchema(schemaJSON string) *Schema {
	s, err := CompileSchema(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// validate checks value against the schema. The value must already be in
// JSON-generic shape (maps, slices, scalars); [Validate] handles the
// normalization.
func (s *Schema) validate(value any) error {
	if err := s.compiled.Validate(value); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return schemaError(verr)
		}
		return &Error{Fields: []FieldError{{Code: "schema", Message: err.Error()}}}
	}
	return nil
}

// schemaError flattens the jsonschema error tree into field errors with
// stable instance paths.
func schemaError(verr *jsonschema.ValidationError) error {
	result := &Error{}
	collectSchemaErrors(verr, result)
	if len(result.Fields) == 0 {
		result.Add("", "schema", verr.Error(), nil)
	}
	return result
}

func collectSchemaErrors(verr *jsonschema.ValidationError, result *Error) {
	if verr == nil {
		return
	}
	if len(verr.Causes) == 0 {
		path := strings.Join(verr.InstanceLocation, ".")
		// ErrorKind is an interface in jsonschema v6; its string form is the
		// stable kind name.
		kind := fmt.Sprintf("%v", verr.ErrorKind)
		result.Add(path, "schema."+kind, verr.Error(), nil)
		return
	}
	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, result)
	}
}
