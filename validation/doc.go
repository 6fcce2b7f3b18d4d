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

// Package validation checks request values against JSON Schemas and
// transforms them with parse operations.
//
// A [Schema] is compiled once at startup:
//
//	var idSchema = validation.MustSchema(`{"type": "string", "format": "uuid"}`)
//
// [Op] values coerce raw request strings before the schema runs:
//
//	validation.Validate(pageSchema, []validation.Op{validation.Number()}, "42")
//
// Failures are reported as an [*Error] carrying one [FieldError] per
// failing field, with an HTTP 400 status hint.
//
// [Struct] additionally validates typed structs with
// go-playground/validator tags for handlers that rebind parsed bodies.
package validation
