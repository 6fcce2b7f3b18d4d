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

// Package errors formats errors into HTTP responses.
//
// A [Formatter] turns an error into a [Response] (status, content type,
// body). Two formatters are provided: [Simple] emits flat JSON objects and
// [Problem] emits RFC 9457 Problem Details.
//
// Domain errors steer formatting through three optional interfaces:
// [ErrorType] declares the HTTP status, [ErrorDetails] attaches structured
// details, and [ErrorCode] attaches a machine-readable code. [WithStatus]
// wraps any error with an explicit status.
package errors
