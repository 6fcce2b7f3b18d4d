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

// Package binding parses HTTP request bodies into generic Go values.
//
// A [Binder] dispatches on the request's Content-Type header: JSON, YAML,
// TOML and MessagePack bodies decode into the generic shapes their codecs
// produce (maps, slices, scalars), urlencoded and multipart forms decode
// into map[string]any, and text/plain decodes into a string. Unknown media
// types fail with a [*MediaTypeError], malformed bodies with a
// [*DecodeError]; both carry an HTTP status hint via HTTPStatus.
//
// # Quick Start
//
//	value, err := binding.Parse(r)
//
// For a configured instance:
//
//	binder := binding.MustNew(
//	    binding.WithMaxBodyBytes(1 << 20),
//	    binding.WithDecoder("application/cbor", decodeCBOR),
//	)
//
// Parsed values are untyped. Use [To] to rebind one into a struct:
//
//	var req CreateUserRequest
//	if err := binding.To(value, &req); err != nil { ... }
package binding
