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

package router

import "errors"

var (
	// ErrAlreadyEnabled indicates that Init was called on a controller that is already initialized.
	ErrAlreadyEnabled = errors.New("controller already initialized")

	// ErrNotEnabled indicates that a composition operation was attempted on an uninitialized controller.
	ErrNotEnabled = errors.New("controller not initialized")

	// ErrDuplicateRoute indicates that a path/method combination is already registered.
	ErrDuplicateRoute = errors.New("duplicate route registration")

	// ErrRouteShape indicates that a catch-all route and a method-keyed route were mixed at one path.
	ErrRouteShape = errors.New("path cannot mix catch-all and method-keyed routes")

	// ErrNilHandler indicates that a route or hook was registered without a handler function.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNotFunc indicates that a value used as a handler, hook, or constructor is not a function.
	ErrNotFunc = errors.New("not a function")

	// ErrInvalidSignature indicates that a function has a result shape the pipeline cannot interpret.
	ErrInvalidSignature = errors.New("invalid function signature")

	// ErrParamCount indicates that declared parameter descriptors do not match the function arity.
	ErrParamCount = errors.New("parameter descriptor count does not match function arity")

	// ErrUnresolvedParam indicates that no descriptor could be determined for a function parameter.
	ErrUnresolvedParam = errors.New("cannot resolve parameter")

	// ErrUnknownKind indicates that a parameter descriptor carries an unknown identifier.
	ErrUnknownKind = errors.New("unknown parameter identifier")

	// ErrAlreadyProvided indicates that a type was registered as injectable more than once.
	ErrAlreadyProvided = errors.New("type already provided")

	// ErrNotProvided indicates that a constructor parameter references a type that was never provided.
	ErrNotProvided = errors.New("type not provided")

	// ErrSingletonRequestParam indicates that a singleton constructor requires request-scoped data.
	ErrSingletonRequestParam = errors.New("singleton constructor cannot depend on request-scoped data")

	// ErrUnknownHookKind indicates that a hook was registered with an out-of-range kind.
	ErrUnknownHookKind = errors.New("unknown hook kind")
)
