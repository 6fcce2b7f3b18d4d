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

// Package router is a declarative HTTP routing and request-lifecycle
// composition engine. Application code registers controllers holding
// routes, lifecycle hooks, and nested controllers, then compiles them
// into a single flattened route table with a deterministic per-request
// pipeline.
//
// # Controllers
//
// A [Controller] is declared, enabled once with [Controller.Init], and then
// populated with routes and hooks. Controllers compose two ways:
// [Controller.Use] merges another controller horizontally (its hooks apply
// to every route at the same precedence as local hooks), and
// [Controller.Mount] nests one vertically (its routes are copied in under a
// path, and its hooks keep applying through the recorded mount ancestry).
//
// Hook scoping is controlled purely by declaration order: each registration
// consumes the controller's next declaration index, a before-kind hook
// guards only routes declared after it, and an after-kind hook applies only
// to routes declared before it.
//
// # Dependency injection
//
// Handlers, hooks, and constructors receive their arguments from parameter
// descriptors: well-known request values (query, body, route params,
// cookies, ...) or injectable types registered on a [Registry] with a
// [Scope] (singleton, request, or instance). Descriptors are declared
// explicitly or inferred from the Go parameter types.
//
// # Pipeline
//
// [Compile] flattens the controller tree, precomputes every route's hook
// chains and static response configuration, and returns an [App]
// implementing http.Handler:
//
//	root := router.NewController("root").MustInit("/", nil)
//	root.Route("/hello/{name}", func(params map[string]string) string {
//	    return "hello " + params["name"]
//	}, router.Method("GET"))
//
//	app := router.MustCompile(root)
//	http.ListenAndServe(":8080", app)
//
// Per request the stages run in a fixed order (before-request, parse,
// before-handle, handler, after-handle, map-response, after-response)
// with well-defined short-circuiting. Handler results materialize by
// shape: strings become text bodies, structured values JSON bodies,
// [Response] values pass through raw, nil means unhandled (404), and
// iter.Seq or channel results stream with prompt cancellation.
package router
