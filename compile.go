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

import (
	"fmt"
	"slices"
	"strings"
)

// compiledRoute is one final route table entry: the route plus everything
// precomputed at compile time so request handling does no table walking.
type compiledRoute struct {
	entry     *RouteEntry
	pattern   string
	chains    [hookKindCount][]*hookEntry
	response  *ResponseConfig
	needsBody bool
}

// Compile flattens the root controller's route table into an App: per route
// it computes the ordered hook chains, the merged static response
// configuration, the body requirement, and reflective invokers for the
// handler and every hook, then registers the route on an http.ServeMux.
//
// Compile validates every handler, hook, and constructor reference, so
// wiring mistakes fail here rather than on the first request.
func Compile(root *Controller, opts ...Option) (*App, error) {
	if root == nil || !root.enabled {
		return nil, fmt.Errorf("%w: compile root", ErrNotEnabled)
	}

	app := defaultApp()
	for _, opt := range opts {
		opt(app)
	}
	app.container = NewContainer(app.registry)

	var entries []*RouteEntry
	paths := make([]string, 0, len(root.routes))
	for path := range root.routes {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	for _, path := range paths {
		pe := root.routes[path]
		if pe.catchAll != nil {
			entries = append(entries, pe.catchAll)
		}
		methods := make([]string, 0, len(pe.methods))
		for m := range pe.methods {
			methods = append(methods, m)
		}
		slices.Sort(methods)
		for _, m := range methods {
			entries = append(entries, pe.methods[m])
		}
	}

	for _, rt := range entries {
		crt, err := app.compileRoute(rt)
		if err != nil {
			return nil, err
		}
		app.routes = append(app.routes, crt)
		app.mux.Handle(crt.pattern, app.routeHandler(crt))
	}
	return app, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(root *Controller, opts ...Option) *App {
	app, err := Compile(root, opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustCompile: %v", err))
	}
	return app
}

// compileRoute precomputes one route's pipeline.
func (app *App) compileRoute(rt *RouteEntry) (*compiledRoute, error) {
	crt := &compiledRoute{entry: rt}

	rt.paramNames = patternParams(rt.path)
	crt.pattern = rt.path
	if rt.method != "" {
		crt.pattern = rt.method + " " + rt.path
	}

	if rt.static == nil {
		inv, err := compileInvoker(routeLabel(rt), rt.fn, rt.params)
		if err != nil {
			return nil, err
		}
		rt.inv = inv
	}

	for kind := range hookKindCount {
		chain := buildChain(rt, kind)
		for _, h := range chain {
			if h.inv == nil {
				inv, err := compileInvoker(hookLabel(h), h.fn, h.params)
				if err != nil {
					return nil, err
				}
				h.inv = inv
			}
		}
		crt.chains[kind] = chain
	}

	crt.response = mergedResponse(rt)
	crt.needsBody = needsBody(rt, crt.chains[:])
	return crt, nil
}

// buildChain computes the effective hook chain of one kind for a route from
// its three sources. Before kinds run inner-first: the declaring
// controller's own hooks (declared before the route), then its used hooks,
// then each mount ancestor from the nearest outward, each contributing the
// hooks that were already declared when the mount happened. After kinds
// mirror this outer-first, with the index comparisons flipped: only hooks
// declared after the mount (or after the route, locally) apply.
func buildChain(rt *RouteEntry, kind HookKind) []*hookEntry {
	var chain []*hookEntry
	if kind.isBefore() {
		chain = appendFiltered(chain, rt.owner.hooks[kind], rt.index, true)
		chain = append(chain, rt.owner.used[kind]...)
		for _, e := range rt.env { // nearest ancestor first
			chain = appendFiltered(chain, e.owner.hooks[kind], e.index, true)
			chain = append(chain, e.owner.used[kind]...)
		}
		return dedupeChain(chain, false)
	}
	for i := len(rt.env) - 1; i >= 0; i-- { // outermost ancestor first
		e := rt.env[i]
		chain = append(chain, e.owner.used[kind]...)
		chain = appendFiltered(chain, e.owner.hooks[kind], e.index, false)
	}
	chain = append(chain, rt.owner.used[kind]...)
	chain = appendFiltered(chain, rt.owner.hooks[kind], rt.index, false)
	return dedupeChain(chain, true)
}

// dedupeChain drops repeated entries from a chain. A controller that both
// declares routes and is reached through Use contributes its hooks to its
// own routes twice, locally and through the user's used list; each entry
// runs once, at its own-controller position: the first occurrence on
// before chains (inner-first), the last on after chains (outer-first).
func dedupeChain(chain []*hookEntry, keepLast bool) []*hookEntry {
	if len(chain) < 2 {
		return chain
	}
	if keepLast {
		slices.Reverse(chain)
	}
	seen := make(map[*hookEntry]bool, len(chain))
	out := chain[:0]
	for _, h := range chain {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	if keepLast {
		slices.Reverse(out)
	}
	return out
}

// appendFiltered applies the strict declaration-index comparison: before
// kinds take hooks with index < pivot, after kinds index > pivot. The
// comparison is strict by contract; indices are never shared between a
// hook and a route because every registration consumes a fresh one.
func appendFiltered(chain, hooks []*hookEntry, pivot int, before bool) []*hookEntry {
	for _, h := range hooks {
		if before && h.index < pivot {
			chain = append(chain, h)
		}
		if !before && h.index > pivot {
			chain = append(chain, h)
		}
	}
	return chain
}

// mergedResponse folds the static response configuration of every enclosing
// scope, outermost first, so the most specific scope wins for status and
// scalar headers while multi-valued headers accumulate.
func mergedResponse(rt *RouteEntry) *ResponseConfig {
	merged := &ResponseConfig{}
	for i := len(rt.env) - 1; i >= 0; i-- {
		merged.merge(rt.env[i].owner.response)
		merged.merge(rt.env[i].response)
	}
	merged.merge(rt.owner.response)
	merged.merge(rt.response)
	return merged
}

// needsBody reports whether the handler or any chained hook declares a body
// parameter. The parse stage only runs when this is true.
func needsBody(rt *RouteEntry, chains [][]*hookEntry) bool {
	if rt.inv != nil {
		for _, p := range rt.inv.params {
			if p.declaresBody() {
				return true
			}
		}
	}
	for _, chain := range chains {
		for _, h := range chain {
			for _, p := range h.inv.params {
				if p.declaresBody() {
					return true
				}
			}
		}
	}
	return false
}

// patternParams extracts the {name} segments of a ServeMux pattern, so the
// route-params identifier can materialize a map at request time.
func patternParams(path string) []string {
	var names []string
	for seg := range strings.SplitSeq(path, "/") {
		if len(seg) > 1 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			name := seg[1 : len(seg)-1]
			name = strings.TrimSuffix(name, "...")
			if name != "" && name != "$" {
				names = append(names, name)
			}
		}
	}
	return names
}

func routeLabel(rt *RouteEntry) string {
	if rt.method == "" {
		return fmt.Sprintf("route %s %s", rt.owner.name, rt.path)
	}
	return fmt.Sprintf("route %s %s %s", rt.owner.name, rt.method, rt.path)
}

func hookLabel(h *hookEntry) string {
	return fmt.Sprintf("hook %s %s", h.owner.name, h.name)
}
