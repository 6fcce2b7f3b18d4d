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

// HookKind identifies the pipeline stage a hook runs in.
//
// Stage order during a request:
//
//	BeforeRequest → Parse → BeforeHandle → handler → AfterHandle → MapResponse → AfterResponse
//
// BeforeRequest, Parse, and BeforeHandle are "before" kinds; AfterHandle,
// MapResponse, and AfterResponse are "after" kinds. The distinction drives
// the declaration-order scoping rules (see Controller).
type HookKind uint8

const (
	// BeforeRequest hooks run first. The first hook that produces a
	// non-nil result short-circuits directly to response materialization.
	BeforeRequest HookKind = iota

	// Parse hooks run only when some handler or hook in the route's chain
	// declares a body parameter. The first non-nil result becomes the
	// parsed body; otherwise the body parser collaborator is consulted.
	Parse

	// BeforeHandle hooks run before the route handler. The first non-nil
	// result short-circuits past the handler.
	BeforeHandle

	// AfterHandle hooks run after the handler (or after any short-circuit)
	// and may replace the pending response value.
	AfterHandle

	// MapResponse hooks run last among the response-affecting stages.
	// The first non-nil result replaces the raw response value and
	// short-circuits the remaining MapResponse hooks.
	MapResponse

	// AfterResponse hooks run asynchronously after the response has been
	// written. They cannot affect the response; failures are logged only.
	AfterResponse

	hookKindCount
)

var hookKindNames = [hookKindCount]string{
	"before-request",
	"parse",
	"before-handle",
	"after-handle",
	"map-response",
	"after-response",
}

// String returns the canonical name of the hook kind.
func (k HookKind) String() string {
	if k >= hookKindCount {
		return "unknown"
	}
	return hookKindNames[k]
}

// valid reports whether the kind is one of the defined stages.
func (k HookKind) valid() bool { return k < hookKindCount }

// isBefore reports whether hooks of this kind run before the handler.
// Before kinds use the strict index < route rule; after kinds use index > route.
func (k HookKind) isBefore() bool { return k <= BeforeHandle }

// hookEntry is one registered hook. Entries keep their declaring controller
// and declaration index even when copied into another controller by Use;
// the index comparison against routes and mounts is the core scoping rule.
type hookEntry struct {
	owner  *Controller
	name   string
	index  int
	kind   HookKind
	fn     any
	params []Param

	inv *invoker // populated by Compile
}

// HookOption configures a hook registration.
type HookOption func(*hookEntry)

// WithHookName labels a hook entry. The label shows up in pipeline error
// messages and after-response failure logs.
func WithHookName(name string) HookOption {
	return func(h *hookEntry) {
		h.name = name
	}
}

// WithHookParams sets explicit parameter descriptors for the hook function,
// overriding type-based inference. The descriptor count must match the
// function arity.
func WithHookParams(params ...Param) HookOption {
	return func(h *hookEntry) {
		h.params = params
	}
}
