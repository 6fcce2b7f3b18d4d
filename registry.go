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
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sync"
)

// Kind is the symbolic token for a well-known parameter identifier.
// Leaf parameter descriptors carry a Kind; the request pipeline resolves
// each Kind against per-request state.
type Kind uint8

const (
	// KindNone marks a descriptor that references an injectable type
	// instead of a leaf value.
	KindNone Kind = iota

	// KindURL resolves to the request URL (*url.URL).
	KindURL
	// KindRequest resolves to the *http.Request.
	KindRequest
	// KindServer resolves to the compiled *App serving the request.
	KindServer
	// KindResponse resolves to the pending response value. Meaningful in
	// AfterHandle and MapResponse hooks; nil elsewhere.
	KindResponse
	// KindResponseInit resolves to the request's accumulated *ResponseConfig.
	// Hooks mutate it to contribute headers or a status.
	KindResponseInit
	// KindStore resolves to the application Store.
	KindStore
	// KindRouteParams resolves to the matched path parameters (map[string]string).
	KindRouteParams
	// KindQuery resolves to the parsed query string (url.Values).
	KindQuery
	// KindCookies resolves to the request cookies ([]*http.Cookie).
	KindCookies
	// KindBody resolves to the parsed request body.
	KindBody
	// KindRawResponse resolves to the raw http.ResponseWriter.
	KindRawResponse
	// KindContext resolves to the request's context.Context.
	KindContext

	kindCount
)

var kindNames = [kindCount]string{
	"inject",
	"url",
	"request",
	"server",
	"response",
	"response-init",
	"store",
	"route-params",
	"query",
	"cookies",
	"body",
	"raw-response",
	"context",
}

// String returns the canonical identifier name for the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Scope is the lifetime and caching policy of an injectable type.
type Scope uint8

const (
	// ScopeSingleton constructs one instance for the process lifetime.
	ScopeSingleton Scope = iota
	// ScopeRequest constructs one instance per request, cached on first
	// resolution within that request. Without a request scope it behaves
	// like ScopeInstance.
	ScopeRequest
	// ScopeInstance constructs a fresh instance on every resolution.
	ScopeInstance
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopeRequest:
		return "request"
	case ScopeInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Store is application-level state populated at startup and exposed to
// handlers through the store identifier. It is read-only at request time.
type Store map[string]any

// provider is one registered injectable constructor.
type provider struct {
	typ        reflect.Type
	scope      Scope
	fn         reflect.Value
	params     []Param
	returnsErr bool
}

// Registry maps injectable types to constructors and scopes.
// Registration happens once at startup; re-registering a type is an error.
// Registration is idempotent-checked, not mutable.
type Registry struct {
	mu        sync.Mutex
	providers map[reflect.Type]*provider
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[reflect.Type]*provider)}
}

// Provide registers a constructor for the type it returns, with the given
// scope. The constructor must be a function returning the constructed value,
// optionally followed by an error. Constructor parameters are described by
// the explicit descriptors, or inferred from the Go parameter types when
// none are given (see InferParam).
//
// Example:
//
//	reg.Provide(func(q url.Values) (*Search, error) {
//	    return parseSearch(q)
//	}, router.ScopeRequest)
func (r *Registry) Provide(ctor any, scope Scope, params ...Param) error {
	if ctor == nil {
		return ErrNilHandler
	}
	fn := reflect.ValueOf(ctor)
	t := fn.Type()
	if t.Kind() != reflect.Func {
		return fmt.Errorf("%w: constructor is %s", ErrNotFunc, t)
	}
	returnsErr, err := checkResults(t)
	if err != nil {
		return err
	}
	if t.NumOut() == 0 || (t.NumOut() == 1 && returnsErr) {
		return fmt.Errorf("%w: constructor must return a value", ErrInvalidSignature)
	}
	resolved, err := resolveParams(t, params)
	if err != nil {
		return err
	}

	produced := t.Out(0)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[produced]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyProvided, produced)
	}
	r.providers[produced] = &provider{
		typ:        produced,
		scope:      scope,
		fn:         fn,
		params:     resolved,
		returnsErr: returnsErr,
	}
	return nil
}

// MustProvide is Provide that panics on error. Use during startup wiring
// where a registration mistake should stop the process.
func (r *Registry) MustProvide(ctor any, scope Scope, params ...Param) {
	if err := r.Provide(ctor, scope, params...); err != nil {
		panic(fmt.Sprintf("router.MustProvide: %v", err))
	}
}

// lookup returns the provider for t, or nil.
func (r *Registry) lookup(t reflect.Type) *provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.providers[t]
}

// checkResults validates a function's result shape: zero results, one value,
// one error, or one value plus a trailing error.
func checkResults(t reflect.Type) (returnsErr bool, err error) {
	switch t.NumOut() {
	case 0:
		return false, nil
	case 1:
		return t.Out(0) == errType, nil
	case 2:
		if t.Out(1) != errType {
			return false, fmt.Errorf("%w: second result must be error", ErrInvalidSignature)
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: at most two results", ErrInvalidSignature)
	}
}

// resolveParams pairs a function's parameters with descriptors. Explicit
// descriptors must match the arity exactly; otherwise each parameter is
// inferred from its Go type.
func resolveParams(t reflect.Type, explicit []Param) ([]Param, error) {
	if len(explicit) > 0 {
		if len(explicit) != t.NumIn() {
			return nil, fmt.Errorf("%w: %d descriptors for %d parameters",
				ErrParamCount, len(explicit), t.NumIn())
		}
		return explicit, nil
	}
	params := make([]Param, t.NumIn())
	for i := range t.NumIn() {
		p, ok := InferParam(t.In(i))
		if !ok {
			return nil, fmt.Errorf("%w: parameter %d (%s)", ErrUnresolvedParam, i, t.In(i))
		}
		params[i] = p
	}
	return params, nil
}

// Well-known reflect types used for inference and leaf conversion.
var (
	errType        = reflect.TypeOf((*error)(nil)).Elem()
	ctxType        = reflect.TypeOf((*context.Context)(nil)).Elem()
	requestType    = reflect.TypeOf((*http.Request)(nil))
	urlType        = reflect.TypeOf((*url.URL)(nil))
	valuesType     = reflect.TypeOf(url.Values(nil))
	writerType     = reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	cookiesType    = reflect.TypeOf([]*http.Cookie(nil))
	storeType      = reflect.TypeOf(Store(nil))
	routeParamType = reflect.TypeOf(map[string]string(nil))
	appType        = reflect.TypeOf((*App)(nil))
	configType     = reflect.TypeOf((*ResponseConfig)(nil))
	anyType        = reflect.TypeOf((*any)(nil)).Elem()
)

// InferParam derives a parameter descriptor from a Go type. Well-known
// request types map to leaf identifiers; any other type becomes an
// injectable reference, checked against the registry at resolution time.
// The second result is false only for types that can never be resolved
// (unnamed interfaces other than the well-known ones).
func InferParam(t reflect.Type) (Param, bool) {
	switch t {
	case ctxType:
		return Ctx(), true
	case requestType:
		return Request(), true
	case urlType:
		return URL(), true
	case valuesType:
		return Query(), true
	case writerType:
		return RawResponse(), true
	case cookiesType:
		return Cookies(), true
	case storeType:
		return StoreParam(), true
	case routeParamType:
		return RouteParams(), true
	case appType:
		return Server(), true
	case configType:
		return ResponseInit(), true
	case anyType:
		// Bare any is ambiguous. Require an explicit descriptor.
		return Param{}, false
	}
	if t.Kind() == reflect.Interface && t.Name() == "" {
		return Param{}, false
	}
	return Param{inject: t}, true
}
