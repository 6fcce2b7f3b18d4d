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
	"reflect"
)

// invoker is a handler, hook, or constructor prepared for dispatch: the
// function value plus one resolved descriptor per parameter. Invokers are
// built once at compile time so per-request work is argument resolution
// and the call itself.
type invoker struct {
	name       string
	fn         reflect.Value
	params     []Param
	argTypes   []reflect.Type
	returnsErr bool
	hasResult  bool
}

// compileInvoker prepares fn for dispatch. Explicit descriptors override
// inference; leaf descriptors with a statically known value type are
// checked against the parameter type here, so identifier/type mismatches
// surface at compile time rather than on the first request.
func compileInvoker(name string, fn any, explicit []Param) (*invoker, error) {
	if fn == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNilHandler)
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrNotFunc, t)
	}
	returnsErr, err := checkResults(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	params, err := resolveParams(t, explicit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	argTypes := make([]reflect.Type, t.NumIn())
	for i := range t.NumIn() {
		argTypes[i] = t.In(i)
		p := params[i]
		if !p.isLeaf() {
			continue
		}
		if static := leafStaticType(p); static != nil && !static.AssignableTo(argTypes[i]) {
			return nil, fmt.Errorf("%s: %w: parameter %d is %q (%s) but function wants %s",
				name, ErrUnresolvedParam, i, p.kind, static, argTypes[i])
		}
	}

	hasResult := t.NumOut() > 0 && t.Out(0) != errType
	return &invoker{
		name:       name,
		fn:         v,
		params:     params,
		argTypes:   argTypes,
		returnsErr: returnsErr,
		hasResult:  hasResult,
	}, nil
}

// leafStaticType returns the statically known value type for a leaf
// descriptor, or nil when the resolved value's type is dynamic (body,
// response value) or narrowed by a sub-key.
func leafStaticType(p Param) reflect.Type {
	if p.schema != nil || len(p.ops) > 0 {
		return nil // validation may replace the value
	}
	if p.key != "" {
		switch p.kind {
		case KindQuery, KindRouteParams, KindCookies:
			return reflect.TypeOf("")
		default:
			return nil
		}
	}
	switch p.kind {
	case KindURL:
		return urlType
	case KindRequest:
		return requestType
	case KindServer:
		return appType
	case KindResponseInit:
		return configType
	case KindStore:
		return storeType
	case KindRouteParams:
		return routeParamType
	case KindQuery:
		return valuesType
	case KindCookies:
		return cookiesType
	case KindRawResponse:
		return writerType
	case KindContext:
		return ctxType
	default:
		return nil
	}
}

// call resolves arguments from the request scope and invokes the function.
// The boolean result reports whether the call produced a defined value:
// a function with no value result, or one returning a nil interface,
// pointer, map, or slice, produced nothing and never short-circuits.
func (inv *invoker) call(s *requestScope) (result any, defined bool, err error) {
	args := make([]reflect.Value, len(inv.params))
	for i, p := range inv.params {
		if p.isLeaf() {
			v, err := s.resolveLeaf(p, inv.argTypes[i])
			if err != nil {
				return nil, false, fmt.Errorf("%s: %w", inv.name, err)
			}
			args[i] = v
			continue
		}
		v, err := s.app.container.Resolve(p.inject, s)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", inv.name, err)
		}
		if !v.Type().AssignableTo(inv.argTypes[i]) {
			return nil, false, fmt.Errorf("%s: %w: injected %s is not assignable to %s",
				inv.name, ErrUnresolvedParam, v.Type(), inv.argTypes[i])
		}
		args[i] = v
	}

	out := inv.fn.Call(args)
	if inv.returnsErr {
		if errv := out[len(out)-1]; !errv.IsNil() {
			return nil, false, errv.Interface().(error)
		}
	}
	if !inv.hasResult {
		return nil, false, nil
	}
	rv := out[0]
	if isNilValue(rv) {
		return nil, false, nil
	}
	return rv.Interface(), true, nil
}

// isNilValue reports whether a result value counts as "nothing produced".
func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// convertLeaf adapts a resolved leaf value to the declared parameter type.
func convertLeaf(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if v.Type().ConvertibleTo(target) {
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s",
		ErrUnresolvedParam, v.Type(), target)
}
