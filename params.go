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
	"reflect"

	"github.com/PunchlY/router/validation"
)

// Param describes how to produce one handler, hook, or constructor argument
// from the current request. It is either a leaf descriptor (identifier plus
// optional sub-key, schema, and parse operations) or a reference to an
// injectable type resolved through the DI container.
//
// Descriptors are built with the fluent constructors in this file. The
// identifier is fixed by the constructor, so a descriptor can never change
// identity after creation.
//
// Example:
//
//	c.Route("/users/{id}", getUser,
//	    router.WithParams(router.RouteParam("id"), router.Body()))
type Param struct {
	kind   Kind
	key    string
	schema *validation.Schema
	ops    []validation.Op
	inject reflect.Type
}

// URL resolves to the request URL.
func URL() Param { return Param{kind: KindURL} }

// Request resolves to the raw *http.Request.
func Request() Param { return Param{kind: KindRequest} }

// Server resolves to the *App handling the request.
func Server() Param { return Param{kind: KindServer} }

// ResponseValue resolves to the pending response value. It is nil before
// the handler stage; AfterHandle and MapResponse hooks receive the value
// produced by the preceding stages.
func ResponseValue() Param { return Param{kind: KindResponse} }

// ResponseInit resolves to the request's accumulated *ResponseConfig.
func ResponseInit() Param { return Param{kind: KindResponseInit} }

// StoreParam resolves to the application Store.
func StoreParam() Param { return Param{kind: KindStore} }

// StoreValue resolves to one application store entry by key.
func StoreValue(key string) Param { return Param{kind: KindStore, key: key} }

// RouteParams resolves to all matched path parameters.
func RouteParams() Param { return Param{kind: KindRouteParams} }

// RouteParam resolves to one matched path parameter by name.
func RouteParam(name string) Param { return Param{kind: KindRouteParams, key: name} }

// Query resolves to the parsed query string.
func Query() Param { return Param{kind: KindQuery} }

// QueryValue resolves to one query parameter by name.
func QueryValue(name string) Param { return Param{kind: KindQuery, key: name} }

// Cookies resolves to the request cookies.
func Cookies() Param { return Param{kind: KindCookies} }

// Cookie resolves to the value of one cookie by name.
func Cookie(name string) Param { return Param{kind: KindCookies, key: name} }

// Body resolves to the parsed request body.
func Body() Param { return Param{kind: KindBody} }

// BodyField resolves to one field of the parsed request body.
func BodyField(name string) Param { return Param{kind: KindBody, key: name} }

// RawResponse resolves to the raw http.ResponseWriter. Writing to it
// bypasses response materialization.
func RawResponse() Param { return Param{kind: KindRawResponse} }

// Ctx resolves to the request's context.Context.
func Ctx() Param { return Param{kind: KindContext} }

// Inject references an injectable type, constructed through the DI
// container according to the type's registered scope.
func Inject[T any]() Param {
	return Param{inject: reflect.TypeOf((*T)(nil)).Elem()}
}

// InjectType is Inject for a reflect.Type known only at runtime.
func InjectType(t reflect.Type) Param { return Param{inject: t} }

// Schema attaches a validation schema to a leaf descriptor. The resolved
// value is validated (after parse operations) before the function runs;
// a failure is surfaced as a recoverable request error.
func (p Param) Schema(s *validation.Schema) Param {
	p.schema = s
	return p
}

// Ops attaches parse operations applied to the resolved value before
// validation, in order.
func (p Param) Ops(ops ...validation.Op) Param {
	p.ops = ops
	return p
}

// isLeaf reports whether the descriptor resolves from request state rather
// than the DI container.
func (p Param) isLeaf() bool { return p.inject == nil }

// declaresBody reports whether the descriptor reads the request body.
func (p Param) declaresBody() bool { return p.kind == KindBody }
