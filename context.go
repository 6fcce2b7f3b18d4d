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
	"net/http"
	"net/url"
	"reflect"

	"github.com/google/uuid"
)

// requestScope is the per-request state: body cache, resolved query and
// route params, the request-scoped DI cache, and the accumulated response
// configuration. It is created when request handling starts, passed
// explicitly through the pipeline, and discarded at the end; nothing in it
// is shared across requests.
type requestScope struct {
	app   *App
	req   *http.Request
	w     *responseWriter
	route *compiledRoute
	id    string

	params    map[string]string
	query     url.Values
	cookies   []*http.Cookie
	hasCookie bool

	body      any
	bodyReady bool

	injected map[reflect.Type]reflect.Value

	response *ResponseConfig
	result   any
}

// newScope builds the request scope, seeding the accumulated response
// configuration from the route's compiled static configuration.
func newScope(app *App, rt *compiledRoute, w *responseWriter, r *http.Request) *requestScope {
	return &requestScope{
		app:      app,
		req:      r,
		w:        w,
		route:    rt,
		id:       uuid.NewString(),
		injected: make(map[reflect.Type]reflect.Value),
		response: rt.response.clone(),
	}
}

// routeParams lazily materializes the matched path parameters from the
// ServeMux pattern values.
func (s *requestScope) routeParams() map[string]string {
	if s.params == nil {
		s.params = make(map[string]string, len(s.route.entry.paramNames))
		for _, name := range s.route.entry.paramNames {
			s.params[name] = s.req.PathValue(name)
		}
	}
	return s.params
}

// queryValues lazily parses the query string once per request.
func (s *requestScope) queryValues() url.Values {
	if s.query == nil {
		s.query = s.req.URL.Query()
	}
	return s.query
}

func (s *requestScope) allCookies() []*http.Cookie {
	if !s.hasCookie {
		s.cookies = s.req.Cookies()
		s.hasCookie = true
	}
	return s.cookies
}

// resolveKind produces the raw value for a leaf identifier.
func (s *requestScope) resolveKind(kind Kind) (any, error) {
	switch kind {
	case KindURL:
		return s.req.URL, nil
	case KindRequest:
		return s.req, nil
	case KindServer:
		return s.app, nil
	case KindResponse:
		return s.result, nil
	case KindResponseInit:
		return s.response, nil
	case KindStore:
		return s.app.store, nil
	case KindRouteParams:
		return s.routeParams(), nil
	case KindQuery:
		return s.queryValues(), nil
	case KindCookies:
		return s.allCookies(), nil
	case KindBody:
		return s.body, nil
	case KindRawResponse:
		return http.ResponseWriter(s.w), nil
	case KindContext:
		return s.req.Context(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// resolveLeaf resolves a leaf descriptor: raw value, optional sub-key
// extraction, parse operations and schema validation, then conversion to
// the declared parameter type.
func (s *requestScope) resolveLeaf(p Param, target reflect.Type) (reflect.Value, error) {
	value, err := s.resolveKind(p.kind)
	if err != nil {
		return reflect.Value{}, err
	}
	if p.key != "" {
		value = extractKey(p.kind, value, p.key)
	}
	if p.schema != nil || len(p.ops) > 0 {
		value, err = s.app.validator.Validate(p.schema, p.ops, value)
		if err != nil {
			return reflect.Value{}, err
		}
	}
	return convertLeaf(value, target)
}

// extractKey narrows a resolved value to one field.
func extractKey(kind Kind, value any, key string) any {
	switch kind {
	case KindQuery:
		if vs, ok := value.(url.Values); ok {
			if _, present := vs[key]; !present {
				return nil
			}
			return vs.Get(key)
		}
	case KindRouteParams:
		if m, ok := value.(map[string]string); ok {
			return m[key]
		}
	case KindCookies:
		if cs, ok := value.([]*http.Cookie); ok {
			for _, ck := range cs {
				if ck.Name == key {
					return ck.Value
				}
			}
			return nil
		}
	case KindStore:
		if st, ok := value.(Store); ok {
			return st[key]
		}
	}
	return extractField(value, key)
}

// extractField pulls one entry out of a dynamic map-like value, used for
// body fields and any other sub-keyed descriptor.
func extractField(value any, key string) any {
	switch m := value.(type) {
	case nil:
		return nil
	case map[string]any:
		return m[key]
	case map[string]string:
		return m[key]
	case url.Values:
		if _, ok := m[key]; !ok {
			return nil
		}
		return m.Get(key)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		mv := rv.MapIndex(reflect.ValueOf(key))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	}
	return nil
}

// RequestID returns the identifier assigned to this request. It is echoed
// on the X-Request-Id response header and attached to pipeline logs.
func (s *requestScope) RequestID() string { return s.id }
