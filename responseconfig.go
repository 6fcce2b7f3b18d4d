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
	"net/http"
	"slices"
)

// headerValue is one configured header. Multi-valued entries concatenate
// when merged; scalar entries overwrite.
type headerValue struct {
	values []string
	multi  bool
}

// ResponseConfig is a static response contribution: headers, status, and
// status text declared on a controller, mount, or route. Configurations from
// every enclosing scope are merged at compile time, outermost first, so the
// most specific scope wins for status and scalar headers while multi-valued
// headers accumulate.
//
// Example:
//
//	cfg := router.NewResponseConfig(201).
//	    Header("X-Service", "api").
//	    AddHeader("Set-Cookie", "a=1")
type ResponseConfig struct {
	status     int
	statusText string
	headers    map[string]headerValue
}

// NewResponseConfig creates a response configuration with the given status.
// Pass 0 to leave the status to an enclosing scope (or the default).
func NewResponseConfig(status int) *ResponseConfig {
	return &ResponseConfig{status: status}
}

// Header sets a scalar header. On merge a scalar entry replaces any value
// contributed by an enclosing scope.
func (c *ResponseConfig) Header(name, value string) *ResponseConfig {
	c.setHeader(name, headerValue{values: []string{value}})
	return c
}

// AddHeader sets a multi-valued header. On merge multi-valued entries
// concatenate with values from enclosing scopes instead of replacing them.
func (c *ResponseConfig) AddHeader(name string, values ...string) *ResponseConfig {
	c.setHeader(name, headerValue{values: slices.Clone(values), multi: true})
	return c
}

// StatusText sets the status text recorded alongside the status code.
// HTTP/2 has no reason phrase on the wire; the value is surfaced through
// the raw Response shape for callers that render it themselves.
func (c *ResponseConfig) StatusText(text string) *ResponseConfig {
	c.statusText = text
	return c
}

// Status returns the configured status code, or 0 when unset.
func (c *ResponseConfig) Status() int {
	if c == nil {
		return 0
	}
	return c.status
}

func (c *ResponseConfig) setHeader(name string, v headerValue) {
	if c.headers == nil {
		c.headers = make(map[string]headerValue)
	}
	c.headers[http.CanonicalHeaderKey(name)] = v
}

// clone returns a deep copy. A nil receiver clones to an empty config so
// per-request accumulation never mutates compiled state.
func (c *ResponseConfig) clone() *ResponseConfig {
	out := &ResponseConfig{}
	if c == nil {
		return out
	}
	out.status = c.status
	out.statusText = c.statusText
	if c.headers != nil {
		out.headers = make(map[string]headerValue, len(c.headers))
		for k, v := range c.headers {
			out.headers[k] = headerValue{values: slices.Clone(v.values), multi: v.multi}
		}
	}
	return out
}

// merge folds src into c. Headers merge field by field: an incoming
// multi-valued entry concatenates onto whatever is present, an incoming
// scalar entry overwrites. Status and status text follow most-recent-wins.
func (c *ResponseConfig) merge(src *ResponseConfig) {
	if src == nil {
		return
	}
	if src.status != 0 {
		c.status = src.status
	}
	if src.statusText != "" {
		c.statusText = src.statusText
	}
	if len(src.headers) == 0 {
		return
	}
	if c.headers == nil {
		c.headers = make(map[string]headerValue, len(src.headers))
	}
	for name, v := range src.headers {
		if existing, ok := c.headers[name]; ok && v.multi {
			c.headers[name] = headerValue{
				values: append(slices.Clone(existing.values), v.values...),
				multi:  true,
			}
			continue
		}
		c.headers[name] = headerValue{values: slices.Clone(v.values), multi: v.multi}
	}
}

// apply writes the configured headers onto an http.Header.
func (c *ResponseConfig) apply(h http.Header) {
	if c == nil {
		return
	}
	for name, v := range c.headers {
		if v.multi {
			for _, val := range v.values {
				h.Add(name, val)
			}
			continue
		}
		h.Set(name, v.values[0])
	}
}
