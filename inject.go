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
	"sync"
)

// Container constructs and caches injectable instances according to their
// registered scope. Singleton instances are cached for the process lifetime;
// request-scoped instances are cached on the request scope passed to
// Resolve; instance-scoped types are built fresh every time.
//
// The container is safe for concurrent use. Registration must complete
// before the first request is served; the singleton table is then the only
// mutable shared state and it is guarded.
type Container struct {
	registry *Registry

	mu         sync.Mutex
	singletons map[reflect.Type]*singleton
}

// singleton is one cached singleton slot. The once runs the construction;
// the container mutex only guards the table itself, so a constructor is
// free to resolve other singletons.
type singleton struct {
	once sync.Once
	v    reflect.Value
	err  error
}

// NewContainer creates a container over the given registry.
func NewContainer(registry *Registry) *Container {
	return &Container{
		registry:   registry,
		singletons: make(map[reflect.Type]*singleton),
	}
}

// Resolve constructs (or returns the cached) instance of t. The request
// scope carries the per-request instance cache and the request state leaf
// constructor parameters resolve from; it may be nil outside a request,
// in which case request-scoped types behave like instance-scoped ones and
// leaf parameters fail.
func (c *Container) Resolve(t reflect.Type, s *requestScope) (reflect.Value, error) {
	p := c.registry.lookup(t)
	if p == nil {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotProvided, t)
	}

	switch p.scope {
	case ScopeSingleton:
		return c.resolveSingleton(p)
	case ScopeRequest:
		if s == nil {
			return c.construct(p, nil)
		}
		if v, ok := s.injected[t]; ok {
			return v, nil
		}
		v, err := c.construct(p, s)
		if err != nil {
			return reflect.Value{}, err
		}
		s.injected[t] = v
		return v, nil
	default: // ScopeInstance
		return c.construct(p, s)
	}
}

// resolveSingleton builds the instance once and caches the outcome, a
// construction error included. A singleton
// whose constructor requires request-scoped data is a configuration error
// and fails fast at the first construction attempt, with no request scope
// available to mask it.
func (c *Container) resolveSingleton(p *provider) (reflect.Value, error) {
	c.mu.Lock()
	s, ok := c.singletons[p.typ]
	if !ok {
		s = &singleton{}
		c.singletons[p.typ] = s
	}
	c.mu.Unlock()

	s.once.Do(func() {
		for i, param := range p.params {
			if param.isLeaf() {
				s.err = fmt.Errorf("%w: %s parameter %d is %q",
					ErrSingletonRequestParam, p.typ, i, param.kind)
				return
			}
		}
		s.v, s.err = c.construct(p, nil)
	})
	return s.v, s.err
}

// construct invokes the provider's constructor, recursively resolving each
// parameter descriptor: injectable references go back through Resolve,
// leaf descriptors resolve from the request scope.
func (c *Container) construct(p *provider, s *requestScope) (reflect.Value, error) {
	args := make([]reflect.Value, len(p.params))
	for i, param := range p.params {
		if !param.isLeaf() {
			v, err := c.Resolve(param.inject, s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("construct %s: %w", p.typ, err)
			}
			args[i] = v
			continue
		}
		if s == nil {
			return reflect.Value{}, fmt.Errorf("%w: %s parameter %d is %q",
				ErrSingletonRequestParam, p.typ, i, param.kind)
		}
		v, err := s.resolveLeaf(param, p.fn.Type().In(i))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("construct %s: %w", p.typ, err)
		}
		args[i] = v
	}

	out := p.fn.Call(args)
	if p.returnsErr {
		if errv := out[len(out)-1]; !errv.IsNil() {
			return reflect.Value{}, fmt.Errorf("construct %s: %w", p.typ, errv.Interface().(error))
		}
	}
	return out[0], nil
}
