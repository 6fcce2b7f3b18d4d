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
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ tick int64 }

type session struct{ user string }

func TestRegistry_ProvideValidation(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	assert.ErrorIs(t, reg.Provide(nil, ScopeSingleton), ErrNilHandler)
	assert.ErrorIs(t, reg.Provide(42, ScopeSingleton), ErrNotFunc)
	assert.ErrorIs(t, reg.Provide(func() {}, ScopeSingleton), ErrInvalidSignature)
	assert.ErrorIs(t, reg.Provide(func() error { return nil }, ScopeSingleton), ErrInvalidSignature)
	assert.ErrorIs(t, reg.Provide(func() (int, int) { return 0, 0 }, ScopeSingleton), ErrInvalidSignature)

	require.NoError(t, reg.Provide(func() *clock { return &clock{} }, ScopeSingleton))
	assert.ErrorIs(t, reg.Provide(func() *clock { return nil }, ScopeSingleton), ErrAlreadyProvided)
}

func TestRegistry_DescriptorArity(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	err := reg.Provide(func(q url.Values) *session { return nil }, ScopeRequest,
		Query(), Query())
	assert.ErrorIs(t, err, ErrParamCount)
}

func TestContainer_SingletonCached(t *testing.T) {
	t.Parallel()

	var built atomic.Int64
	reg := NewRegistry()
	reg.MustProvide(func() *clock {
		built.Add(1)
		return &clock{tick: built.Load()}
	}, ScopeSingleton)

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/tick", func(c *clock) int64 { return c.tick }, Method("GET")))
	app := MustCompile(root, WithRegistry(reg))

	for range 3 {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/tick", nil))
		assert.Equal(t, "1\n", w.Body.String())
	}
	assert.Equal(t, int64(1), built.Load(), "singleton constructor runs once")
}

func TestContainer_RequestScopeCachedWithinRequest(t *testing.T) {
	t.Parallel()

	var built atomic.Int64
	reg := NewRegistry()
	reg.MustProvide(func() *session {
		built.Add(1)
		return &session{}
	}, ScopeRequest)

	root := NewController("root").MustInit("/", nil)
	// Two resolutions of the same type within one request.
	require.NoError(t, root.Hook(BeforeHandle, func(s *session) {}))
	require.NoError(t, root.Route("/x", func(s *session) string { return "ok" }, Method("GET")))
	app := MustCompile(root, WithRegistry(reg))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, int64(1), built.Load(), "one instance per request")

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, int64(2), built.Load(), "fresh instance on the next request")
}

func TestContainer_InstanceScopeAlwaysFresh(t *testing.T) {
	t.Parallel()

	var built atomic.Int64
	reg := NewRegistry()
	reg.MustProvide(func() *session {
		built.Add(1)
		return &session{}
	}, ScopeInstance)

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Hook(BeforeHandle, func(s *session) {}))
	require.NoError(t, root.Route("/x", func(s *session) string { return "ok" }, Method("GET")))
	app := MustCompile(root, WithRegistry(reg))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, int64(2), built.Load(), "every resolution constructs")
}

func TestContainer_NotProvided(t *testing.T) {
	t.Parallel()

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/x", func(s *session) string { return "ok" }, Method("GET")))
	app := MustCompile(root)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not provided")
}

func TestContainer_SingletonRejectsRequestLeaf(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	// A singleton constructor reading per-request state is a wiring bug.
	reg.MustProvide(func(q url.Values) *session { return &session{} }, ScopeSingleton)

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/x", func(s *session) string { return "ok" }, Method("GET")))
	app := MustCompile(root, WithRegistry(reg))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "singleton")
}

func TestContainer_ConstructorChain(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.MustProvide(func() *clock { return &clock{tick: 7} }, ScopeSingleton)
	reg.MustProvide(func(c *clock, q url.Values) (*session, error) {
		return &session{user: q.Get("user")}, nil
	}, ScopeRequest)

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/whoami", func(s *session) string { return s.user }, Method("GET")))
	app := MustCompile(root, WithRegistry(reg))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/whoami?user=ada", nil))
	assert.Equal(t, "ada", w.Body.String())
}

func TestContainer_SingletonDependsOnSingleton(t *testing.T) {
	t.Parallel()

	var built atomic.Int64
	reg := NewRegistry()
	reg.MustProvide(func() *clock {
		built.Add(1)
		return &clock{tick: 7}
	}, ScopeSingleton)
	reg.MustProvide(func(c *clock) *session {
		return &session{user: "tick-" + strconv.FormatInt(c.tick, 10)}
	}, ScopeSingleton)

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/whoami", func(s *session) string { return s.user }, Method("GET")))
	app := MustCompile(root, WithRegistry(reg))

	for range 2 {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", "/whoami", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tick-7", w.Body.String())
	}
	assert.Equal(t, int64(1), built.Load(), "inner singleton constructor runs once")
}

func TestInferParam_WellKnownTypes(t *testing.T) {
	t.Parallel()

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/all", func(
		r *http.Request,
		u *url.URL,
		q url.Values,
		params map[string]string,
		cookies []*http.Cookie,
		store Store,
	) string {
		return r.Method + " " + u.Path
	}, Method("GET")))

	app := MustCompile(root)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/all", nil))
	assert.Equal(t, "GET /all", w.Body.String())
}

func TestInferParam_BareAnyRejected(t *testing.T) {
	t.Parallel()

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/x", func(v any) string { return "x" }, Method("GET")))

	_, err := Compile(root)
	assert.ErrorIs(t, err, ErrUnresolvedParam)
}
