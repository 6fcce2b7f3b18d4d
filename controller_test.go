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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handlerOK() string { return "ok" }

func TestController_InitOnce(t *testing.T) {
	t.Parallel()

	c := NewController("users")
	require.NoError(t, c.Init("/users", nil))

	err := c.Init("/users", nil)
	assert.ErrorIs(t, err, ErrAlreadyEnabled)
}

func TestController_OperationsRequireInit(t *testing.T) {
	t.Parallel()

	c := NewController("users")

	assert.ErrorIs(t, c.Route("/a", handlerOK), ErrNotEnabled)
	assert.ErrorIs(t, c.Hook(BeforeHandle, handlerOK), ErrNotEnabled)
	assert.ErrorIs(t, c.Static("/s", []byte("x"), "text/plain"), ErrNotEnabled)

	other := NewController("other").MustInit("/", nil)
	assert.ErrorIs(t, c.Use(other), ErrNotEnabled)
	assert.ErrorIs(t, c.Mount("/v1", other, nil), ErrNotEnabled)

	// The uninitialized side of a composition fails too.
	assert.ErrorIs(t, other.Use(c), ErrNotEnabled)
	assert.ErrorIs(t, other.Mount("/v1", c, nil), ErrNotEnabled)
}

func TestController_PrefixNormalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		prefix string
		path   string
		want   string
	}{
		{"bare prefix", "users", "/list", "/users/list"},
		{"no slashes", "users", "list", "/users/list"},
		{"trailing slash", "/users/", "/list", "/users/list"},
		{"empty prefix", "", "/list", "/list"},
		{"root prefix", "/", "/list", "/list"},
		{"root path", "/users", "/", "/users"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := NewController("c").MustInit(tc.prefix, nil)
			require.NoError(t, c.Route(tc.path, handlerOK, Method("GET")))

			app := MustCompile(c)
			routes := app.Routes()
			require.Len(t, routes, 1)
			assert.Equal(t, tc.want, routes[0].Path)
		})
	}
}

func TestController_DuplicateRoute(t *testing.T) {
	t.Parallel()

	c := NewController("c").MustInit("/", nil)
	require.NoError(t, c.Route("/a", handlerOK, Method("GET")))

	assert.ErrorIs(t, c.Route("/a", handlerOK, Method("GET")), ErrDuplicateRoute)
	// Another method at the same path is fine.
	assert.NoError(t, c.Route("/a", handlerOK, Method("POST")))
}

func TestController_CatchAllMethodExclusive(t *testing.T) {
	t.Parallel()

	c := NewController("c").MustInit("/", nil)
	require.NoError(t, c.Route("/a", handlerOK)) // catch-all

	assert.ErrorIs(t, c.Route("/a", handlerOK, Method("GET")), ErrRouteShape)
	assert.ErrorIs(t, c.Route("/a", handlerOK), ErrDuplicateRoute)

	d := NewController("d").MustInit("/", nil)
	require.NoError(t, d.Route("/b", handlerOK, Method("GET")))
	assert.ErrorIs(t, d.Route("/b", handlerOK), ErrRouteShape)
}

func TestController_NilHandler(t *testing.T) {
	t.Parallel()

	c := NewController("c").MustInit("/", nil)
	assert.ErrorIs(t, c.Route("/a", nil), ErrNilHandler)
	assert.ErrorIs(t, c.Hook(BeforeHandle, nil), ErrNilHandler)
}

func TestController_UnknownHookKind(t *testing.T) {
	t.Parallel()

	c := NewController("c").MustInit("/", nil)
	assert.ErrorIs(t, c.Hook(HookKind(99), handlerOK), ErrUnknownHookKind)
}

func TestMount_PathRewriting(t *testing.T) {
	t.Parallel()

	sub := NewController("users").MustInit("/users", nil)
	require.NoError(t, sub.Route("/", handlerOK, Method("GET")))
	require.NoError(t, sub.Route("/{id}", handlerOK, Method("GET")))
	require.NoError(t, sub.Route("/", handlerOK, Method("POST")))

	root := NewController("api").MustInit("/api", nil)
	require.NoError(t, root.Route("/health", handlerOK, Method("GET")))
	require.NoError(t, root.Mount("/v1", sub, nil))

	app := MustCompile(root)
	got := make(map[string]bool)
	for _, rt := range app.Routes() {
		got[rt.Method+" "+rt.Path] = true
	}

	assert.True(t, got["GET /api/health"])
	assert.True(t, got["GET /api/v1/users"])
	assert.True(t, got["GET /api/v1/users/{id}"])
	assert.True(t, got["POST /api/v1/users"])
}

func TestMount_CollisionLeavesTableUnchanged(t *testing.T) {
	t.Parallel()

	sub := NewController("sub").MustInit("/", nil)
	require.NoError(t, sub.Route("/a", handlerOK, Method("GET")))
	require.NoError(t, sub.Route("/b", handlerOK, Method("GET")))

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Route("/v1/a", handlerOK, Method("GET")))

	err := root.Mount("/v1", sub, nil)
	require.ErrorIs(t, err, ErrDuplicateRoute)

	// Nothing from the failed mount leaked into the table.
	app := MustCompile(root)
	require.Len(t, app.Routes(), 1)
	assert.Equal(t, "/v1/a", app.Routes()[0].Path)
}

func TestMount_RouteKeepsOwner(t *testing.T) {
	t.Parallel()

	sub := NewController("users").MustInit("/", nil)
	require.NoError(t, sub.Route("/list", handlerOK, Method("GET")))

	root := NewController("api").MustInit("/", nil)
	require.NoError(t, root.Mount("/v1", sub, nil))

	app := MustCompile(root)
	require.Len(t, app.Routes(), 1)
	assert.Equal(t, "users", app.Routes()[0].Controller,
		"a mounted route keeps its declaring controller")
}

func TestUse_RoutesMergedAtRoot(t *testing.T) {
	t.Parallel()

	shared := NewController("shared").MustInit("/", nil)
	require.NoError(t, shared.Route("/ping", handlerOK, Method("GET")))

	root := NewController("root").MustInit("/", nil)
	require.NoError(t, root.Use(shared))

	app := MustCompile(root)
	require.Len(t, app.Routes(), 1)
	assert.Equal(t, "/ping", app.Routes()[0].Path)
}

func TestUse_TransitiveHooks(t *testing.T) {
	t.Parallel()

	inner := NewController("inner").MustInit("/", nil)
	require.NoError(t, inner.Hook(BeforeHandle, func() {}))

	middle := NewController("middle").MustInit("/", nil)
	require.NoError(t, middle.Use(inner))

	outer := NewController("outer").MustInit("/", nil)
	require.NoError(t, outer.Use(middle))
	require.NoError(t, outer.Route("/x", handlerOK, Method("GET")))

	// Compiles with the transitively used hook wired into the chain.
	app := MustCompile(outer)
	require.Len(t, app.routes, 1)
	assert.Len(t, app.routes[0].chains[BeforeHandle], 1)
}
