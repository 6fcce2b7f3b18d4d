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

// Controller is a named collection of routes and lifecycle hooks, composed
// into larger route tables via Use and Mount. A controller is inert until
// Init enables it; every composition operation on a disabled controller is
// a programming error and fails immediately.
//
// Each registration (route, hook, mount, use) consumes the controller's next
// declaration index. The index drives hook scoping: a before-kind hook
// guards only routes declared after it, an after-kind hook applies only to
// routes declared before it. Ordering is therefore controlled purely by
// registration order.
//
// Example:
//
//	users := router.NewController("users")
//	users.Init("/users", nil)
//	users.Hook(router.BeforeHandle, requireAuth)
//	users.Route("/{id}", getUser, router.Method("GET"))
//
//	api := router.NewController("api")
//	api.Init("/api", nil)
//	api.Mount("/v1", users, nil)
type Controller struct {
	name     string
	enabled  bool
	prefix   string
	response *ResponseConfig

	nextIndex int
	routes    map[string]*pathEntry
	hooks     [hookKindCount][]*hookEntry
	used      [hookKindCount][]*hookEntry
}

// pathEntry is the registration at one path: exclusively a single catch-all
// route or a map keyed by HTTP method, never both.
type pathEntry struct {
	catchAll *RouteEntry
	methods  map[string]*RouteEntry
}

// envRecord is one ancestor mount step on a route's environment chain:
// the mounting controller, the declaration index the mount consumed on it,
// and the mount's own response configuration.
type envRecord struct {
	owner    *Controller
	index    int
	response *ResponseConfig
}

// RouteEntry is the registration of one path (plus optional method) to one
// handler or static resource. A route never loses its declaring controller
// when copied into an ancestor's table by Mount or Use; each mount step
// appends an envRecord instead of replacing identity.
type RouteEntry struct {
	owner    *Controller
	name     string
	index    int
	path     string
	method   string // empty for catch-all
	fn       any
	static   *StaticResource
	params   []Param
	response *ResponseConfig
	env      []envRecord

	inv        *invoker // populated by Compile
	paramNames []string // populated by Compile
}

// RouteOption configures a route registration.
type RouteOption func(*RouteEntry)

// Method restricts the route to one HTTP method. Without it the route is a
// catch-all for its path.
func Method(method string) RouteOption {
	return func(rt *RouteEntry) {
		rt.method = strings.ToUpper(method)
	}
}

// WithResponse attaches a static response configuration to the route.
func WithResponse(cfg *ResponseConfig) RouteOption {
	return func(rt *RouteEntry) {
		rt.response = cfg
	}
}

// WithParams sets explicit parameter descriptors for the handler, overriding
// type-based inference. The descriptor count must match the function arity.
func WithParams(params ...Param) RouteOption {
	return func(rt *RouteEntry) {
		rt.params = params
	}
}

// WithName labels the route for logs and observability.
func WithName(name string) RouteOption {
	return func(rt *RouteEntry) {
		rt.name = name
	}
}

// NewController creates a disabled controller. Call Init to enable it
// before registering routes or composing it with other controllers.
func NewController(name string) *Controller {
	return &Controller{
		name:   name,
		routes: make(map[string]*pathEntry),
	}
}

// Name returns the controller's name.
func (c *Controller) Name() string { return c.name }

// Init enables the controller exactly once, fixing its path prefix and
// static response configuration. Initializing twice is an error.
// The prefix is normalized to start and end with "/".
func (c *Controller) Init(prefix string, cfg *ResponseConfig) error {
	if c.enabled {
		return fmt.Errorf("%w: %s", ErrAlreadyEnabled, c.name)
	}
	c.enabled = true
	c.prefix = normalizePrefix(prefix)
	c.response = cfg
	return nil
}

// MustInit is Init that panics on error.
func (c *Controller) MustInit(prefix string, cfg *ResponseConfig) *Controller {
	if err := c.Init(prefix, cfg); err != nil {
		panic(fmt.Sprintf("router.MustInit: %v", err))
	}
	return c
}

// Route registers a handler at path, optionally restricted to one method via
// the Method option. The path is joined under the controller's prefix.
// Registering the same path/method combination twice, or mixing a catch-all
// with method-keyed routes at one path, is an error.
func (c *Controller) Route(path string, handler any, opts ...RouteOption) error {
	if handler == nil {
		return ErrNilHandler
	}
	return c.addRoute(path, &RouteEntry{fn: handler}, opts)
}

// Static registers a fixed resource at path: a byte body served with the
// given content type. Static routes run through the same lifecycle pipeline
// as handlers, so hooks apply.
func (c *Controller) Static(path string, body []byte, contentType string, opts ...RouteOption) error {
	res := &StaticResource{Body: slices.Clone(body), ContentType: contentType}
	return c.addRoute(path, &RouteEntry{static: res}, opts)
}

func (c *Controller) addRoute(path string, rt *RouteEntry, opts []RouteOption) error {
	if !c.enabled {
		return fmt.Errorf("%w: %s", ErrNotEnabled, c.name)
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.owner = c
	rt.index = c.takeIndex()
	rt.path = joinPrefix(c.prefix, normalizePath(path))
	if rt.name == "" {
		rt.name = rt.path
	}
	return c.insert(rt)
}

// insert places a route into the table, enforcing the path shape invariant.
func (c *Controller) insert(rt *RouteEntry) error {
	entry := c.routes[rt.path]
	if entry == nil {
		entry = &pathEntry{}
		c.routes[rt.path] = entry
	}
	if rt.method == "" {
		if entry.catchAll != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, rt.path)
		}
		if len(entry.methods) > 0 {
			return fmt.Errorf("%w: %s", ErrRouteShape, rt.path)
		}
		entry.catchAll = rt
		return nil
	}
	if entry.catchAll != nil {
		return fmt.Errorf("%w: %s", ErrRouteShape, rt.path)
	}
	if entry.methods == nil {
		entry.methods = make(map[string]*RouteEntry)
	}
	if _, ok := entry.methods[rt.method]; ok {
		return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, rt.method, rt.path)
	}
	entry.methods[rt.method] = rt
	return nil
}

// Hook appends a lifecycle hook of the given kind, stamped with the
// controller's next declaration index.
func (c *Controller) Hook(kind HookKind, fn any, opts ...HookOption) error {
	if !c.enabled {
		return fmt.Errorf("%w: %s", ErrNotEnabled, c.name)
	}
	if !kind.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownHookKind, kind)
	}
	if fn == nil {
		return ErrNilHandler
	}
	h := &hookEntry{owner: c, kind: kind, fn: fn}
	for _, opt := range opts {
		opt(h)
	}
	h.index = c.takeIndex()
	if h.name == "" {
		h.name = fmt.Sprintf("%s#%d", kind, h.index)
	}
	c.hooks[kind] = append(c.hooks[kind], h)
	return nil
}

// Use composes another controller horizontally: its hook entries are copied
// verbatim (keeping their original owner and index) into this controller's
// used-hook lists, where they apply to every route of this controller at
// the same precedence level as its own hooks, including routes added later.
// Its routes are mounted at the root path with this controller recorded as
// an extra environment-chain ancestor. Both controllers must be enabled.
func (c *Controller) Use(other *Controller) error {
	if !c.enabled {
		return fmt.Errorf("%w: %s", ErrNotEnabled, c.name)
	}
	if other == nil || !other.enabled {
		return fmt.Errorf("%w: use target", ErrNotEnabled)
	}
	index := c.takeIndex()
	if err := c.mergeRoutes("/", other, index, nil); err != nil {
		return err
	}
	for kind := range hookKindCount {
		c.used[kind] = append(c.used[kind], other.hooks[kind]...)
		c.used[kind] = append(c.used[kind], other.used[kind]...)
	}
	return nil
}

// Mount composes a sub-controller vertically under path: every route of the
// sub-controller is copied in with its path rewritten and one environment
// record (this controller, the mount's declaration index, cfg) appended to
// its chain. The sub-controller's hooks are not imported; they keep applying
// through the environment chain at dispatch time. Both controllers must be
// enabled, and any path collision fails the whole mount.
func (c *Controller) Mount(path string, sub *Controller, cfg *ResponseConfig) error {
	if !c.enabled {
		return fmt.Errorf("%w: %s", ErrNotEnabled, c.name)
	}
	if sub == nil || !sub.enabled {
		return fmt.Errorf("%w: mount target", ErrNotEnabled)
	}
	return c.mergeRoutes(normalizePrefix(path), sub, c.takeIndex(), cfg)
}

// mergeRoutes copies every route of sub into c's table under mountPrefix.
// Collisions are detected before anything is inserted so a failed mount
// leaves the table unchanged.
func (c *Controller) mergeRoutes(mountPrefix string, sub *Controller, index int, cfg *ResponseConfig) error {
	prefix := joinPrefix(c.prefix, mountPrefix)
	record := envRecord{owner: c, index: index, response: cfg}

	var incoming []*RouteEntry
	for _, entry := range sub.routes {
		if entry.catchAll != nil {
			incoming = append(incoming, entry.catchAll)
		}
		for _, rt := range entry.methods {
			incoming = append(incoming, rt)
		}
	}
	// Deterministic insertion order keeps error messages stable.
	slices.SortFunc(incoming, func(a, b *RouteEntry) int {
		if a.path != b.path {
			return strings.Compare(a.path, b.path)
		}
		return strings.Compare(a.method, b.method)
	})

	for _, rt := range incoming {
		target := joinPrefix(prefix, rt.path)
		if err := c.checkCollision(target, rt.method); err != nil {
			return err
		}
	}
	for _, rt := range incoming {
		mounted := rt.withMount(joinPrefix(prefix, rt.path), record)
		if err := c.insert(mounted); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) checkCollision(path, method string) error {
	entry := c.routes[path]
	if entry == nil {
		return nil
	}
	if method == "" {
		if entry.catchAll != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, path)
		}
		return fmt.Errorf("%w: %s", ErrRouteShape, path)
	}
	if entry.catchAll != nil {
		return fmt.Errorf("%w: %s", ErrRouteShape, path)
	}
	if _, ok := entry.methods[method]; ok {
		return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, method, path)
	}
	return nil
}

// withMount clones the route for insertion into an ancestor's table. The
// clone owns an immutable snapshot of its ancestry: the existing chain is
// copied and the new record appended.
func (rt *RouteEntry) withMount(path string, record envRecord) *RouteEntry {
	clone := *rt
	clone.path = path
	clone.env = append(slices.Clone(rt.env), record)
	return &clone
}

// takeIndex returns the next declaration index. The counter is an explicit
// integer because index comparison is a correctness invariant, not an
// artifact of iteration order.
func (c *Controller) takeIndex() int {
	c.nextIndex++
	return c.nextIndex
}

// normalizePrefix normalizes a prefix to "/.../" form.
func normalizePrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// normalizePath guarantees a leading "/".
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// joinPrefix replaces the leading "/" of path with the prefix.
func joinPrefix(prefix, path string) string {
	if prefix == "/" {
		return path
	}
	if path == "/" {
		return strings.TrimSuffix(prefix, "/")
	}
	return strings.TrimSuffix(prefix, "/") + path
}
