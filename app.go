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

	"github.com/PunchlY/router/binding"
	httperrors "github.com/PunchlY/router/errors"
	"github.com/PunchlY/router/logging"
	"github.com/PunchlY/router/validation"
)

// BodyParser is the body-parsing collaborator: it turns a request body into
// a parsed value, dispatching on the Content-Type header. Unsupported media
// types fail with an error carrying a 415 status.
type BodyParser interface {
	Parse(r *http.Request) (any, error)
}

// Validator is the schema/validation collaborator: it applies parse
// operations and validates the value against a schema, returning the
// (possibly transformed) value or a validation error.
type Validator interface {
	Validate(schema *validation.Schema, ops []validation.Op, value any) (any, error)
}

// defaultValidator adapts the validation package to the Validator interface.
type defaultValidator struct{}

func (defaultValidator) Validate(schema *validation.Schema, ops []validation.Op, value any) (any, error) {
	return validation.Validate(schema, ops, value)
}

// App is a compiled controller tree: the flattened route table with
// precomputed hook chains, hosted on an http.ServeMux. An App is immutable
// after Compile and safe for concurrent use.
//
// Example:
//
//	root := router.NewController("root").MustInit("/", nil)
//	root.Route("/health", func() string { return "ok" }, router.Method("GET"))
//	app := router.MustCompile(root)
//	http.ListenAndServe(":8080", app)
type App struct {
	mux    *http.ServeMux
	routes []*compiledRoute

	registry  *Registry
	container *Container
	store     Store

	parser    BodyParser
	validator Validator
	formatter httperrors.Formatter
	logger    *logging.Logger
	recorder  ObservabilityRecorder
	notFound  http.HandlerFunc
}

// Option configures an App during Compile.
type Option func(*App)

// WithRegistry supplies the injectable type registry. Without it, routes
// and hooks cannot reference injectable types.
func WithRegistry(reg *Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithStore sets the application store exposed through the store
// identifier. The store is populated at startup and read-only afterwards.
func WithStore(store Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithBodyParser replaces the body-parsing collaborator.
func WithBodyParser(p BodyParser) Option {
	return func(a *App) {
		a.parser = p
	}
}

// WithValidator replaces the schema/validation collaborator.
func WithValidator(v Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}

// WithFormatter replaces the error-response formatter.
func WithFormatter(f httperrors.Formatter) Option {
	return func(a *App) {
		a.formatter = f
	}
}

// WithLogger sets the logger used for after-response hook failures and
// panic containment.
func WithLogger(l *logging.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithObservability sets the observability recorder invoked around every
// request. The default recorder does nothing.
func WithObservability(rec ObservabilityRecorder) Option {
	return func(a *App) {
		a.recorder = rec
	}
}

// WithNotFound sets the fallback handler for paths that match no route.
func WithNotFound(h http.HandlerFunc) Option {
	return func(a *App) {
		a.notFound = h
	}
}

// Store returns the application store.
func (a *App) Store() Store { return a.store }

// Logger returns the app's logger.
func (a *App) Logger() *logging.Logger { return a.logger }

// Routes returns the compiled route patterns, for introspection.
func (a *App) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(a.routes))
	for _, rt := range a.routes {
		out = append(out, RouteInfo{
			Method:     rt.entry.method,
			Path:       rt.entry.path,
			Name:       rt.entry.name,
			Controller: rt.entry.owner.name,
		})
	}
	return out
}

// RouteInfo describes one compiled route.
type RouteInfo struct {
	Method     string // empty for catch-all routes
	Path       string
	Name       string
	Controller string
}

func defaultApp() *App {
	return &App{
		mux:       http.NewServeMux(),
		registry:  NewRegistry(),
		store:     Store{},
		parser:    binding.Default(),
		validator: defaultValidator{},
		formatter: httperrors.NewSimple(),
		logger:    logging.MustNew(logging.WithServiceName("router")),
		recorder:  noopRecorder{},
	}
}
