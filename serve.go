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
	"time"
)

// ServeHTTP dispatches a request through the compiled route table. Paths
// that match no pattern go to the fallback handler (404 by default).
// App implements http.Handler, so it plugs directly into any net/http
// server; the engine itself owns no sockets.
func (app *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, pattern := app.mux.Handler(r)
	if pattern == "" {
		app.serveFallback(w, r)
		return
	}
	app.mux.ServeHTTP(w, r)
}

// routeHandler adapts one compiled route to http.Handler, wrapping the
// writer for status/size capture and bracketing the pipeline with the
// observability recorder.
func (app *App) routeHandler(rt *compiledRoute) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}
		app.recorder.RecordRequestStart(r, rt.entry.path)

		s := newScope(app, rt, rw, r)
		app.execute(s)

		app.recorder.RecordRequestEnd(r, rt.entry.path, rw.StatusCode(), rw.Size(), time.Since(start))
	})
}

// serveFallback handles unmatched paths. ServeMux method mismatches also
// land here: the engine's contract is a compiled path(+method) mapping plus
// one default fallback, nothing in between.
func (app *App) serveFallback(w http.ResponseWriter, r *http.Request) {
	if app.notFound != nil {
		app.notFound(w, r)
		return
	}
	http.NotFound(w, r)
}
