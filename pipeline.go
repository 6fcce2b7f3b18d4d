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
	"context"
	"fmt"
)

// execute runs the full lifecycle for one request. Stages are strictly
// sequential; hooks within a stage run one after another because later
// hooks may depend on state set by earlier ones. AfterHandle and
// MapResponse run even when an earlier stage short-circuited or failed:
// that is the finally-style guarantee cleanup hooks rely on.
func (app *App) execute(s *requestScope) {
	result, err := func() (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				app.logPanic(s, r)
			}
		}()
		return app.runStages(s)
	}()
	s.result = result

	// Stage 5: after-handle, regardless of how the result was produced.
	for _, h := range s.route.chains[AfterHandle] {
		v, defined, herr := h.inv.call(s)
		if herr != nil {
			err = herr
			continue
		}
		if defined {
			s.result = v
		}
	}

	if err != nil {
		app.applyError(s, err)
	}

	// Stage 6: map-response. The first defined result replaces the raw
	// value and short-circuits the remaining hooks.
	for _, h := range s.route.chains[MapResponse] {
		v, defined, herr := h.inv.call(s)
		if herr != nil {
			app.applyError(s, herr)
			continue
		}
		if defined {
			s.result = v
			break
		}
	}

	app.write(s)

	// Stage 7: after-response, decoupled from the request's lifetime.
	if chain := s.route.chains[AfterResponse]; len(chain) > 0 {
		s.req = s.req.WithContext(context.WithoutCancel(s.req.Context()))
		go app.runAfterResponse(s)
	}
}

// runStages covers stages 1-4: before-request, parse, before-handle, and
// the handler itself. The first defined hook result short-circuits the
// rest of these stages.
func (app *App) runStages(s *requestScope) (any, error) {
	// Stage 1: before-request.
	for _, h := range s.route.chains[BeforeRequest] {
		v, defined, err := h.inv.call(s)
		if err != nil {
			return nil, err
		}
		if defined {
			return v, nil
		}
	}

	// Stage 2: parse, only when something in the chain reads the body.
	if s.route.needsBody {
		if err := app.parseBody(s); err != nil {
			return nil, err
		}
	}

	// Stage 3: before-handle.
	for _, h := range s.route.chains[BeforeHandle] {
		v, defined, err := h.inv.call(s)
		if err != nil {
			return nil, err
		}
		if defined {
			return v, nil
		}
	}

	// Stage 4: the route's own handler or static resource.
	if s.route.entry.static != nil {
		return s.route.entry.static, nil
	}
	v, defined, err := s.route.entry.inv.call(s)
	if err != nil {
		return nil, err
	}
	if !defined {
		return nil, nil // unhandled: materializes as 404
	}
	return v, nil
}

// parseBody fills the request scope's body cache: the first parse hook
// producing a defined value wins; otherwise the body parser collaborator
// is consulted, keyed by Content-Type.
func (app *App) parseBody(s *requestScope) error {
	for _, h := range s.route.chains[Parse] {
		v, defined, err := h.inv.call(s)
		if err != nil {
			return err
		}
		if defined {
			s.body = v
			s.bodyReady = true
			return nil
		}
	}
	v, err := app.parser.Parse(s.req)
	if err != nil {
		return err
	}
	s.body = v
	s.bodyReady = true
	return nil
}

// applyError maps a pipeline error onto the pending response through the
// formatter collaborator: the formatted status and body replace the result,
// and the content type is recorded on the accumulated configuration.
func (app *App) applyError(s *requestScope, err error) {
	resp := app.formatter.Format(s.req, err)
	s.response.status = resp.Status
	if resp.ContentType != "" {
		s.response.setHeader("Content-Type", headerValue{values: []string{resp.ContentType}})
	}
	s.result = resp.Body
}

// runAfterResponse executes the after-response chain as a fire-and-forget
// task. Hook failures and panics are logged and never propagated; a
// supervised runtime must not let them take the server down.
func (app *App) runAfterResponse(s *requestScope) {
	defer func() {
		if r := recover(); r != nil {
			app.logPanic(s, r)
		}
	}()
	for _, h := range s.route.chains[AfterResponse] {
		if _, _, err := h.inv.call(s); err != nil {
			app.logger.Error("after-response hook failed",
				"hook", h.name,
				"route", s.route.entry.path,
				"request_id", s.id,
				"error", err)
		}
	}
}

func (app *App) logPanic(s *requestScope, r any) {
	app.logger.Error("recovered panic",
		"route", s.route.entry.path,
		"request_id", s.id,
		"panic", fmt.Sprint(r))
}
