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
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PunchlY/router/logging"
)

func newTestApp(t *testing.T, build func(root *Controller), opts ...Option) *App {
	t.Helper()
	root := NewController("root").MustInit("/", nil)
	build(root)
	opts = append(opts, WithLogger(logging.MustNew(logging.WithOutput(io.Discard))))
	app, err := Compile(root, opts...)
	require.NoError(t, err)
	return app
}

func TestPipeline_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/echo", func(body any) any {
			return body
		}, Method("POST"), WithParams(Body())))
	})

	req := httptest.NewRequest("POST", "/echo", strings.NewReader(`{"name":"ada"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"name":"ada"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestPipeline_BeforeHandleShortCircuit(t *testing.T) {
	t.Parallel()

	var handlerRan bool
	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Hook(BeforeHandle, func() string { return "intercepted" }))
		require.NoError(t, root.Route("/x", func() string {
			handlerRan = true
			return "handler"
		}, Method("GET")))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	assert.Equal(t, "intercepted", w.Body.String())
	assert.False(t, handlerRan, "a defined before-handle result skips the handler")
}

func TestPipeline_NilResultIs404(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/maybe", func() *StaticResource { return nil }, Method("GET")))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/maybe", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPipeline_AfterHandleAlwaysRuns(t *testing.T) {
	t.Parallel()

	var afterRan bool
	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/fail", func() (string, error) {
			return "", errors.New("boom")
		}, Method("GET")))
		require.NoError(t, root.Hook(AfterHandle, func() { afterRan = true }))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))

	assert.True(t, afterRan, "after-handle runs even when the handler failed")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "boom")
}

func TestPipeline_AfterHandleReplacesResult(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/x", func() string { return "raw" }, Method("GET")))
		require.NoError(t, root.Hook(AfterHandle, func(v any) string {
			return "wrapped:" + v.(string)
		}, WithHookParams(ResponseValue())))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, "wrapped:raw", w.Body.String())
}

func TestPipeline_MapResponseFirstDefinedWins(t *testing.T) {
	t.Parallel()

	var secondRan bool
	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/x", func() string { return "v" }, Method("GET")))
		require.NoError(t, root.Hook(MapResponse, func() string { return "first" }))
		require.NoError(t, root.Hook(MapResponse, func() string {
			secondRan = true
			return "second"
		}))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))

	assert.Equal(t, "first", w.Body.String())
	assert.False(t, secondRan, "the first defined map-response result short-circuits")
}

func TestPipeline_ParseHookOverridesBinder(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Hook(Parse, func(r *http.Request) (any, error) {
			if r.Header.Get("Content-Type") == "text/custom" {
				data, err := io.ReadAll(r.Body)
				if err != nil {
					return nil, err
				}
				return "custom:" + string(data), nil
			}
			return nil, nil // fall through to the binder
		}))
		require.NoError(t, root.Route("/x", func(body any) string {
			return body.(string)
		}, Method("POST"), WithParams(Body())))
	})

	req := httptest.NewRequest("POST", "/x", strings.NewReader("payload"))
	req.Header.Set("Content-Type", "text/custom")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	assert.Equal(t, "custom:payload", w.Body.String())

	// Undefined parse result falls back to the body parser collaborator.
	req = httptest.NewRequest("POST", "/x", strings.NewReader("plain payload"))
	req.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	app.ServeHTTP(w, req)
	assert.Equal(t, "plain payload", w.Body.String())
}

func TestPipeline_UnsupportedMediaType(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/x", func(body any) string { return "ok" },
			Method("POST"), WithParams(Body())))
	})

	req := httptest.NewRequest("POST", "/x", strings.NewReader("<x/>"))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestPipeline_PanicContained(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/panic", func() string {
			panic("kaboom")
		}, Method("GET")))
		require.NoError(t, root.Route("/ok", handlerOK, Method("GET")))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "kaboom")

	// The app keeps serving.
	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPipeline_AfterResponseIsolation(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	wg.Add(2)
	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/x", handlerOK, Method("GET")))
		require.NoError(t, root.Hook(AfterResponse, func() error {
			defer wg.Done()
			return errors.New("logged, not surfaced")
		}))
		require.NoError(t, root.Hook(AfterResponse, func() {
			defer wg.Done()
		}))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String(), "after-response cannot affect the written response")

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("after-response hooks did not run")
	}
}

func TestPipeline_ErrorStatusFromHint(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, func(root *Controller) {
		require.NoError(t, root.Route("/teapot", func() (string, error) {
			return "", httpStatusError{status: http.StatusTeapot, msg: "short and stout"}
		}, Method("GET")))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Contains(t, w.Body.String(), "short and stout")
}

type httpStatusError struct {
	status int
	msg    string
}

func (e httpStatusError) Error() string   { return e.msg }
func (e httpStatusError) HTTPStatus() int { return e.status }
