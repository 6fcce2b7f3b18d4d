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
	"encoding/json"
	"io"
	"iter"
	"net/http"
)

// Response is the raw platform response shape. A handler returning one
// bypasses value serialization: the body is copied through, the status and
// status text are taken as-is, and the headers merge with the accumulated
// configuration.
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       io.Reader
}

// responseWriter wraps http.ResponseWriter to capture status and size and
// to suppress superfluous WriteHeader calls.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

// WriteHeader captures the status code and prevents duplicate calls.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

// Write captures the response size and marks the response as written.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the HTTP status code written so far, defaulting to 200.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the number of body bytes written.
func (rw *responseWriter) Size() int64 { return rw.size }

// Flush implements http.Flusher when the underlying writer supports it.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// write materializes the pending response value: accumulated headers are
// applied first, then the value decides the body shape. A nil value is
// "unhandled" and becomes a 404-class terminal response with the merged
// headers intact.
func (app *App) write(s *requestScope) {
	if s.w.written {
		return // a handler wrote through the raw response writer
	}
	header := s.w.Header()
	s.response.apply(header)
	header.Set("X-Request-Id", s.id)

	status := s.response.status
	if status == 0 {
		status = http.StatusOK
	}

	switch v := s.result.(type) {
	case nil:
		if s.response.status == 0 {
			status = http.StatusNotFound
		}
		s.w.WriteHeader(status)
	case string:
		setDefaultContentType(header, "text/plain; charset=utf-8")
		s.w.WriteHeader(status)
		io.WriteString(s.w, v)
	case []byte:
		setDefaultContentType(header, "application/octet-stream")
		s.w.WriteHeader(status)
		s.w.Write(v)
	case *StaticResource:
		setDefaultContentType(header, v.ContentType)
		s.w.WriteHeader(status)
		s.w.Write(v.Body)
	case *Response:
		for name, values := range v.Header {
			for _, val := range values {
				header.Add(name, val)
			}
		}
		if v.Status != 0 {
			status = v.Status
		}
		s.w.WriteHeader(status)
		if v.Body != nil {
			io.Copy(s.w, v.Body)
		}
	case iter.Seq[any]:
		app.writeStream(s, header, status, v)
	case <-chan any:
		app.writeChannel(s, header, status, v)
	default:
		setDefaultContentType(header, "application/json; charset=utf-8")
		s.w.WriteHeader(status)
		enc := json.NewEncoder(s.w)
		if err := enc.Encode(v); err != nil {
			app.logger.Error("response encoding failed",
				"route", s.route.entry.path,
				"request_id", s.id,
				"error", err)
		}
	}
}

// writeStream drains a sequence into the response body. The first value is
// the initial chunk; the rest are pulled lazily, interleaved with a
// cancellation check so an aborted request stops the producer promptly.
// The deferred stop runs the producer's cleanup even on early exit.
func (app *App) writeStream(s *requestScope, header http.Header, status int, seq iter.Seq[any]) {
	next, stop := iter.Pull(seq)
	defer stop()

	first, ok := next()
	if !ok {
		s.w.WriteHeader(status)
		return
	}
	setDefaultContentType(header, streamContentType(first))
	s.w.WriteHeader(status)
	writeChunk(s.w, first)
	s.w.Flush()

	done := s.req.Context().Done()
	for {
		select {
		case <-done:
			return
		default:
		}
		v, ok := next()
		if !ok {
			return
		}
		writeChunk(s.w, v)
		s.w.Flush()
	}
}

// writeChannel is writeStream for channel-producing handlers. A closed
// channel ends the stream; request cancellation stops consumption.
func (app *App) writeChannel(s *requestScope, header http.Header, status int, ch <-chan any) {
	done := s.req.Context().Done()

	var first any
	var ok bool
	select {
	case <-done:
		s.w.WriteHeader(status)
		return
	case first, ok = <-ch:
		if !ok {
			s.w.WriteHeader(status)
			return
		}
	}
	setDefaultContentType(header, streamContentType(first))
	s.w.WriteHeader(status)
	writeChunk(s.w, first)
	s.w.Flush()

	for {
		select {
		case <-done:
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			writeChunk(s.w, v)
			s.w.Flush()
		}
	}
}

// writeChunk serializes one stream element: text and bytes pass through,
// anything else is JSON-encoded on its own line.
func writeChunk(w io.Writer, v any) {
	switch c := v.(type) {
	case string:
		io.WriteString(w, c)
	case []byte:
		w.Write(c)
	default:
		data, err := json.Marshal(c)
		if err != nil {
			return
		}
		w.Write(data)
		io.WriteString(w, "\n")
	}
}

func streamContentType(first any) string {
	if _, ok := first.([]byte); ok {
		return "application/octet-stream"
	}
	return "text/plain; charset=utf-8"
}

func setDefaultContentType(h http.Header, ct string) {
	if h.Get("Content-Type") == "" && ct != "" {
		h.Set("Content-Type", ct)
	}
}
