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

// ObservabilityRecorder is notified around every request handled by a
// compiled route. The route argument is the registered pattern, not the
// concrete path, so cardinality stays bounded. The default recorder does
// nothing; see NewPrometheusRecorder for a metrics-backed one.
type ObservabilityRecorder interface {
	// RecordRequestStart is called before the pipeline runs.
	RecordRequestStart(r *http.Request, route string)
	// RecordRequestEnd is called after the response is written.
	RecordRequestEnd(r *http.Request, route string, status int, size int64, elapsed time.Duration)
}

// noopRecorder is the default ObservabilityRecorder.
type noopRecorder struct{}

func (noopRecorder) RecordRequestStart(*http.Request, string) {}

func (noopRecorder) RecordRequestEnd(*http.Request, string, int, int64, time.Duration) {}
