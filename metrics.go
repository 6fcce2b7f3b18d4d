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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder is an ObservabilityRecorder backed by Prometheus:
// a request counter and a duration histogram, labeled by route pattern,
// method, and status class.
//
// Example:
//
//	rec := router.NewPrometheusRecorder(prometheus.DefaultRegisterer)
//	app := router.MustCompile(root, router.WithObservability(rec))
type PrometheusRecorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the recorder's collectors on reg.
// Registering twice on the same registerer panics, as usual for Prometheus
// collectors; create one recorder per process.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "router_requests_total",
			Help: "Requests handled, by route pattern, method, and status.",
		}, []string{"route", "method", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "router_request_duration_seconds",
			Help:    "Request duration in seconds, by route pattern and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// RecordRequestStart implements ObservabilityRecorder.
func (p *PrometheusRecorder) RecordRequestStart(*http.Request, string) {}

// RecordRequestEnd implements ObservabilityRecorder.
func (p *PrometheusRecorder) RecordRequestEnd(r *http.Request, route string, status int, _ int64, elapsed time.Duration) {
	p.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	p.duration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
}
