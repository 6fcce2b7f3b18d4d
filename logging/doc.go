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

// Package logging provides structured logging built on log/slog.
//
//	logger := logging.MustNew(
//	    logging.WithServiceName("api"),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	logger.Info("server started", "addr", addr)
//
// [FromContext] correlates a logger with the OpenTelemetry span in a
// request context, stamping trace_id and span_id on every entry.
package logging
