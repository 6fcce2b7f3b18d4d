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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithServiceName("api"), WithOutput(&buf))
	logger.Info("server started", "addr", ":8080")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, ":8080", entry["addr"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLogger_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithHandlerType(TextHandler))
	logger.Warn("disk almost full", "free_mb", 12)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "free_mb=12")
}

func TestLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithLevel(LevelWarn))
	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Error("visible")

	lines := strings.TrimSpace(buf.String())
	assert.Equal(t, 1, strings.Count(lines, "\n")+1)
	assert.Contains(t, lines, "visible")
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf))
	scoped := logger.With("request_id", "abc")
	scoped.Info("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["request_id"])
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(WithOutput(nil))
	assert.Error(t, err)

	_, err = New(WithHandlerType(HandlerType("xml")))
	assert.Error(t, err)
}

func TestFromContext_NoSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf))

	// Without an active span the logger passes through unchanged.
	got := FromContext(context.Background(), logger)
	assert.Same(t, logger, got)

	got.Info("no correlation")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}
