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

package binding

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// DecodeFunc turns raw body bytes into a parsed value.
type DecodeFunc func(data []byte) (any, error)

// Binder parses request bodies, dispatching on the Content-Type header.
// Use [New] or [MustNew] for a configured Binder, or [Parse] for the
// package default. Binder is safe for concurrent use.
//
// Default media types: JSON, urlencoded and multipart forms, plain text,
// YAML, TOML, and MessagePack. Anything else fails with a
// [*MediaTypeError] (415).
//
// Example:
//
//	binder := binding.MustNew(
//	    binding.WithMaxBodyBytes(1 << 20),
//	    binding.WithDecoder("application/vnd.acme+json", decodeAcme),
//	)
//	value, err := binder.Parse(r)
type Binder struct {
	cfg *config
}

type config struct {
	maxBodyBytes int64
	decoders     map[string]DecodeFunc
}

// Option configures a Binder.
type Option func(*config)

// WithMaxBodyBytes caps the number of body bytes read. Bodies over the cap
// fail with a [*DecodeError]. The default is 4 MiB; zero means no cap.
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) {
		c.maxBodyBytes = n
	}
}

// WithDecoder registers (or replaces) the decoder for a media type.
func WithDecoder(mediaType string, fn DecodeFunc) Option {
	return func(c *config) {
		c.decoders[mediaType] = fn
	}
}

const defaultMaxBodyBytes = 4 << 20

func defaultConfig() *config {
	return &config{
		maxBodyBytes: defaultMaxBodyBytes,
		decoders: map[string]DecodeFunc{
			"application/json":      decodeJSON,
			"application/yaml":      decodeYAML,
			"text/yaml":             decodeYAML,
			"application/toml":      decodeTOML,
			"application/msgpack":   decodeMsgpack,
			"application/x-msgpack": decodeMsgpack,
			"text/plain":            decodeText,
		},
	}
}

// New creates a Binder with the given options.
func New(opts ...Option) (*Binder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxBodyBytes < 0 {
		return nil, fmt.Errorf("binding: max body bytes must be non-negative, got %d", cfg.maxBodyBytes)
	}
	return &Binder{cfg: cfg}, nil
}

// MustNew creates a Binder and panics if configuration is invalid.
func MustNew(opts ...Option) *Binder {
	b, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("binding.MustNew: %v", err))
	}
	return b
}

var (
	defaultBinder     *Binder
	defaultBinderOnce sync.Once
)

// Default returns the shared zero-configuration Binder.
func Default() *Binder {
	defaultBinderOnce.Do(func() {
		defaultBinder = MustNew()
	})
	return defaultBinder
}

// Parse parses the request body with the package default Binder.
func Parse(r *http.Request) (any, error) {
	return Default().Parse(r)
}

// Parse reads the request body and decodes it according to the
// Content-Type header. Form media types decode to map[string]any with
// single values flattened to strings; the structured media types decode to
// the generic shapes their codecs produce. A missing or empty body parses
// to nil without error.
func (b *Binder) Parse(r *http.Request) (any, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		if r.Body == nil || r.ContentLength == 0 {
			return nil, nil
		}
		return nil, &MediaTypeError{ContentType: ""}
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, &MediaTypeError{ContentType: ct}
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		return b.parseForm(r)
	case "multipart/form-data":
		return b.parseMultipart(r)
	}

	decode, ok := b.cfg.decoders[mediaType]
	if !ok {
		return nil, &MediaTypeError{ContentType: mediaType}
	}
	data, err := b.readBody(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	v, err := decode(data)
	if err != nil {
		return nil, &DecodeError{ContentType: mediaType, Err: err}
	}
	return v, nil
}

func (b *Binder) readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body := io.Reader(r.Body)
	if b.cfg.maxBodyBytes > 0 {
		body = io.LimitReader(body, b.cfg.maxBodyBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if b.cfg.maxBodyBytes > 0 && int64(len(data)) > b.cfg.maxBodyBytes {
		return nil, &DecodeError{Err: ErrBodyTooLarge}
	}
	return data, nil
}

func (b *Binder) parseForm(r *http.Request) (any, error) {
	data, err := b.readBody(r)
	if err != nil {
		return nil, err
	}
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, &DecodeError{ContentType: "application/x-www-form-urlencoded", Err: err}
	}
	return flattenValues(values), nil
}

func (b *Binder) parseMultipart(r *http.Request) (any, error) {
	limit := b.cfg.maxBodyBytes
	if limit == 0 {
		limit = defaultMaxBodyBytes
	}
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, &DecodeError{ContentType: "multipart/form-data", Err: err}
	}
	return flattenValues(url.Values(r.MultipartForm.Value)), nil
}

// flattenValues converts form values to a body map, keeping single values
// as plain strings so sub-key extraction behaves like the other codecs.
func flattenValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		out[k] = vs
	}
	return out
}

func decodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeTOML(data []byte) (any, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeMsgpack(data []byte) (any, error) {
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeText(data []byte) (any, error) {
	return string(data), nil
}

// To rebinds a parsed generic value into a typed destination, usually a
// struct pointer. It round-trips through JSON so the destination's json
// tags apply.
func To(value any, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &DecodeError{Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
