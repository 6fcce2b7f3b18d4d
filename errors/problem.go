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

package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Problem formats errors as RFC 9457 Problem Details with Content-Type
// "application/problem+json".
type Problem struct {
	// BaseURL is prepended to problem type slugs to form type URIs,
	// e.g. "https://api.example.com/problems" + "/not-found".
	// Empty leaves the type as "about:blank".
	BaseURL string
}

// NewProblem creates an RFC 9457 formatter.
func NewProblem(baseURL string) *Problem {
	return &Problem{BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// ProblemDetail is the RFC 9457 response body. Extension members from
// [ErrorDetails] and [ErrorCode] are marshaled inline.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges extension members inline, protecting the reserved
// member names.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		switch k {
		case "type", "title", "status", "detail", "instance":
		default:
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Format converts err into a problem-details response. The request path
// becomes the instance member.
func (f *Problem) Format(req *http.Request, err error) Response {
	status := statusOf(err)

	detail := ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}
	if req != nil && req.URL != nil {
		detail.Instance = req.URL.Path
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		if f.BaseURL != "" {
			detail.Type = f.BaseURL + "/" + coded.Code()
		}
		detail.Extensions = map[string]any{"code": coded.Code()}
	}
	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		if detail.Extensions == nil {
			detail.Extensions = make(map[string]any, 1)
		}
		detail.Extensions["errors"] = detailed.Details()
	}

	return Response{
		Status:      status,
		ContentType: "application/problem+json",
		Body:        detail,
	}
}
