/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Kind tags the shape held by a Response.
type Kind int

const (
	// KindJSON holds a decoded-on-demand JSON document.
	KindJSON Kind = iota
	// KindEnvelope holds a success envelope for a non JSON answer.
	KindEnvelope
	// KindError holds the message of a tolerated HTTP error.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindEnvelope:
		return "envelope"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Envelope is returned for successful answers that carry no JSON document,
// i.e. the 204 replies of control endpoints.
type Envelope struct {
	Status     string `json:"status" yaml:"status"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Content    string `json:"content" yaml:"content"`
}

// Response is the result of a single device API call. Exactly one of Body,
// Envelope or Err is meaningful, as selected by Kind.
type Response struct {
	Kind     Kind
	Body     json.RawMessage
	Envelope Envelope
	Err      string

	// Header holds the response headers of successful calls.
	Header http.Header
}

func NewJSONResponse(body []byte) *Response {
	return &Response{Kind: KindJSON, Body: json.RawMessage(body)}
}

func NewEnvelopeResponse(code int, content string) *Response {
	return &Response{
		Kind: KindEnvelope,
		Envelope: Envelope{
			Status:     "success",
			StatusCode: code,
			Content:    content,
		},
	}
}

func NewErrorResponse(msg string) *Response {
	return &Response{Kind: KindError, Err: msg}
}

// Failed reports whether the response is a tolerated error.
func (r *Response) Failed() bool {
	return r.Kind == KindError
}

// Decode unmarshals a JSON response into v. Every key in required must be
// present in the document, or in each element when the document is an array.
func (r *Response) Decode(v interface{}, required ...string) error {
	if r.Kind != KindJSON {
		return fmt.Errorf("%w: expected a json response, got %s", ErrValue, r.Kind)
	}

	if len(required) > 0 {
		if err := checkRequired(r.Body, required); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: unable to decode response - %s", ErrValue, err.Error())
	}
	return nil
}

// MarshalJSON renders the response the way callers of the device API see it:
// the raw document, the envelope, or {"err": msg}.
func (r *Response) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindJSON:
		return r.Body, nil
	case KindEnvelope:
		return json.Marshal(r.Envelope)
	default:
		return json.Marshal(map[string]string{"err": r.Err})
	}
}

// MarshalYAML mirrors MarshalJSON for yaml encoders.
func (r *Response) MarshalYAML() (interface{}, error) {
	switch r.Kind {
	case KindJSON:
		var doc interface{}
		if err := json.Unmarshal(r.Body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	case KindEnvelope:
		return r.Envelope, nil
	default:
		return map[string]string{"err": r.Err}, nil
	}
}

func checkRequired(body []byte, required []string) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty json document", ErrValue)
	}

	var objects []map[string]json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &objects); err != nil {
			return fmt.Errorf("%w: unable to decode response - %s", ErrValue, err.Error())
		}
	} else {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("%w: unable to decode response - %s", ErrValue, err.Error())
		}
		objects = append(objects, obj)
	}

	for i, obj := range objects {
		var missing []string
		for _, key := range required {
			if _, ok := obj[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: element %d is missing field(s) %s", ErrValue, i, strings.Join(missing, ", "))
		}
	}
	return nil
}
