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
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConnection is returned when the device cannot be reached or when an
	// operation is attempted without an open session.
	ErrConnection = errors.New("connection error")
	// ErrSessionClosed is returned by every data and control operation called
	// before Open or after Close.
	ErrSessionClosed = fmt.Errorf("%w: session is not open", ErrConnection)
	// ErrValue marks input that failed parsing or validation.
	ErrValue = errors.New("value error")
	// ErrNotImplemented marks a feature the driver cannot provide.
	ErrNotImplemented = errors.New("not implemented")
)

// HTTPError is returned when the device answers with a status code >= 400.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *HTTPError) Error() string {
	kind := "Server Error"
	if e.StatusCode < 500 {
		kind = "Client Error"
	}
	return fmt.Sprintf("%d %s: %s for url: %s", e.StatusCode, kind, http.StatusText(e.StatusCode), e.URL)
}

// NewHTTPError builds an HTTPError from a response status.
func NewHTTPError(code int, url string) *HTTPError {
	return &HTTPError{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		URL:        url,
	}
}

// StatusCode returns the upstream status carried by err, or 0 when err is
// not an HTTPError.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
