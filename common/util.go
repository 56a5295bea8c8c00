/*
 * Copyright 2023 Comcast Cable Communications Management, LLC
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

package common

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/comcast/fishypdu/buildinfo"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
)

// This is required to have a proper cleanup of the response body
// to have correctly working keep-alive connections
func EmptyAndCloseBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

// BuildRequest builds a basic auth request for a JSON API. A non nil body
// is encoded as JSON.
func BuildRequest(ctx context.Context, method, uri string, cred *Credential, body interface{}) (*retryablehttp.Request, error) {
	var raw []byte

	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body - %v", err)
		}
	}

	var req *retryablehttp.Request
	var err error
	if raw != nil {
		req, err = retryablehttp.NewRequestWithContext(ctx, method, uri, raw)
	} else {
		req, err = retryablehttp.NewRequestWithContext(ctx, method, uri, nil)
	}
	if err != nil || req == nil {
		return nil, fmt.Errorf("failed to build retryable request - %v", err)
	}

	if cred != nil {
		req.SetBasicAuth(cred.User, cred.Pass)
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func DoRequest(client *retryablehttp.Client, req *retryablehttp.Request) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

// NewTransport returns the transport used for every PDU connection. PDUs
// serve a single management session well, so connections are not pooled.
func NewTransport(verify bool) *http.Transport {
	return &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 3 * time.Second,
		}).Dial,
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          1,
		MaxConnsPerHost:       1,
		MaxIdleConnsPerHost:   1,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !verify,
		},
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

func NewHTTPClient(verify bool, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(verify),
	}
}
