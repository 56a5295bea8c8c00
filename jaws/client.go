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

// Package jaws is a small client for the JSON API served by ServerTech PDUs
// under https://<host>/jaws.
package jaws

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/middleware/logging"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	// BasePath prefixes every API resource.
	BasePath = "/jaws"

	DefaultTimeout = 60 * time.Second
)

// Options configures a Client.
type Options struct {
	Timeout time.Duration
	// Verify enables TLS peer verification.
	Verify bool
	// Scheme defaults to https.
	Scheme string
}

// Client issues requests against a single device.
type Client struct {
	host    string
	baseURL string
	cred    *common.Credential
	http    *retryablehttp.Client
	log     *zap.Logger
}

// NewClient returns a client for host authenticating with cred. The proxy
// override carried by ctx, if any, is applied to every request.
func NewClient(ctx context.Context, host string, cred *common.Credential, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Scheme == "" {
		opts.Scheme = "https"
	}

	log := zap.L().With(zap.String("target", host))

	return &Client{
		host:    host,
		baseURL: (&url.URL{Scheme: opts.Scheme, Host: host, Path: BasePath}).String(),
		cred:    cred,
		http:    newHTTPClient(ctx, opts, log),
		log:     log,
	}
}

// newHTTPClient builds a retryablehttp client that never retries; retry
// policy belongs to whoever drives the client.
func newHTTPClient(ctx context.Context, opts Options, log *zap.Logger) *retryablehttp.Client {
	tr := common.NewTransport(opts.Verify)

	if p := proxyURLFromContext(ctx); p != nil {
		proxy := *p
		tr.Proxy = func(r *http.Request) (*url.URL, error) { return &proxy, nil }
	}

	retryClient := retryablehttp.NewClient()
	retryClient.CheckRetry = noRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Transport = tr
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, r *http.Request, _ int) {
		log.Debug("jaws request", zap.String("method", r.Method), zap.String("url", r.URL.String()),
			zap.Any("trace_id", r.Context().Value(logging.TraceIDKey("traceID"))))
	}

	return retryClient
}

func noRetryPolicy(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, nil
}

// Host returns the device address the client talks to.
func (c *Client) Host() string {
	return c.host
}

// URL returns the absolute URL of an API path.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Request sends method to path with an optional JSON body.
//
// A status >= 400 is returned as a *device.HTTPError, unless tolerant is set,
// in which case a KindError response carrying the error text is returned
// instead. Successful JSON answers are returned as KindJSON, anything else as
// a success KindEnvelope. Transport failures wrap device.ErrConnection.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}, tolerant bool) (*device.Response, error) {
	uri := c.URL(path)

	req, err := common.BuildRequest(ctx, method, uri, c.cred, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := common.DoRequest(c.http, req)
	if err != nil || resp == nil {
		// the passthrough error handler hands back the response along with
		// the error
		if resp != nil {
			common.EmptyAndCloseBody(resp)
		}
		if err == nil {
			err = fmt.Errorf("no response received")
		}
		return nil, fmt.Errorf("%w: %s %s - %w", device.ErrConnection, method, uri, err)
	}
	defer common.EmptyAndCloseBody(resp)

	c.log.Debug("jaws response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Float64("elapsed_time_sec", time.Since(start).Seconds()),
		zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := device.NewHTTPError(resp.StatusCode, uri)
		if tolerant {
			c.log.Warn("tolerated jaws error", zap.String("path", path), zap.Error(httpErr),
				zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))
			return device.NewErrorResponse(httpErr.Error()), nil
		}
		return nil, httpErr
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response body from %s - %w", device.ErrConnection, uri, err)
	}

	var res *device.Response
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		res = device.NewJSONResponse(payload)
	} else {
		res = device.NewEnvelopeResponse(resp.StatusCode, string(payload))
	}
	res.Header = resp.Header

	return res, nil
}

// Get is a strict GET.
func (c *Client) Get(ctx context.Context, path string) (*device.Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, false)
}

// GetTolerant is a GET whose HTTP errors come back as a KindError response.
func (c *Client) GetTolerant(ctx context.Context, path string) (*device.Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, true)
}

// Patch is a strict PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*device.Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, false)
}

// Close releases the idle connections held by the client.
func (c *Client) Close() {
	c.http.HTTPClient.CloseIdleConnections()
}
