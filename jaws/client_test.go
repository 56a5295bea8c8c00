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

package jaws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/device"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /jaws/monitor/system", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Server", "ServerTech-PRO2/v8.0r")
		_, _ = w.Write([]byte(`{"status":"Normal"}`))
	})
	mux.HandleFunc("PATCH /jaws/control/outlets/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /jaws/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(ctx context.Context, srv *httptest.Server, opts Options) *Client {
	u, _ := url.Parse(srv.URL)
	return NewClient(ctx, u.Host, &common.Credential{User: "admn", Pass: "admn"}, opts)
}

func Test_Client_URL(t *testing.T) {
	assert := assert.New(t)

	c := NewClient(t.Context(), "10.0.0.5", nil, Options{})
	assert.Equal("10.0.0.5", c.Host())
	assert.Equal("https://10.0.0.5/jaws/monitor/system", c.URL("/monitor/system"))
}

func Test_Client_Request(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(t.Context(), srv, Options{Timeout: 5 * time.Second})

	t.Run("json", func(t *testing.T) {
		assert := assert.New(t)
		res, err := c.Get(t.Context(), "/monitor/system")
		assert.NoError(err)
		assert.Equal(device.KindJSON, res.Kind)
		assert.JSONEq(`{"status":"Normal"}`, string(res.Body))
		assert.Equal("ServerTech-PRO2/v8.0r", res.Header.Get("Server"))
	})

	t.Run("envelope", func(t *testing.T) {
		assert := assert.New(t)
		res, err := c.Patch(t.Context(), "/control/outlets/AA1", map[string]string{"control_action": "on"})
		assert.NoError(err)
		assert.Equal(device.KindEnvelope, res.Kind)
		assert.Equal(device.Envelope{Status: "success", StatusCode: http.StatusNoContent}, res.Envelope)

		res, err = c.Get(t.Context(), "/text")
		assert.NoError(err)
		assert.Equal(device.Envelope{Status: "success", StatusCode: http.StatusOK, Content: "ok"}, res.Envelope)
	})

	t.Run("strict error", func(t *testing.T) {
		assert := assert.New(t)
		_, err := c.Get(t.Context(), "/monitor/missing")
		var httpErr *device.HTTPError
		assert.ErrorAs(err, &httpErr)
		assert.Equal(http.StatusNotFound, httpErr.StatusCode)
		assert.Equal(c.URL("/monitor/missing"), httpErr.URL)
		assert.Contains(err.Error(), "404 Client Error: Not Found for url:")
	})

	t.Run("tolerant error", func(t *testing.T) {
		assert := assert.New(t)
		res, err := c.GetTolerant(t.Context(), "/monitor/missing")
		assert.NoError(err)
		assert.True(res.Failed())
		assert.Contains(res.Err, "404 Client Error")
	})
}

func Test_Client_TransportError(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)

	// certificate of the test server is not trusted
	c := testClient(t.Context(), srv, Options{Timeout: 5 * time.Second, Verify: true})
	_, err := c.Get(t.Context(), "/monitor/system")
	assert.ErrorIs(err, device.ErrConnection)

	c = NewClient(t.Context(), "127.0.0.1:1", nil, Options{Timeout: time.Second})
	_, err = c.GetTolerant(t.Context(), "/monitor/system")
	assert.ErrorIs(err, device.ErrConnection)
}

func Test_Client_ResponseWithError(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	c := testClient(t.Context(), srv, Options{Timeout: 5 * time.Second})

	rejected := errors.New("rejected by retry policy")
	var seen bool
	c.http.CheckRetry = func(_ context.Context, resp *http.Response, _ error) (bool, error) {
		seen = resp != nil
		return false, rejected
	}

	res, err := c.Get(t.Context(), "/monitor/system")
	assert.True(seen)
	assert.Nil(res)
	assert.ErrorIs(err, device.ErrConnection)
	assert.ErrorIs(err, rejected)

	_, err = c.GetTolerant(t.Context(), "/monitor/system")
	assert.ErrorIs(err, rejected)
}

func Test_Client_ProxyOverride(t *testing.T) {
	assert := assert.New(t)

	var seen string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer proxy.Close()

	ctx := WithProxyURL(t.Context(), proxy.Listener.Addr().String())
	c := NewClient(ctx, "pdu1.invalid", nil, Options{Timeout: 5 * time.Second, Scheme: "http"})

	res, err := c.Get(t.Context(), "/monitor/outlets")
	assert.NoError(err)
	assert.Equal(device.KindJSON, res.Kind)
	assert.Equal("http://pdu1.invalid/jaws/monitor/outlets", seen)
}
