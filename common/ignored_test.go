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

package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IgnoredRegistry(t *testing.T) {
	assert := assert.New(t)

	r := IgnoredRegistry{devices: make(map[string]IgnoredDevice)}
	r.Add(IgnoredDevice{Name: "pdu2"})
	r.Add(IgnoredDevice{Name: "pdu1"})

	d, ok := r.Get("pdu1")
	assert.True(ok)
	assert.False(d.Since.IsZero())

	list := r.List()
	assert.Len(list, 2)
	assert.Equal("pdu1", list[0].Name)

	r.Remove("pdu1")
	_, ok = r.Get("pdu1")
	assert.False(ok)
}

func Test_TestConn(t *testing.T) {
	pdu := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		if r.URL.Path != "/jaws/monitor/system" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if user != "admn" || pass != "admn" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer pdu.Close()

	IgnoredDevices.Add(IgnoredDevice{Name: "pdu1", Endpoint: pdu.URL + "/jaws/monitor/system"})
	IgnoredDevices.Add(IgnoredDevice{Name: "pdu2", Endpoint: pdu.URL + "/jaws/monitor/system"})
	PDUCreds.Set("pdu2", &Credential{User: "stale", Pass: "stale"})
	defer IgnoredDevices.Remove("pdu1")
	defer IgnoredDevices.Remove("pdu2")

	tests := []struct {
		name     string
		body     string
		code     int
		expected bool
	}{
		{name: "good credentials", body: `{"host":"pdu1"}`, code: http.StatusOK, expected: true},
		{name: "stale cache is refreshed", body: `{"host":"pdu2"}`, code: http.StatusOK, expected: true},
		{name: "not ignored", body: `{"host":"pdu9"}`, code: http.StatusNotFound},
		{name: "bad body", body: `{`, code: http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			req := httptest.NewRequest(http.MethodPost, "/ignored/test-conn", strings.NewReader(test.body))
			rr := httptest.NewRecorder()
			TestConn(rr, req)

			assert.Equal(test.code, rr.Code)
			var resp map[string]interface{}
			assert.NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(test.expected, resp["connectionTest"])
		})
	}
}

func Test_RemoveHost(t *testing.T) {
	assert := assert.New(t)

	IgnoredDevices.Add(IgnoredDevice{Name: "pdu5"})
	PDUCreds.Set("pdu5", &Credential{User: "a", Pass: "b"})

	rr := httptest.NewRecorder()
	RemoveHost(rr, httptest.NewRequest(http.MethodPost, "/ignored/remove", strings.NewReader(`{"host":"pdu5"}`)))

	assert.Equal(http.StatusOK, rr.Code)
	_, ok := IgnoredDevices.Get("pdu5")
	assert.False(ok)
	_, ok = PDUCreds.Get("pdu5")
	assert.False(ok)
}
