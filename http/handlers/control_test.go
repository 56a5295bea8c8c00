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

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/comcast/fishypdu/device"
	"github.com/stretchr/testify/assert"
)

const envelopeExpected = `{"status":"success","status_code":204,"content":""}`

func Test_OutletHandler(t *testing.T) {
	assert := assert.New(t)
	stub := &stubPDU{}
	req := httptest.NewRequest(http.MethodPost, "/control/outlet?target=pdu1.example.com&id=AA1&action=off", nil)
	rr := httptest.NewRecorder()

	OutletHandler(stubConfig(stub))(rr, req)

	assert.Equal(http.StatusOK, rr.Code)
	assert.JSONEq(envelopeExpected, rr.Body.String())
	assert.Equal("AA1", stub.outlet)
	assert.Equal("off", stub.action)
	assert.True(stub.closed)
}

func Test_OutletHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		driver func() *ScrapeConfig
		code   int
	}{
		{
			name:   "missing id",
			query:  "target=pdu1.example.com&action=on",
			driver: func() *ScrapeConfig { return stubConfig(&stubPDU{}) },
			code:   http.StatusBadRequest,
		},
		{
			name:   "invalid action",
			query:  "target=pdu1.example.com&id=AA1&action=foo",
			driver: func() *ScrapeConfig { return stubConfig(&stubPDU{err: fmt.Errorf("%w: Action \"foo\" is not supported", device.ErrValue)}) },
			code:   http.StatusBadRequest,
		},
		{
			name:   "unknown outlet",
			query:  "target=pdu1.example.com&id=XX99&action=on",
			driver: func() *ScrapeConfig { return stubConfig(&stubPDU{err: device.NewHTTPError(404, "u")}) },
			code:   http.StatusBadGateway,
		},
		{
			name:   "no power control",
			query:  "target=pdu1.example.com&id=AA1&action=on",
			driver: func() *ScrapeConfig { return stubConfig(readOnly{&stubPDU{}}) },
			code:   http.StatusNotImplemented,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/control/outlet?"+test.query, nil)
			rr := httptest.NewRecorder()

			OutletHandler(test.driver())(rr, req)

			assert.Equal(t, test.code, rr.Code)
		})
	}
}

func Test_RestartHandler(t *testing.T) {
	assert := assert.New(t)
	stub := &stubPDU{}
	req := httptest.NewRequest(http.MethodPost, "/control/restart?target=pdu1.example.com&action=restart", nil)
	rr := httptest.NewRecorder()

	RestartHandler(stubConfig(stub))(rr, req)

	assert.Equal(http.StatusOK, rr.Code)
	assert.JSONEq(envelopeExpected, rr.Body.String())
	assert.Equal("restart", stub.action)
}
