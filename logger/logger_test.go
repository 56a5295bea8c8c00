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

package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func Test_Initialize_File(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	err := Initialize("fishypdu", "host1", LoggerConfig{
		LogLevel:  "debug",
		LogMethod: MethodFile,
		LogFile:   LogFile{Path: dir, MaxSize: 1, MaxBackups: 1, MaxAge: 1},
	})
	assert.NoError(err)

	zap.L().Debug("hello file", zap.String("target", "pdu1"))
	Flush()

	raw, err := os.ReadFile(filepath.Join(dir, "fishypdu.log"))
	assert.NoError(err)
	assert.Contains(string(raw), `"msg":"hello file"`)
	assert.Contains(string(raw), `"app":"fishypdu"`)
	assert.Contains(string(raw), `"host":"host1"`)
	assert.Contains(string(raw), `"target":"pdu1"`)
}

func Test_Initialize_Vector(t *testing.T) {
	assert := assert.New(t)

	var mu sync.Mutex
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := Initialize("fishypdu", "host1", LoggerConfig{
		LogLevel:       "info",
		LogMethod:      MethodVector,
		VectorEndpoint: srv.URL,
	})
	assert.NoError(err)

	zap.L().Info("hello vector")
	zap.L().Debug("filtered out")

	mu.Lock()
	defer mu.Unlock()
	assert.Len(received, 1)
	assert.True(strings.Contains(received[0], `"msg":"hello vector"`))
}

func Test_Initialize_Errors(t *testing.T) {
	assert := assert.New(t)

	assert.Error(Initialize("fishypdu", "", LoggerConfig{LogMethod: "syslog"}))
	assert.Error(Initialize("fishypdu", "", LoggerConfig{LogMethod: MethodVector, VectorEndpoint: "::"}))
}

func Test_Verbosity(t *testing.T) {
	assert := assert.New(t)

	SetLevel("warn")

	rr := httptest.NewRecorder()
	Verbosity(rr, httptest.NewRequest(http.MethodGet, "/verbosity", nil))
	assert.Equal(http.StatusOK, rr.Code)
	assert.JSONEq(`{"verbosity":"warn"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	SetVerbosity(rr, httptest.NewRequest(http.MethodPut, "/verbosity?v=debug", nil))
	assert.Equal(http.StatusNoContent, rr.Code)
	assert.Equal("debug", GetLevel())

	rr = httptest.NewRecorder()
	SetVerbosity(rr, httptest.NewRequest(http.MethodPut, "/verbosity", nil))
	assert.Equal(http.StatusBadRequest, rr.Code)

	SetLevel("bogus")
	assert.Equal("info", GetLevel())
}
