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
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/config"
	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/exporter"
	"github.com/comcast/fishypdu/middleware/logging"
	"go.uber.org/zap"
)

// statusFor maps driver errors to the status returned to API callers.
func statusFor(err error) int {
	var httpErr *device.HTTPError
	switch {
	case errors.Is(err, device.ErrValue):
		return http.StatusBadRequest
	case errors.Is(err, device.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.As(err, &httpErr):
		return http.StatusBadGateway
	case errors.Is(err, device.ErrConnection):
		return http.StatusServiceUnavailable
	case errors.Is(err, common.ErrInvalidCredential):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error      string `json:"error"`
	StatusCode int    `json:"upstream_status_code,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(ctx context.Context, w http.ResponseWriter, target string, err error) {
	code := statusFor(err)
	zap.L().Error("device call failed", zap.Error(err), zap.String("target", target), zap.Int("status", code),
		zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))
	writeJSON(w, code, errorBody{Error: err.Error(), StatusCode: device.StatusCode(err)})
}

// Session opens a driver session to target, runs f and closes the
// session. A rejected credential is dropped from the cache so the next call
// fetches it again.
func Session(ctx context.Context, newDriver exporter.DriverFunc, target, credProf string, f func(device.Driver) error) error {
	tgt := config.GetConfig().Resolve(target)
	if credProf == "" {
		credProf = tgt.CredentialProfile
	}

	cred, err := common.PDUCreds.GetCredentials(ctx, credProf, tgt.Name)
	if err != nil {
		return err
	}

	drv := newDriver(tgt, cred)
	defer drv.Close()

	err = drv.Open(ctx)
	if err == nil {
		err = f(drv)
	}
	if device.StatusCode(err) == http.StatusUnauthorized {
		common.PDUCreds.Delete(tgt.Name)
	}
	return err
}
