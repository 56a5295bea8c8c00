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
	"fmt"
	"net/http"

	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/middleware/logging"
	"go.uber.org/zap"
)

// AsPowerController returns drv as a device.PowerController, or a
// not-implemented error.
func AsPowerController(drv device.Driver) (device.PowerController, error) {
	pc, ok := drv.(device.PowerController)
	if !ok {
		return nil, fmt.Errorf("%w: driver has no power control", device.ErrNotImplemented)
	}
	return pc, nil
}

func control(w http.ResponseWriter, r *http.Request, cfg *ScrapeConfig, name string, f func(context.Context, device.PowerController) (*device.Response, error)) {
	ctx := r.Context()
	query := r.URL.Query()

	target, ok := targetParam(ctx, w, query)
	if !ok {
		return
	}

	ctx, ok = withProxy(ctx, w, query)
	if !ok {
		return
	}

	zap.L().Info("device control", zap.String("target", target), zap.String("operation", name),
		zap.String("action", query.Get("action")), zap.String("outlet", query.Get("id")),
		zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))

	var res *device.Response
	err := Session(ctx, cfg.NewDriverFunc(), target, query.Get("credential_profile"), func(drv device.Driver) error {
		pc, err := AsPowerController(drv)
		if err != nil {
			return err
		}
		res, err = f(ctx, pc)
		return err
	})
	if err != nil {
		writeError(ctx, w, target, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// OutletHandler handles POST /control/outlet?target=&id=&action= requests
func OutletHandler(cfg *ScrapeConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		action := r.URL.Query().Get("action")
		if id == "" {
			http.Error(w, "'id' parameter not set", http.StatusBadRequest)
			return
		}
		control(w, r, cfg, "set_outlet", func(ctx context.Context, pc device.PowerController) (*device.Response, error) {
			return pc.SetOutlet(ctx, id, action)
		})
	}
}

// RestartHandler handles POST /control/restart?target=&action= requests
func RestartHandler(cfg *ScrapeConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := r.URL.Query().Get("action")
		control(w, r, cfg, "restart", func(ctx context.Context, pc device.PowerController) (*device.Response, error) {
			return pc.Restart(ctx, action)
		})
	}
}
