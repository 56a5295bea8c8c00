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
	"strconv"

	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/middleware/logging"
	"go.uber.org/zap"
)

// Getters lists the names accepted by GET /device/{getter}.
var Getters = []string{"facts", "environment", "interfaces", "interfaces_ip", "users", "config"}

// Get runs the named getter on an open driver. Only the config getter reads
// query: retrieve (default all), full and sanitized.
func Get(ctx context.Context, drv device.Driver, getter string, query map[string][]string) (interface{}, error) {
	switch getter {
	case "facts":
		return drv.GetFacts(ctx)
	case "environment":
		return drv.GetEnvironment(ctx)
	case "interfaces":
		return drv.GetInterfaces(ctx)
	case "interfaces_ip":
		return drv.GetInterfacesIP(ctx)
	case "users":
		return drv.GetUsers(ctx)
	case "config":
		retrieve := device.ConfigAll
		if v := first(query, "retrieve"); v != "" {
			retrieve = v
		}
		switch retrieve {
		case device.ConfigAll, device.ConfigRunning, device.ConfigStartup, device.ConfigCandidate:
		default:
			return nil, fmt.Errorf("%w: retrieve must be one of all, running, startup, candidate", device.ErrValue)
		}
		full, _ := strconv.ParseBool(first(query, "full"))
		sanitized, _ := strconv.ParseBool(first(query, "sanitized"))
		return drv.GetConfig(ctx, retrieve, full, sanitized)
	default:
		return nil, fmt.Errorf("%w: unknown getter %q", device.ErrValue, getter)
	}
}

func first(query map[string][]string, key string) string {
	if v := query[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// DeviceHandler handles GET /device/{getter} requests
func DeviceHandler(cfg *ScrapeConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()
		getter := r.PathValue("getter")

		target, ok := targetParam(ctx, w, query)
		if !ok {
			return
		}

		ctx, ok = withProxy(ctx, w, query)
		if !ok {
			return
		}

		zap.L().Info("device getter", zap.String("target", target), zap.String("getter", getter),
			zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))

		var result interface{}
		err := Session(ctx, cfg.NewDriverFunc(), target, query.Get("credential_profile"), func(drv device.Driver) error {
			var err error
			result, err = Get(ctx, drv, getter, query)
			return err
		})
		if err != nil {
			writeError(ctx, w, target, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
