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

package pro2

import (
	"context"
	"net/url"

	"github.com/comcast/fishypdu/device"
	"go.uber.org/zap"
)

// SetOutlet switches an outlet. action must be one of SupportedOutletActions.
func (d *Driver) SetOutlet(ctx context.Context, id, action string) (*device.Response, error) {
	if err := ValidateAction(action, SupportedOutletActions); err != nil {
		return nil, err
	}

	api, err := d.client()
	if err != nil {
		return nil, err
	}

	d.log.Info("switching outlet", zap.String("outlet", id), zap.String("action", action),
		zap.Any("trace_id", traceID(ctx)))

	return api.Patch(ctx, "/control/outlets/"+url.PathEscape(id), outletControl{ControlAction: action})
}

// Restart restarts the PDU. action must be one of SupportedRestartActions.
func (d *Driver) Restart(ctx context.Context, action string) (*device.Response, error) {
	if err := ValidateAction(action, SupportedRestartActions); err != nil {
		return nil, err
	}

	api, err := d.client()
	if err != nil {
		return nil, err
	}

	d.log.Info("restarting device", zap.String("action", action), zap.Any("trace_id", traceID(ctx)))

	return api.Patch(ctx, "/restart", restartControl{Action: action})
}
