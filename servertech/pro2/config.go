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
	"encoding/json"
	"fmt"

	"github.com/comcast/fishypdu/device"
)

// GetConfig exports every subtree of ConfigItems the device agrees to
// return as a single JSON document, reported as both running and startup
// configuration. full is accepted for interface compatibility and ignored.
func (d *Driver) GetConfig(ctx context.Context, retrieve string, full, sanitized bool) (*device.Config, error) {
	if sanitized {
		return nil, fmt.Errorf("%w: driver cannot retrieve sanitized configurations", device.ErrNotImplemented)
	}

	api, err := d.client()
	if err != nil {
		return nil, err
	}

	// buckets answering with an HTTP error are left out, any other answer is kept
	buckets := make(map[string]json.RawMessage, len(ConfigItems))
	for _, item := range ConfigItems {
		res, err := api.GetTolerant(ctx, "/config/"+item)
		if err != nil {
			return nil, err
		}

		switch res.Kind {
		case device.KindJSON:
			buckets[item] = res.Body
		case device.KindEnvelope:
			raw, err := json.Marshal(res.Envelope)
			if err != nil {
				return nil, fmt.Errorf("unable to encode /config/%s - %w", item, err)
			}
			buckets[item] = raw
		}
	}

	doc, err := json.Marshal(buckets)
	if err != nil {
		return nil, fmt.Errorf("unable to encode configuration - %w", err)
	}

	all := device.Config{
		Running: string(doc),
		Startup: string(doc),
	}

	switch retrieve {
	case device.ConfigRunning:
		return &device.Config{Running: all.Running}, nil
	case device.ConfigStartup:
		return &device.Config{Startup: all.Startup}, nil
	case device.ConfigCandidate:
		return &device.Config{Candidate: all.Candidate}, nil
	default:
		return &all, nil
	}
}
