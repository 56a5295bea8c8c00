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
	"fmt"

	"github.com/comcast/fishypdu/device"
)

// GetFacts reports the device inventory. JAWS has no hostname field, so the
// configured location is reported instead.
func (d *Driver) GetFacts(ctx context.Context) (*device.Facts, error) {
	var infoSystem SystemInfo
	if err := d.get(ctx, "/config/info/system", &infoSystem, "uptime", "firmware"); err != nil {
		return nil, err
	}

	var system SystemConfig
	if err := d.get(ctx, "/config/system", &system, "location"); err != nil {
		return nil, err
	}

	var network NetworkConfig
	if err := d.get(ctx, "/config/network", &network, "dhcp_fqdn_name"); err != nil {
		return nil, err
	}

	var units []UnitInfo
	if err := d.get(ctx, "/config/info/units", &units, "model_number", "product_serial_number"); err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: /config/info/units returned no unit", device.ErrValue)
	}

	outlets, err := d.outlets(ctx)
	if err != nil {
		return nil, err
	}

	uptime, err := ConvertUptime(infoSystem.Uptime)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(outlets))
	for _, o := range outlets {
		ids = append(ids, o.ID)
	}

	return &device.Facts{
		Uptime:        uptime,
		Vendor:        Vendor,
		Model:         units[0].ModelNumber,
		Hostname:      system.Location,
		FQDN:          network.DHCPFQDNName,
		OSVersion:     infoSystem.Firmware,
		SerialNumber:  units[0].ProductSerialNumber,
		InterfaceList: ids,
	}, nil
}

func (d *Driver) outlets(ctx context.Context) ([]Outlet, error) {
	var outlets []Outlet
	if err := d.get(ctx, "/monitor/outlets", &outlets, "id", "name", "status", "state"); err != nil {
		return nil, err
	}
	return outlets, nil
}
