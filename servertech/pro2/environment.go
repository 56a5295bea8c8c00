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
	"net/url"

	"github.com/comcast/fishypdu/device"
	"go.uber.org/zap"
)

// GetEnvironment reports fans, temperature sensors, input cords and memory.
// Each sensor family is optional: a family the device refuses to list is
// left empty.
func (d *Driver) GetEnvironment(ctx context.Context) (*device.Environment, error) {
	env := &device.Environment{
		Fans:        map[string]device.Fan{},
		Temperature: map[string]device.Temperature{},
		Power:       map[string]device.Power{},
		CPU:         map[string]device.CPU{},
	}

	if err := d.collectFans(ctx, env); err != nil {
		return nil, err
	}
	if err := d.collectTemperatures(ctx, env); err != nil {
		return nil, err
	}
	if err := d.collectCords(ctx, env); err != nil {
		return nil, err
	}
	if err := d.collectMemory(ctx, env); err != nil {
		return nil, err
	}

	return env, nil
}

func (d *Driver) collectFans(ctx context.Context, env *device.Environment) error {
	var fans []FanSensor
	ok, err := d.getTolerant(ctx, "/monitor/sensors/fan", &fans, "name", "status")
	if err != nil || !ok {
		return err
	}

	for _, fan := range fans {
		env.Fans[fan.Name] = device.Fan{Status: fan.Status == statusNormal}
	}
	return nil
}

// collectTemperatures reads the alert and critical thresholds of every
// present sensor from its configuration; both comparisons are strict.
func (d *Driver) collectTemperatures(ctx context.Context, env *device.Environment) error {
	var temps []TempSensor
	ok, err := d.getTolerant(ctx, "/monitor/sensors/temp", &temps, "id", "name", "status")
	if err != nil || !ok {
		return err
	}

	for _, temp := range temps {
		if temp.Status == statusNotFound {
			continue
		}

		var cfg TempSensorConfig
		if err := d.get(ctx, "/config/sensors/temp/"+url.PathEscape(temp.ID), &cfg, "thresholds_celsius"); err != nil {
			return err
		}

		alert, critical, err := cfg.thresholds()
		if err != nil {
			return fmt.Errorf("temperature sensor %s: %w", temp.ID, err)
		}

		t := temp.TemperatureCelsius
		env.Temperature[temp.Name] = device.Temperature{
			Temperature: t,
			IsAlert:     t > alert,
			IsCritical:  t > critical,
		}
	}
	return nil
}

func (d *Driver) collectCords(ctx context.Context, env *device.Environment) error {
	var cords []Cord
	ok, err := d.getTolerant(ctx, "/monitor/cords", &cords, "name", "status", "power_capacity", "power_utilized")
	if err != nil || !ok {
		return err
	}

	for _, cord := range cords {
		env.Power[cord.Name] = device.Power{
			Status:   cord.Status == statusNormal,
			Capacity: cord.PowerCapacity,
			Output:   cord.Output(),
		}
	}
	return nil
}

// collectMemory reports the installed RAM as both available and used: the
// device does not expose its memory usage.
func (d *Driver) collectMemory(ctx context.Context, env *device.Environment) error {
	var system SystemInfo
	ok, err := d.getTolerant(ctx, "/config/info/system", &system, "hardware")
	if err != nil {
		return err
	}
	if !ok {
		d.log.Warn("system information unavailable, memory left empty",
			zap.Any("trace_id", traceID(ctx)))
		return nil
	}

	hw, err := ParseHardware(system.Hardware)
	if err != nil {
		return err
	}

	env.Memory = device.Memory{
		AvailableRAM: hw.RAM,
		UsedRAM:      hw.RAM,
	}
	return nil
}
