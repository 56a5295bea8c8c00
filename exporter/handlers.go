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

package exporter

import (
	"fmt"

	"github.com/comcast/fishypdu/device"
)

func state(ok bool) float64 {
	if ok {
		return OK
	}
	return BAD
}

// exportFacts sets the device info and uptime gauges
func (e *Exporter) exportFacts(result interface{}) error {
	facts, ok := result.(*device.Facts)
	if !ok || facts == nil {
		return fmt.Errorf("unexpected facts result %T", result)
	}

	var serverVersion string
	if vr, ok := e.driver.(device.VersionReporter); ok {
		serverVersion = vr.ServerVersion()
	}

	var dm = (*e.deviceMetrics)["deviceInfo"]
	(*dm)["deviceInfo"].WithLabelValues(facts.Hostname, facts.Model, facts.SerialNumber, facts.OSVersion, serverVersion, facts.FQDN).Set(1.0)
	(*dm)["uptime"].WithLabelValues().Set(float64(facts.Uptime))

	return nil
}

// exportEnvironment sets the fan, temperature, cord and memory gauges
func (e *Exporter) exportEnvironment(result interface{}) error {
	env, ok := result.(*device.Environment)
	if !ok || env == nil {
		return fmt.Errorf("unexpected environment result %T", result)
	}

	var therm = (*e.deviceMetrics)["thermalMetrics"]
	for name, fan := range env.Fans {
		(*therm)["fanStatus"].WithLabelValues(name).Set(state(fan.Status))
	}

	for name, temp := range env.Temperature {
		(*therm)["temperature"].WithLabelValues(name).Set(temp.Temperature)
		(*therm)["temperatureAlert"].WithLabelValues(name).Set(state(temp.IsAlert))
		(*therm)["temperatureCritical"].WithLabelValues(name).Set(state(temp.IsCritical))
	}

	var pow = (*e.deviceMetrics)["powerMetrics"]
	for name, cord := range env.Power {
		(*pow)["cordCapacity"].WithLabelValues(name).Set(cord.Capacity)
		(*pow)["cordOutput"].WithLabelValues(name).Set(cord.Output)
		(*pow)["cordStatus"].WithLabelValues(name).Set(state(cord.Status))
	}

	// zero means the system information was not available
	if env.Memory.AvailableRAM > 0 {
		var mem = (*e.deviceMetrics)["memoryMetrics"]
		(*mem)["ram"].WithLabelValues().Set(float64(env.Memory.AvailableRAM))
	}

	return nil
}

// exportInterfaces sets the outlet gauges and the management link gauges of
// interfaces with a MAC address
func (e *Exporter) exportInterfaces(result interface{}) error {
	ifaces, ok := result.(device.Interfaces)
	if !ok {
		return fmt.Errorf("unexpected interfaces result %T", result)
	}

	var out = (*e.deviceMetrics)["outletMetrics"]
	var nw = (*e.deviceMetrics)["networkMetrics"]
	for name, iface := range ifaces {
		if iface.MACAddress != "" {
			(*nw)["linkStatus"].WithLabelValues(name, iface.MACAddress).Set(state(iface.IsUp))
			(*nw)["speed"].WithLabelValues(name).Set(float64(iface.Speed))
			continue
		}
		(*out)["outletStatus"].WithLabelValues(name, iface.Description).Set(state(iface.IsUp))
		(*out)["outletState"].WithLabelValues(name, iface.Description).Set(state(iface.IsEnabled))
	}

	return nil
}
