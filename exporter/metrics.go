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
	"github.com/prometheus/client_golang/prometheus"
)

type metrics map[string]*prometheus.GaugeVec

func newServerMetric(metricName string, docString string, constLabels prometheus.Labels, labelNames []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        metricName,
			Help:        docString,
			ConstLabels: constLabels,
		},
		labelNames,
	)
}

func NewDeviceMetrics() *map[string]*metrics {
	var (
		UpMetric = &metrics{
			"up": newServerMetric("up", "was the last scrape of fishypdu successful.", nil, []string{}),
		}

		DeviceMetrics = &metrics{
			"deviceInfo": newServerMetric("pdu_device_info", "Current snapshot of device firmware information", nil, []string{"name", "model", "serialNumber", "firmwareVersion", "serverVersion", "fqdn"}),
			"uptime":     newServerMetric("pdu_uptime_seconds", "Time since the PDU controller last booted in seconds", nil, []string{}),
		}

		OutletMetrics = &metrics{
			"outletStatus": newServerMetric("pdu_outlet_status", "Current outlet status 1 = OK, 0 = BAD", nil, []string{"id", "name"}),
			"outletState":  newServerMetric("pdu_outlet_state", "Current outlet power state 1 = ON, 0 = OFF", nil, []string{"id", "name"}),
		}

		PowerMetrics = &metrics{
			"cordCapacity": newServerMetric("pdu_cord_capacity", "Rated power capacity of the input cord", nil, []string{"name"}),
			"cordOutput":   newServerMetric("pdu_cord_output", "Power currently drawn through the input cord", nil, []string{"name"}),
			"cordStatus":   newServerMetric("pdu_cord_status", "Current input cord status 1 = OK, 0 = BAD", nil, []string{"name"}),
		}

		ThermalMetrics = &metrics{
			"fanStatus":           newServerMetric("pdu_fan_status", "Current fan status 1 = OK, 0 = BAD", nil, []string{"name"}),
			"temperature":         newServerMetric("pdu_temperature_celsius", "Current sensor temperature reading in Celsius", nil, []string{"name"}),
			"temperatureAlert":    newServerMetric("pdu_temperature_alert", "Temperature above the alert threshold 1 = YES, 0 = NO", nil, []string{"name"}),
			"temperatureCritical": newServerMetric("pdu_temperature_critical", "Temperature above the critical threshold 1 = YES, 0 = NO", nil, []string{"name"}),
		}

		MemoryMetrics = &metrics{
			"ram": newServerMetric("pdu_memory_ram_megabytes", "Installed RAM of the PDU controller in megabytes", nil, []string{}),
		}

		NetworkMetrics = &metrics{
			"linkStatus": newServerMetric("pdu_network_link_status", "Current management link status 1 = UP, 0 = DOWN", nil, []string{"name", "mac"}),
			"speed":      newServerMetric("pdu_network_speed_mbps", "Negotiated management link speed in Mbps", nil, []string{"name"}),
		}

		Metrics = &map[string]*metrics{
			"up":             UpMetric,
			"deviceInfo":     DeviceMetrics,
			"outletMetrics":  OutletMetrics,
			"powerMetrics":   PowerMetrics,
			"thermalMetrics": ThermalMetrics,
			"memoryMetrics":  MemoryMetrics,
			"networkMetrics": NetworkMetrics,
		}
	)

	return Metrics
}
