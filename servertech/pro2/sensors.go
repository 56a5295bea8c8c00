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
	"fmt"

	"github.com/comcast/fishypdu/device"
)

// /jaws/monitor/sensors/fan
type FanSensor struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// /jaws/monitor/sensors/temp
type TempSensor struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Status             string  `json:"status"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
}

// /jaws/config/sensors/temp/{id}
type TempSensorConfig struct {
	// ThresholdsCelsius holds low critical, low alert, high alert and high
	// critical thresholds, in that order.
	ThresholdsCelsius []float64 `json:"thresholds_celsius"`
}

func (c TempSensorConfig) thresholds() (alert, critical float64, err error) {
	if len(c.ThresholdsCelsius) < 4 {
		return 0, 0, fmt.Errorf("%w: expected 4 temperature thresholds, got %d", device.ErrValue, len(c.ThresholdsCelsius))
	}
	return c.ThresholdsCelsius[2], c.ThresholdsCelsius[3], nil
}
