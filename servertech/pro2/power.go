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

// /jaws/monitor/outlets
type Outlet struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	State  string `json:"state"`
}

// /jaws/monitor/cords
type Cord struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	// PowerCapacity is the rated capacity of the cord.
	PowerCapacity float64 `json:"power_capacity"`
	// PowerUtilized is a percentage of PowerCapacity.
	PowerUtilized float64 `json:"power_utilized"`
}

// Output is the share of the capacity currently drawn.
func (c Cord) Output() float64 {
	return c.PowerCapacity / 100 * c.PowerUtilized
}

// /jaws/control/outlets/{id}
type outletControl struct {
	ControlAction string `json:"control_action"`
}

// /jaws/restart
type restartControl struct {
	Action string `json:"action"`
}
