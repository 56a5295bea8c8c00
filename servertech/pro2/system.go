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

// /jaws/config/info/system
type SystemInfo struct {
	Uptime   string `json:"uptime"`
	Firmware string `json:"firmware"`
	Hardware string `json:"hardware"`
}

// /jaws/config/system
type SystemConfig struct {
	Location string `json:"location"`
}

// /jaws/config/info/units
type UnitInfo struct {
	ID                  string `json:"id"`
	ModelNumber         string `json:"model_number"`
	ProductSerialNumber string `json:"product_serial_number"`
}
