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

package device

// Facts is the general inventory of a device.
type Facts struct {
	Uptime        int64    `json:"uptime" yaml:"uptime"`
	Vendor        string   `json:"vendor" yaml:"vendor"`
	Model         string   `json:"model" yaml:"model"`
	Hostname      string   `json:"hostname" yaml:"hostname"`
	FQDN          string   `json:"fqdn" yaml:"fqdn"`
	OSVersion     string   `json:"os_version" yaml:"os_version"`
	SerialNumber  string   `json:"serial_number" yaml:"serial_number"`
	InterfaceList []string `json:"interface_list" yaml:"interface_list"`
}

// Environment groups the health readings of a device.
type Environment struct {
	Fans        map[string]Fan         `json:"fans" yaml:"fans"`
	Temperature map[string]Temperature `json:"temperature" yaml:"temperature"`
	Power       map[string]Power       `json:"power" yaml:"power"`
	CPU         map[string]CPU         `json:"cpu" yaml:"cpu"`
	Memory      Memory                 `json:"memory" yaml:"memory"`
}

type Fan struct {
	Status bool `json:"status" yaml:"status"`
}

type Temperature struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	IsAlert     bool    `json:"is_alert" yaml:"is_alert"`
	IsCritical  bool    `json:"is_critical" yaml:"is_critical"`
}

// Power describes one power feed. Capacity and Output are in the unit the
// device reports for the feed.
type Power struct {
	Status   bool    `json:"status" yaml:"status"`
	Capacity float64 `json:"capacity" yaml:"capacity"`
	Output   float64 `json:"output" yaml:"output"`
}

type CPU struct {
	Usage float64 `json:"%usage" yaml:"%usage"`
}

// Memory is expressed in megabytes.
type Memory struct {
	AvailableRAM int `json:"available_ram" yaml:"available_ram"`
	UsedRAM      int `json:"used_ram" yaml:"used_ram"`
}

// Interface is keyed by interface name in Interfaces.
type Interface struct {
	IsUp        bool    `json:"is_up" yaml:"is_up"`
	IsEnabled   bool    `json:"is_enabled" yaml:"is_enabled"`
	Description string  `json:"description" yaml:"description"`
	LastFlapped float64 `json:"last_flapped" yaml:"last_flapped"`
	Speed       int     `json:"speed" yaml:"speed"`
	MTU         int     `json:"mtu" yaml:"mtu"`
	MACAddress  string  `json:"mac_address" yaml:"mac_address"`
}

type Interfaces map[string]Interface

type PrefixLength struct {
	PrefixLength int `json:"prefix_length" yaml:"prefix_length"`
}

// InterfaceIP maps each address family to address -> prefix length.
type InterfaceIP struct {
	IPv4 map[string]PrefixLength `json:"ipv4" yaml:"ipv4"`
	IPv6 map[string]PrefixLength `json:"ipv6" yaml:"ipv6"`
}

type InterfacesIP map[string]InterfaceIP

type User struct {
	Level    int      `json:"level" yaml:"level"`
	Password string   `json:"password" yaml:"password"`
	SSHKeys  []string `json:"sshkeys" yaml:"sshkeys"`
}

type Users map[string]User

// Config holds serialized configurations. Candidate is empty on devices
// without a candidate datastore.
type Config struct {
	Running   string `json:"running" yaml:"running"`
	Startup   string `json:"startup" yaml:"startup"`
	Candidate string `json:"candidate" yaml:"candidate"`
}

// Config retrieval selectors.
const (
	ConfigAll       = "all"
	ConfigRunning   = "running"
	ConfigStartup   = "startup"
	ConfigCandidate = "candidate"
)
