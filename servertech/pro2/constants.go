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

const (
	// Platform is the name the driver is registered under.
	Platform = "pro2"
	// Vendor is reported in the facts of every device.
	Vendor = "ServerTech"

	statusNormal   = "Normal"
	statusNotFound = "Not Found"
	linkUp         = "Up"
	stateOn        = "On"

	// management interface appended to the outlet list
	mgmtInterface   = "NET"
	mgmtDescription = "management"
	mgmtMTU         = 1500
)

// ConfigItems lists the /config subtrees exported by GetConfig, in order.
var ConfigItems = []string{
	"system",
	"network",
	"network/ipv4",
	"network/ipv6",
	"snmp",
	"syslog",
	"smtp",
	"ldap",
	"radius",
	"tacacs",
	"ftp",
	"units",
	"cords",
	"lines",
	"outlets",
	"groups",
	"users/local",
	"sensors/temp",
	"sensors/humid",
	"info/system",
	"info/network",
	"info/units",
}

// LocalUserLevels maps JAWS access levels to a privilege level. Labels
// missing from the map are reported as level 0.
var LocalUserLevels = map[string]int{
	"Admin":       15,
	"Power User":  10,
	"User":        5,
	"Reboot Only": 3,
	"On Only":     2,
	"View Only":   1,
}

var (
	SupportedOutletActions  = []string{"on", "off", "reboot"}
	SupportedRestartActions = []string{"normal", "factory", "factory_keep_network"}
)
