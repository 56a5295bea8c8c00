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
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/comcast/fishypdu/device"
)

var (
	uptimeRegex   = regexp.MustCompile(`^(\d+) days? (\d+) hours? (\d+) minutes? (\d+) seconds?$`)
	hardwareRegex = regexp.MustCompile(`^([^,;]+), (\d+) MHz, (\d+)MB RAM, (\d+)MB FLASH`)
	serverRegex   = regexp.MustCompile(`^ServerTech-[^/]+/v(.+)$`)
)

// Hardware is the parsed form of the /config/info/system hardware string.
type Hardware struct {
	CPUType string `json:"cpu_type"`
	CPUFreq int    `json:"cpu_freq"`
	RAM     int    `json:"ram"`
	Flash   int    `json:"flash"`
}

// ConvertUptime converts an uptime such as "11 days 4 hours 8 minutes 6 seconds"
// to a number of seconds.
func ConvertUptime(uptime string) (int64, error) {
	m := uptimeRegex.FindStringSubmatch(uptime)
	if m == nil {
		return 0, fmt.Errorf("%w: uptime string %q was not recognized: regex did not match", device.ErrValue, uptime)
	}

	var total int64
	for i, unit := range []int64{86400, 3600, 60, 1} {
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: uptime string %q - %s", device.ErrValue, uptime, err.Error())
		}
		total += n * unit
	}

	return total, nil
}

// ParseHardware extracts the cpu, ram and flash figures of a hardware
// descriptor such as "AAAAA (000), 123 MHz, 2048MB RAM, 2048MB FLASH".
func ParseHardware(hardware string) (Hardware, error) {
	m := hardwareRegex.FindStringSubmatch(hardware)
	if m == nil {
		return Hardware{}, fmt.Errorf("%w: hardware string %q was not recognized: regex did not match", device.ErrValue, hardware)
	}

	nums := make([]int, 3)
	for i := range nums {
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return Hardware{}, fmt.Errorf("%w: hardware string %q - %s", device.ErrValue, hardware, err.Error())
		}
		nums[i] = n
	}

	return Hardware{
		CPUType: m[1],
		CPUFreq: nums[0],
		RAM:     nums[1],
		Flash:   nums[2],
	}, nil
}

// ParseServerVersion returns the firmware version advertised in a Server
// header of the form "ServerTech-<tag>/v<version>".
func ParseServerVersion(header string) (string, bool) {
	m := serverRegex.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// VersionAtLeast compares firmware versions as plain strings. Firmware tags
// do not follow semver, so "8.10" sorts before "8.9".
func VersionAtLeast(version, floor string) bool {
	return version >= floor
}

// ValidateAction returns a value error unless action is one of supported.
func ValidateAction(action string, supported []string) error {
	if !slices.Contains(supported, action) {
		return fmt.Errorf("%w: Action %q is not supported. the list of valid actions is: %s",
			device.ErrValue, action, strings.Join(supported, ", "))
	}
	return nil
}
