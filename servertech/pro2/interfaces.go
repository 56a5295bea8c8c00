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
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/comcast/fishypdu/device"
	"go.uber.org/zap"
)

// GetInterfaces reports every outlet as an interface, plus the management
// port under the name "NET". An outlet whose id is "NET" is replaced by the
// management port.
func (d *Driver) GetInterfaces(ctx context.Context) (device.Interfaces, error) {
	outlets, err := d.outlets(ctx)
	if err != nil {
		return nil, err
	}

	var info NetworkInfo
	if err := d.get(ctx, "/config/info/network", &info, "speed", "link", "ethernet_mac_address"); err != nil {
		return nil, err
	}

	ifaces := make(device.Interfaces, len(outlets)+1)
	for _, o := range outlets {
		ifaces[o.ID] = device.Interface{
			IsUp:        o.Status == statusNormal,
			IsEnabled:   o.State == stateOn,
			Description: o.Name,
			LastFlapped: -1.0,
		}
	}

	speed, err := parseSpeed(info.Speed)
	if err != nil {
		return nil, err
	}

	if _, ok := ifaces[mgmtInterface]; ok {
		d.log.Warn("outlet id collides with the management interface, reporting the management port",
			zap.String("id", mgmtInterface), zap.Any("trace_id", traceID(ctx)))
	}

	ifaces[mgmtInterface] = device.Interface{
		IsUp:        info.Link == linkUp,
		IsEnabled:   true,
		Description: mgmtDescription,
		LastFlapped: -1.0,
		Speed:       speed,
		MTU:         mgmtMTU,
		MACAddress:  strings.ReplaceAll(info.EthernetMACAddress, "-", ":"),
	}

	return ifaces, nil
}

// parseSpeed reads the leading integer of a speed such as "100 Mbps".
func parseSpeed(speed string) (int, error) {
	fields := strings.Fields(speed)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty interface speed", device.ErrValue)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: interface speed %q is not a number", device.ErrValue, speed)
	}
	return n, nil
}

// GetInterfacesIP reports the addresses of the management port under "net".
func (d *Driver) GetInterfacesIP(ctx context.Context) (device.InterfacesIP, error) {
	var info NetworkInfo
	if err := d.get(ctx, "/config/info/network", &info, "ipv4_address", "ipv4_subnet_mask"); err != nil {
		return nil, err
	}

	v4, err := ipv4Prefix(info.IPv4Address, info.IPv4SubnetMask)
	if err != nil {
		return nil, err
	}

	ip := device.InterfaceIP{
		IPv4: map[string]device.PrefixLength{
			v4.Addr().String(): {PrefixLength: v4.Bits()},
		},
		IPv6: map[string]device.PrefixLength{},
	}

	if info.IPv6AutoConfigAddress != "" {
		v6, err := ipv6Prefix(info.IPv6AutoConfigAddress)
		if err != nil {
			return nil, err
		}
		ip.IPv6[v6.Addr().String()] = device.PrefixLength{PrefixLength: v6.Bits()}
	}

	return device.InterfacesIP{"net": ip}, nil
}

func ipv4Prefix(address, mask string) (netip.Prefix, error) {
	addr, err := netip.ParseAddr(address)
	if err != nil || !addr.Is4() {
		return netip.Prefix{}, fmt.Errorf("%w: invalid ipv4 address %q", device.ErrValue, address)
	}

	m := net.ParseIP(mask).To4()
	if m == nil {
		return netip.Prefix{}, fmt.Errorf("%w: invalid ipv4 subnet mask %q", device.ErrValue, mask)
	}
	ones, bits := net.IPMask(m).Size()
	if bits == 0 {
		return netip.Prefix{}, fmt.Errorf("%w: non contiguous ipv4 subnet mask %q", device.ErrValue, mask)
	}

	return netip.PrefixFrom(addr, ones), nil
}

// ipv6Prefix accepts "addr/len" or a bare address, which is taken as /128.
func ipv6Prefix(address string) (netip.Prefix, error) {
	if !strings.Contains(address, "/") {
		addr, err := netip.ParseAddr(address)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: invalid ipv6 address %q", device.ErrValue, address)
		}
		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}

	p, err := netip.ParsePrefix(address)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: invalid ipv6 address %q", device.ErrValue, address)
	}
	return p, nil
}
