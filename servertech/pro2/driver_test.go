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
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/comcast/fishypdu/device"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func Test_New_Defaults(t *testing.T) {
	assert := assert.New(t)

	d := New("pdu1", "u", "p", 0, nil)
	assert.Equal(DefaultTimeout, d.Timeout)
	assert.True(d.Verify())
	assert.Equal(StateClosed, d.State())
	assert.False(d.IsAlive())
	assert.Equal("pro2", d.Platform())

	d = New("pdu1", "u", "p", time.Second, map[string]interface{}{"verify": "false"})
	assert.False(d.Verify())
}

func Test_Open_Close(t *testing.T) {
	assert := assert.New(t)
	f := newFakeJAWS(t)

	d := New(f.host(), testUser, testPass, 5*time.Second, map[string]interface{}{"verify": false})
	assert.NoError(d.Open(t.Context()))
	assert.True(d.IsAlive())
	assert.Equal(StateOpen, d.State())
	assert.Equal("8.0r", d.ServerVersion())

	// opening an open session is a no-op
	assert.NoError(d.Open(t.Context()))

	assert.NoError(d.Close())
	assert.False(d.IsAlive())
	assert.NoError(d.Close())

	_, err := d.GetFacts(t.Context())
	assert.ErrorIs(err, device.ErrSessionClosed)
	assert.ErrorIs(err, device.ErrConnection)
}

func Test_Open_Failures(t *testing.T) {
	f := newFakeJAWS(t)

	t.Run("bad credentials", func(t *testing.T) {
		assert := assert.New(t)
		d := New(f.host(), testUser, "wrong", 5*time.Second, map[string]interface{}{"verify": false})
		err := d.Open(t.Context())
		assert.Equal(http.StatusUnauthorized, device.StatusCode(err))
		assert.False(d.IsAlive())
	})

	t.Run("tls verification", func(t *testing.T) {
		assert := assert.New(t)
		d := New(f.host(), testUser, testPass, 5*time.Second, nil)
		err := d.Open(t.Context())
		assert.ErrorIs(err, device.ErrConnection)
		assert.False(d.IsAlive())
	})

	t.Run("unreachable", func(t *testing.T) {
		assert := assert.New(t)
		d := New("127.0.0.1:1", testUser, testPass, time.Second, map[string]interface{}{"verify": false})
		err := d.Open(t.Context())
		assert.ErrorIs(err, device.ErrConnection)
		assert.Equal(StateClosed, d.State())
	})
}

func Test_GetFacts(t *testing.T) {
	assert := assert.New(t)
	d := openDriver(t, newFakeJAWS(t))

	facts, err := d.GetFacts(t.Context())
	assert.NoError(err)
	assert.Equal(&device.Facts{
		Uptime:        965286,
		Vendor:        "ServerTech",
		Model:         "C2WG36TE-DQME2M66/C",
		Hostname:      "rack-a12",
		FQDN:          "pdu1.example.com",
		OSVersion:     "Version 8.0r",
		SerialNumber:  "SN12345",
		InterfaceList: []string{"AA1", "AA2"},
	}, facts)
}

func Test_GetFacts_StrictFailure(t *testing.T) {
	assert := assert.New(t)
	f := newFakeJAWS(t)
	d := openDriver(t, f)

	f.fail("/config/info/units", http.StatusInternalServerError)

	_, err := d.GetFacts(t.Context())
	var httpErr *device.HTTPError
	assert.ErrorAs(err, &httpErr)
	assert.Equal(http.StatusInternalServerError, httpErr.StatusCode)
}

func Test_GetEnvironment(t *testing.T) {
	assert := assert.New(t)
	d := openDriver(t, newFakeJAWS(t))

	env, err := d.GetEnvironment(t.Context())
	assert.NoError(err)

	assert.Equal(map[string]device.Fan{
		"Fan_A1": {Status: true},
		"Fan_A2": {Status: false},
	}, env.Fans)

	// sensors reported as "Not Found" are skipped
	assert.Equal(map[string]device.Temperature{
		"Temp_Sensor_A1": {Temperature: 41.5, IsAlert: true, IsCritical: false},
	}, env.Temperature)

	assert.Equal(map[string]device.Power{
		"Master_Cord_A": {Status: true, Capacity: 3600, Output: 900},
	}, env.Power)

	assert.Empty(env.CPU)
	assert.Equal(2048, env.Memory.AvailableRAM)
	assert.Equal(env.Memory.AvailableRAM, env.Memory.UsedRAM)
}

func Test_GetEnvironment_Tolerant(t *testing.T) {
	assert := assert.New(t)
	f := newFakeJAWS(t)
	d := openDriver(t, f)

	f.fail("/monitor/sensors/fan", http.StatusNotFound)
	f.fail("/monitor/cords", http.StatusNotFound)
	f.fail("/config/info/system", http.StatusServiceUnavailable)

	env, err := d.GetEnvironment(t.Context())
	assert.NoError(err)
	assert.Empty(env.Fans)
	assert.Empty(env.Power)
	assert.Len(env.Temperature, 1)
	assert.Equal(device.Memory{}, env.Memory)
}

func Test_GetEnvironment_ThresholdConfigRequired(t *testing.T) {
	assert := assert.New(t)
	f := newFakeJAWS(t)
	d := openDriver(t, f)

	f.fail("/config/sensors/temp/A1", http.StatusNotFound)

	_, err := d.GetEnvironment(t.Context())
	assert.Equal(http.StatusNotFound, device.StatusCode(err))
}

func Test_GetInterfaces(t *testing.T) {
	assert := assert.New(t)
	d := openDriver(t, newFakeJAWS(t))

	ifaces, err := d.GetInterfaces(t.Context())
	assert.NoError(err)
	assert.Len(ifaces, 3)

	assert.Equal(device.Interface{
		IsUp:        true,
		IsEnabled:   true,
		Description: "Master_Outlet_1",
		LastFlapped: -1,
	}, ifaces["AA1"])
	assert.Equal(device.Interface{
		IsUp:        false,
		IsEnabled:   false,
		Description: "Master_Outlet_2",
		LastFlapped: -1,
	}, ifaces["AA2"])

	assert.Equal(device.Interface{
		IsUp:        true,
		IsEnabled:   true,
		Description: "management",
		LastFlapped: -1,
		Speed:       100,
		MTU:         1500,
		MACAddress:  "00:0A:9C:12:34:56",
	}, ifaces["NET"])
}

func Test_GetInterfaces_OutletNamedNET(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	f := newFakeJAWS(t)
	f.json("/monitor/outlets", `[
		{"id": "AA1", "name": "Master_Outlet_1", "status": "Normal", "state": "On"},
		{"id": "NET", "name": "Odd_Outlet", "status": "Off", "state": "Off"}
	]`)
	d := openDriver(t, f)

	ifaces, err := d.GetInterfaces(t.Context())
	assert.NoError(err)
	assert.Len(ifaces, 2)
	assert.Equal("management", ifaces["NET"].Description)
	assert.Equal(1500, ifaces["NET"].MTU)
	assert.Equal(1, logs.FilterMessage("outlet id collides with the management interface, reporting the management port").Len())
}

func Test_ParseSpeed(t *testing.T) {
	assert := assert.New(t)

	n, err := parseSpeed("1000 Mbps")
	assert.NoError(err)
	assert.Equal(1000, n)

	_, err = parseSpeed("")
	assert.ErrorIs(err, device.ErrValue)

	_, err = parseSpeed("fast")
	assert.ErrorIs(err, device.ErrValue)
}

func Test_GetInterfacesIP(t *testing.T) {
	assert := assert.New(t)
	d := openDriver(t, newFakeJAWS(t))

	ips, err := d.GetInterfacesIP(t.Context())
	assert.NoError(err)
	assert.Equal(device.InterfacesIP{
		"net": {
			IPv4: map[string]device.PrefixLength{"10.0.0.5": {PrefixLength: 24}},
			IPv6: map[string]device.PrefixLength{"fe80::20a:9cff:fe12:3456": {PrefixLength: 64}},
		},
	}, ips)
}

func Test_AddressPrefixes(t *testing.T) {
	assert := assert.New(t)

	p, err := ipv4Prefix("192.168.1.10", "255.255.252.0")
	assert.NoError(err)
	assert.Equal(22, p.Bits())

	_, err = ipv4Prefix("192.168.1.10", "255.0.255.0")
	assert.ErrorIs(err, device.ErrValue)

	_, err = ipv4Prefix("fe80::1", "255.255.255.0")
	assert.ErrorIs(err, device.ErrValue)

	p, err = ipv6Prefix("2001:db8::1")
	assert.NoError(err)
	assert.Equal(128, p.Bits())
	assert.Equal("2001:db8::1", p.Addr().String())

	_, err = ipv6Prefix("not-an-address/64")
	assert.ErrorIs(err, device.ErrValue)
}

func Test_GetUsers(t *testing.T) {
	assert := assert.New(t)
	d := openDriver(t, newFakeJAWS(t))

	users, err := d.GetUsers(t.Context())
	assert.NoError(err)
	assert.Equal(device.Users{
		"admn":  {Level: 15, Password: "$1$abcdef", SSHKeys: []string{}},
		"ops":   {Level: 10, Password: "$1$123456", SSHKeys: []string{}},
		"guest": {Level: 0, Password: "", SSHKeys: []string{}},
	}, users)
}

func Test_Open_ServerVersion(t *testing.T) {
	tests := []struct {
		server  string
		version string
		warned  bool
	}{
		{"ServerTech-PRO2/v8.0r", "8.0r", false},
		{"ServerTech-PRO2/v8.1b", "8.1b", false},
		{"ServerTech-PRO2/v7.1b", "7.1b", true},
		{"nginx", "", false},
	}

	for _, test := range tests {
		t.Run(test.server, func(t *testing.T) {
			assert := assert.New(t)

			core, logs := observer.New(zapcore.WarnLevel)
			t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

			f := newFakeJAWS(t)
			f.server = test.server
			d := openDriver(t, f)

			assert.Equal(test.version, d.ServerVersion())
			assert.Equal(test.warned, logs.FilterMessage("firmware older than the oldest supported version").Len() == 1)
		})
	}
}

func Test_GetConfig(t *testing.T) {
	assert := assert.New(t)
	d := openDriver(t, newFakeJAWS(t))

	cfg, err := d.GetConfig(t.Context(), device.ConfigAll, false, false)
	assert.NoError(err)
	assert.Equal(cfg.Running, cfg.Startup)
	assert.Equal("", cfg.Candidate)

	var doc map[string]json.RawMessage
	assert.NoError(json.Unmarshal([]byte(cfg.Running), &doc))
	assert.Contains(doc, "system")
	assert.Contains(doc, "network")
	assert.Contains(doc, "users/local")
	assert.Contains(doc, "info/units")
	// subtrees the device refuses are left out
	assert.NotContains(doc, "snmp")
	assert.NotContains(doc, "ldap")

	var system SystemConfig
	assert.NoError(json.Unmarshal(doc["system"], &system))
	assert.Equal("rack-a12", system.Location)
}

func Test_GetConfig_Retrieve(t *testing.T) {
	d := openDriver(t, newFakeJAWS(t))

	tests := []struct {
		retrieve string
		running  bool
		startup  bool
	}{
		{device.ConfigAll, true, true},
		{device.ConfigRunning, true, false},
		{device.ConfigStartup, false, true},
		{device.ConfigCandidate, false, false},
	}

	for _, test := range tests {
		t.Run(test.retrieve, func(t *testing.T) {
			assert := assert.New(t)

			cfg, err := d.GetConfig(t.Context(), test.retrieve, false, false)
			assert.NoError(err)
			assert.Equal(test.running, cfg.Running != "")
			assert.Equal(test.startup, cfg.Startup != "")
			assert.Empty(cfg.Candidate)
		})
	}
}

func Test_GetConfig_Sanitized(t *testing.T) {
	d := openDriver(t, newFakeJAWS(t))

	for _, retrieve := range []string{device.ConfigAll, device.ConfigRunning, device.ConfigStartup, device.ConfigCandidate} {
		t.Run(retrieve, func(t *testing.T) {
			cfg, err := d.GetConfig(t.Context(), retrieve, false, true)
			assert.ErrorIs(t, err, device.ErrNotImplemented)
			assert.Nil(t, cfg)
		})
	}
}

func Test_GetConfig_NonJSONBucket(t *testing.T) {
	assert := assert.New(t)
	f := newFakeJAWS(t)
	f.page("/config/snmp", "<html>snmp disabled</html>")
	d := openDriver(t, f)

	cfg, err := d.GetConfig(t.Context(), device.ConfigAll, false, false)
	assert.NoError(err)

	var doc map[string]json.RawMessage
	assert.NoError(json.Unmarshal([]byte(cfg.Running), &doc))
	assert.Contains(doc, "system")
	assert.JSONEq(`{"status":"success","status_code":200,"content":"<html>snmp disabled</html>"}`, string(doc["snmp"]))
}
