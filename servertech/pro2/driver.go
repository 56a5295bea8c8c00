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

// Package pro2 drives ServerTech PRO2 PDUs through their JAWS API and
// normalises the answers into the records of the device package.
package pro2

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/jaws"
	"github.com/comcast/fishypdu/middleware/logging"
	"go.uber.org/zap"
)

// DefaultTimeout applies when New is given a zero timeout.
const DefaultTimeout = 60 * time.Second

const probePath = "/monitor/system"

// MinServerVersion is the oldest JAWS firmware the driver is tested against.
const MinServerVersion = "8.0"

var (
	_ device.PDU             = (*Driver)(nil)
	_ device.VersionReporter = (*Driver)(nil)
)

// State is the lifecycle state of a Driver session.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// Driver is a session with one PRO2 PDU. It is not safe for concurrent use.
type Driver struct {
	Hostname     string
	Username     string
	Password     string
	Timeout      time.Duration
	OptionalArgs map[string]interface{}

	verify        bool
	state         State
	api           *jaws.Client
	serverVersion string
	log           *zap.Logger
}

// New returns a closed driver. The only optional argument recognised is
// "verify" (default true), which toggles TLS peer verification.
func New(hostname, username, password string, timeout time.Duration, optionalArgs map[string]interface{}) *Driver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if optionalArgs == nil {
		optionalArgs = map[string]interface{}{}
	}

	d := &Driver{
		Hostname:     hostname,
		Username:     username,
		Password:     password,
		Timeout:      timeout,
		OptionalArgs: optionalArgs,
		verify:       true,
		log:          zap.L().With(zap.String("target", hostname), zap.String("platform", Platform)),
	}

	if v, ok := optionalArgs["verify"]; ok {
		d.verify = truthy(v)
	}

	return d
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// Platform returns the driver platform name.
func (d *Driver) Platform() string {
	return Platform
}

// Verify reports whether TLS peer verification is enabled.
func (d *Driver) Verify() bool {
	return d.verify
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// ServerVersion returns the firmware version advertised by the device when
// the session was opened, if any.
func (d *Driver) ServerVersion() string {
	return d.serverVersion
}

// Open creates the HTTP session and probes the device with GET /monitor/system.
// The session is left closed if the probe fails.
func (d *Driver) Open(ctx context.Context) error {
	if d.state == StateOpen {
		return nil
	}

	d.state = StateOpening
	d.api = jaws.NewClient(ctx, d.Hostname, &common.Credential{User: d.Username, Pass: d.Password}, jaws.Options{
		Timeout: d.Timeout,
		Verify:  d.verify,
	})

	res, err := d.api.Get(ctx, probePath)
	if err != nil {
		d.release()
		d.log.Error("failed to open session", zap.Error(err), zap.Any("trace_id", traceID(ctx)))
		if errors.Is(err, device.ErrConnection) || device.StatusCode(err) != 0 {
			return err
		}
		return fmt.Errorf("%w: %w", device.ErrConnection, err)
	}

	if v, ok := ParseServerVersion(res.Header.Get("Server")); ok {
		d.serverVersion = v
		if !VersionAtLeast(v, MinServerVersion) {
			d.log.Warn("firmware older than the oldest supported version",
				zap.String("server_version", v), zap.String("min_server_version", MinServerVersion),
				zap.Any("trace_id", traceID(ctx)))
		}
	}

	d.state = StateOpen
	d.log.Debug("session opened", zap.String("server_version", d.serverVersion),
		zap.Any("trace_id", traceID(ctx)))

	return nil
}

// Close releases the session. Closing a closed driver is a no-op.
func (d *Driver) Close() error {
	d.release()
	return nil
}

func (d *Driver) release() {
	if d.api != nil {
		d.api.Close()
		d.api = nil
	}
	d.state = StateClosed
}

// IsAlive reports whether the session is open. It does not contact the device.
func (d *Driver) IsAlive() bool {
	return d.state == StateOpen && d.api != nil
}

func traceID(ctx context.Context) interface{} {
	return ctx.Value(logging.TraceIDKey("traceID"))
}

func (d *Driver) client() (*jaws.Client, error) {
	if !d.IsAlive() {
		return nil, device.ErrSessionClosed
	}
	return d.api, nil
}

// get is a strict GET decoded into v.
func (d *Driver) get(ctx context.Context, path string, v interface{}, required ...string) error {
	api, err := d.client()
	if err != nil {
		return err
	}

	res, err := api.Get(ctx, path)
	if err != nil {
		return err
	}

	if err := res.Decode(v, required...); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// getTolerant is a tolerant GET decoded into v. It reports false, without
// error, when the device answered with an HTTP error.
func (d *Driver) getTolerant(ctx context.Context, path string, v interface{}, required ...string) (bool, error) {
	api, err := d.client()
	if err != nil {
		return false, err
	}

	res, err := api.GetTolerant(ctx, path)
	if err != nil {
		return false, err
	}
	if res.Failed() {
		return false, nil
	}

	if err := res.Decode(v, required...); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	return true, nil
}
