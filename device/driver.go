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

import "context"

// Driver is the management surface every supported device model exposes.
// A Driver serves a single caller; calls must be serialized by the caller.
type Driver interface {
	Open(ctx context.Context) error
	Close() error
	IsAlive() bool

	GetConfig(ctx context.Context, retrieve string, full, sanitized bool) (*Config, error)
	GetEnvironment(ctx context.Context) (*Environment, error)
	GetFacts(ctx context.Context) (*Facts, error)
	GetInterfaces(ctx context.Context) (Interfaces, error)
	GetInterfacesIP(ctx context.Context) (InterfacesIP, error)
	GetUsers(ctx context.Context) (Users, error)
}

// PowerController is implemented by drivers for switched power equipment.
type PowerController interface {
	SetOutlet(ctx context.Context, id, action string) (*Response, error)
	Restart(ctx context.Context, action string) (*Response, error)
}

// PDU is a Driver that can also switch outlets and restart itself.
type PDU interface {
	Driver
	PowerController
}

// VersionReporter is implemented by drivers that learn the device firmware
// version while opening a session.
type VersionReporter interface {
	ServerVersion() string
}
