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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Target overrides the defaults of Config for one PDU.
type Target struct {
	Name              string        `yaml:"name"`
	Host              string        `yaml:"host"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	CredentialProfile string        `yaml:"credential_profile"`
	Verify            *bool         `yaml:"verify"`
	Timeout           time.Duration `yaml:"timeout"`
}

// Targets is the YAML target inventory:
//
//	targets:
//	  - name: pdu1
//	    host: 10.0.0.5
//	    credential_profile: pdu
//	    verify: false
type Targets struct {
	Targets []Target `yaml:"targets"`

	byKey map[string]*Target
}

// LoadTargets reads the inventory at path. Unknown keys are rejected.
func LoadTargets(path string) (*Targets, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read targets file - %w", err)
	}
	return ParseTargets(raw)
}

// ParseTargets decodes an inventory document.
func ParseTargets(raw []byte) (*Targets, error) {
	var t Targets

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse targets file - %w", err)
	}

	t.byKey = make(map[string]*Target, len(t.Targets)*2)
	for i := range t.Targets {
		tgt := &t.Targets[i]
		if tgt.Host == "" {
			return nil, fmt.Errorf("target %d has no host", i)
		}
		if tgt.Name == "" {
			tgt.Name = tgt.Host
		}
		if _, dup := t.byKey[tgt.Name]; dup {
			return nil, fmt.Errorf("duplicate target %q", tgt.Name)
		}
		t.byKey[tgt.Name] = tgt
		if _, ok := t.byKey[tgt.Host]; !ok {
			t.byKey[tgt.Host] = tgt
		}
	}

	return &t, nil
}

// Lookup finds a target by name or host.
func (t *Targets) Lookup(key string) (*Target, bool) {
	if t == nil {
		return nil, false
	}
	tgt, ok := t.byKey[key]
	return tgt, ok
}

// Resolve returns the effective settings for key, falling back to c for
// anything the inventory does not set. Unknown keys are taken as host names.
func (c *Config) Resolve(key string) Target {
	res := Target{
		Name:     key,
		Host:     key,
		Username: c.User,
		Password: c.Pass,
		Timeout:  c.Timeout,
	}
	verify := c.Verify()
	res.Verify = &verify

	tgt, ok := c.Targets.Lookup(key)
	if !ok {
		return res
	}

	res.Name = tgt.Name
	res.Host = tgt.Host
	res.CredentialProfile = tgt.CredentialProfile
	if tgt.Username != "" {
		res.Username = tgt.Username
	}
	if tgt.Password != "" {
		res.Password = tgt.Password
	}
	if tgt.Verify != nil {
		v := *tgt.Verify
		res.Verify = &v
	}
	if tgt.Timeout > 0 {
		res.Timeout = tgt.Timeout
	}

	return res
}
