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

package common

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/comcast/fishypdu/config"
	pdu_vault "github.com/comcast/fishypdu/vault"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

var (
	log *zap.Logger

	PDUCreds = PDUCredentials{
		Creds:    make(map[string]*Credential),
		Profiles: make(map[string]CredentialProfile),
	}
)

type Credential struct {
	User string
	Pass string
}

// CredentialProfile describes where the credentials of a group of PDUs are
// stored in vault.
type CredentialProfile struct {
	Name          string `yaml:"name"`
	MountPath     string `yaml:"mountPath"`
	Path          string `yaml:"path"`
	KVVersion     int    `yaml:"kvVersion"`
	UserField     string `yaml:"userField"`
	PasswordField string `yaml:"passwordField"`
	SecretName    string `yaml:"secretName"`
	UserName      string `yaml:"userName"`
}

func (p CredentialProfile) secretProperties() *pdu_vault.SecretProperties {
	return &pdu_vault.SecretProperties{
		MountPath:     p.MountPath,
		Path:          p.Path,
		KVVersion:     p.KVVersion,
		UserField:     p.UserField,
		PasswordField: p.PasswordField,
		SecretName:    p.SecretName,
		UserName:      p.UserName,
	}
}

type CredentialProfiles struct {
	Profiles []CredentialProfile `yaml:"profiles"`
}

// Set parses a yaml (or json) document of profiles.
func (c *CredentialProfiles) Set(value string) error {
	var parsed CredentialProfiles
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return fmt.Errorf("unable to parse credential profiles - %w", err)
	}

	for i, p := range parsed.Profiles {
		if p.Name == "" {
			return fmt.Errorf("credential profile %d has no name", i)
		}
		if p.MountPath == "" {
			return fmt.Errorf("credential profile %q has no mountPath", p.Name)
		}
		if p.PasswordField == "" {
			return fmt.Errorf("credential profile %q has no passwordField", p.Name)
		}
		if p.UserField == "" && p.UserName == "" {
			return fmt.Errorf("credential profile %q needs a userField or a userName", p.Name)
		}
	}

	c.Profiles = parsed.Profiles
	return nil
}

func (c *CredentialProfiles) String() string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return strings.Join(names, ",")
}

// CredentialProf registers a credential profiles flag.
func CredentialProf(s kingpin.Settings) *CredentialProfiles {
	target := &CredentialProfiles{}
	s.SetValue(target)
	return target
}

// PDUCredentials caches the credential of every target. Credentials come from
// vault when a profile is named, otherwise from the static user and password
// of the configuration.
type PDUCredentials struct {
	mu       sync.Mutex
	Creds    map[string]*Credential
	Profiles map[string]CredentialProfile
	Vault    *pdu_vault.Vault
}

func (c *PDUCredentials) Get(key string) (*Credential, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.Creds[key]
	return val, ok
}

func (c *PDUCredentials) Set(key string, value *Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Creds[key] = value
}

// Delete drops the cached credential of key, i.e. after it was rotated.
func (c *PDUCredentials) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Creds, key)
}

func (c *PDUCredentials) SetProfiles(profiles []CredentialProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range profiles {
		c.Profiles[p.Name] = p
	}
}

func (c *PDUCredentials) profile(name string) (CredentialProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.Profiles[name]
	return p, ok
}

// GetCredentials returns the credential of target, from the cache if
// possible.
func (c *PDUCredentials) GetCredentials(ctx context.Context, profile, target string) (*Credential, error) {
	if cred, ok := c.Get(target); ok {
		return cred, nil
	}

	log = zap.L()

	if profile == "" {
		tgt := config.GetConfig().Resolve(target)
		if tgt.Username == "" || tgt.Password == "" {
			return nil, fmt.Errorf("%w: no credential profile given and no static credential configured for target %s", ErrInvalidCredential, target)
		}
		cred := &Credential{User: tgt.Username, Pass: tgt.Password}
		c.Set(target, cred)
		return cred, nil
	}

	p, ok := c.profile(profile)
	if !ok {
		return nil, fmt.Errorf("%w: unknown credential profile %q", ErrInvalidCredential, profile)
	}

	if c.Vault == nil {
		log.Error("issue retrieving credentials from vault using target "+target, zap.Error(fmt.Errorf("vault client not configured")))
		return nil, fmt.Errorf("issue retrieving credentials from vault using target: %s", target)
	}

	user, pass, err := c.Vault.GetCredential(ctx, p.secretProperties(), target)
	if err != nil {
		log.Error("issue retrieving credentials from vault using target "+target, zap.Error(err),
			zap.String("credential_profile", profile))
		return nil, fmt.Errorf("issue retrieving credentials from vault using target %s: %w", target, err)
	}

	cred := &Credential{User: user, Pass: pass}
	c.Set(target, cred)
	return cred, nil
}
