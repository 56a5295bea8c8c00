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

// Package vault reads PDU credentials from HashiCorp Vault KV mounts using
// an AppRole login that is renewed for the lifetime of the process.
package vault

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"go.uber.org/zap"
)

const (
	// KV2Mount is the mount name assumed to hold a version 2 KV engine when
	// SecretProperties.KVVersion is unset.
	KV2Mount = "kv2"

	loginRetryInterval = 10 * time.Second
)

var (
	ErrBadTLSConfig = errors.New("bad TLS configuration")
	ErrMissingField = errors.New("secret is missing field")
)

type Parameters struct {
	Address         string
	ApproleRoleID   string
	ApproleSecretID string
	CACertBytes     []byte
}

// SecretProperties locates a credential secret and names its fields.
type SecretProperties struct {
	MountPath string
	Path      string
	// KVVersion is 1 or 2. Zero selects 2 for the "kv2" mount and 1 for
	// anything else.
	KVVersion     int
	UserField     string
	PasswordField string
	// SecretName pins every target of the profile to one secret.
	SecretName string
	// UserName is a static user name; the secret then only provides the
	// password.
	UserName string
}

// SecretPath returns the path of the secret holding the credential of target,
// relative to the mount.
func (p *SecretProperties) SecretPath(target string) string {
	name := target
	if p.SecretName != "" {
		name = p.SecretName
	}
	if p.Path == "" {
		return name
	}
	return path.Join(p.Path, name)
}

func (p *SecretProperties) kv2() bool {
	if p.KVVersion != 0 {
		return p.KVVersion == 2
	}
	return p.MountPath == KV2Mount
}

type Vault struct {
	mu         sync.RWMutex
	client     *vault.Client
	Parameters Parameters
	isLoggedIn bool
	log        *zap.Logger
}

// NewVaultAppRoleClient returns a client for parameters.Address. Nothing is
// sent to Vault until RenewToken logs in.
func NewVaultAppRoleClient(ctx context.Context, parameters Parameters) (*Vault, error) {
	config := vault.DefaultConfig()
	if config.Error != nil {
		return nil, fmt.Errorf("unable to read vault environment: %w", config.Error)
	}
	config.Address = parameters.Address
	if len(parameters.CACertBytes) > 0 {
		if err := config.ConfigureTLS(&vault.TLSConfig{
			CACertBytes: parameters.CACertBytes,
		}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTLSConfig, err)
		}
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize vault client: %w", err)
	}

	return &Vault{
		client:     client,
		Parameters: parameters,
		log:        zap.L().With(zap.String("vault_address", parameters.Address)),
	}, nil
}

func (v *Vault) login(ctx context.Context) (*vault.Secret, error) {
	v.mu.RLock()
	roleID := v.Parameters.ApproleRoleID
	secretID := v.Parameters.ApproleSecretID
	v.mu.RUnlock()

	appRoleAuth, err := approle.NewAppRoleAuth(roleID, &approle.SecretID{FromString: secretID})
	if err != nil {
		return nil, fmt.Errorf("unable to initialize approle authentication method: %w", err)
	}

	authInfo, err := v.client.Auth().Login(ctx, appRoleAuth)
	if err != nil {
		return nil, fmt.Errorf("unable to login using approle auth method: %w", err)
	}
	if authInfo == nil {
		return nil, fmt.Errorf("no auth info was returned after approle login")
	}

	return authInfo, nil
}

// GetKVSecret reads the secret of target described by props.
func (v *Vault) GetKVSecret(ctx context.Context, props *SecretProperties, target string) (*vault.KVSecret, error) {
	secretPath := props.SecretPath(target)

	var kvSecret *vault.KVSecret
	var err error
	if props.kv2() {
		kvSecret, err = v.client.KVv2(props.MountPath).Get(ctx, secretPath)
	} else {
		kvSecret, err = v.client.KVv1(props.MountPath).Get(ctx, secretPath)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read secret %s/%s: %w", props.MountPath, secretPath, err)
	}

	return kvSecret, nil
}

// GetCredential returns the user and password of target.
func (v *Vault) GetCredential(ctx context.Context, props *SecretProperties, target string) (string, string, error) {
	secret, err := v.GetKVSecret(ctx, props, target)
	if err != nil {
		return "", "", err
	}

	user := props.UserName
	if user == "" {
		var ok bool
		if user, ok = secret.Data[props.UserField].(string); !ok {
			return "", "", fmt.Errorf("%w %q", ErrMissingField, props.UserField)
		}
	}

	pass, ok := secret.Data[props.PasswordField].(string)
	if !ok {
		return "", "", fmt.Errorf("%w %q", ErrMissingField, props.PasswordField)
	}

	return user, pass, nil
}

func (v *Vault) IsLoggedIn() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.isLoggedIn
}

func (v *Vault) setLoggedIn(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.isLoggedIn = b
}

// RenewToken logs in and keeps the token alive until doneRenew fires,
// logging in again whenever the token can no longer be renewed.
func (v *Vault) RenewToken(ctx context.Context, doneRenew, tokenLifecycle chan bool, wg *sync.WaitGroup) {
	defer wg.Done()

	retry := time.NewTimer(0)
	defer retry.Stop()

	for {
		select {
		case <-doneRenew:
			v.log.Info("stopping renew token go routine")
			return
		case <-ctx.Done():
			v.log.Info("context cancelled, stopping renew token go routine")
			return
		case <-retry.C:
			authInfo, err := v.login(ctx)
			if err != nil {
				v.log.Error("unable to authenticate to vault", zap.Error(err))
				v.setLoggedIn(false)
				retry.Reset(loginRetryInterval)
				continue
			}

			v.setLoggedIn(true)
			relogin, err := v.manageTokenLifecycle(ctx, authInfo, tokenLifecycle)
			if err != nil {
				v.log.Error("unable to start managing token lifecycle", zap.Error(err))
				retry.Reset(loginRetryInterval)
				continue
			}
			if !relogin {
				return
			}
			retry.Reset(0)
		}
	}
}

// manageTokenLifecycle blocks while token is renewable. relogin is false
// once done fires or ctx is cancelled.
func (v *Vault) manageTokenLifecycle(ctx context.Context, token *vault.Secret, done chan bool) (relogin bool, err error) {
	if token.Auth != nil && !token.Auth.Renewable {
		v.log.Info("token is not configured to be renewable. waiting for the lease to expire")
		select {
		case <-done:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(time.Duration(token.Auth.LeaseDuration) * time.Second):
			return true, nil
		}
	}

	watcher, err := v.client.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
		Secret:    token,
		Increment: token.LeaseDuration / 2,
	})
	if err != nil {
		return false, fmt.Errorf("unable to initialize new lifetime watcher for renewing auth token: %w", err)
	}

	go watcher.Start()
	defer func() {
		v.log.Info("revoking token before app shutdown")
		if err := v.client.Auth().Token().RevokeSelfWithContext(ctx, v.client.Token()); err != nil {
			v.log.Error("unable to revoke token", zap.Error(err))
		}
		v.setLoggedIn(false)
	}()
	defer watcher.Stop()

	for {
		select {
		case <-done:
			v.log.Info("stopping token watcher go routine")
			return false, nil
		case <-ctx.Done():
			return false, nil
		// DoneCh fires when renewal fails or the token reached its max TTL.
		case err := <-watcher.DoneCh():
			if err != nil {
				v.log.Error("failed to renew token. re-attempting login", zap.Error(err))
				return true, nil
			}
			v.log.Info("token can no longer be renewed. re-attempting login")
			return true, nil
		case renewal := <-watcher.RenewCh():
			v.client.SetToken(renewal.Secret.Auth.ClientToken)
			v.log.Debug("successfully renewed vault token", zap.Time("renewed_at", renewal.RenewedAt))
		}
	}
}
