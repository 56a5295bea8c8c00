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
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/alecthomas/kingpin.v2"
)

func Test_CredentialProf(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected []CredentialProfile
		err      bool
	}{
		{
			name: "yaml",
			arg: `
profiles:
  - name: pdu
    mountPath: kv2
    path: path/to/secret
    userField: user
    passwordField: password
`,
			expected: []CredentialProfile{
				{Name: "pdu", MountPath: "kv2", Path: "path/to/secret", UserField: "user", PasswordField: "password"},
			},
		},
		{
			name: "json",
			arg:  `{"profiles":[{"name":"shared","mountPath":"secret","secretName":"pdus","userName":"admn","passwordField":"password"}]}`,
			expected: []CredentialProfile{
				{Name: "shared", MountPath: "secret", SecretName: "pdus", UserName: "admn", PasswordField: "password"},
			},
		},
		{
			name: "missing name",
			arg:  `{"profiles":[{"mountPath":"kv2","userField":"u","passwordField":"p"}]}`,
			err:  true,
		},
		{
			name: "missing user",
			arg:  `{"profiles":[{"name":"a","mountPath":"kv2","passwordField":"p"}]}`,
			err:  true,
		},
		{
			name: "not yaml",
			arg:  "profiles: [",
			err:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			app := kingpin.New("test", "")
			profiles := CredentialProf(app.Flag("credentials.profiles", ""))

			_, err := app.Parse([]string{"--credentials.profiles", test.arg})
			if test.err {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(test.expected, profiles.Profiles)
		})
	}
}

func Test_GetCredentials(t *testing.T) {
	assert := assert.New(t)

	creds := PDUCredentials{
		Creds:    make(map[string]*Credential),
		Profiles: make(map[string]CredentialProfile),
	}
	creds.SetProfiles([]CredentialProfile{{Name: "pdu", MountPath: "kv2", UserField: "u", PasswordField: "p"}})

	// static credential from the configuration
	cred, err := creds.GetCredentials(t.Context(), "", "pdu1")
	assert.NoError(err)
	assert.Equal(&Credential{User: "admn", Pass: "admn"}, cred)

	cached, ok := creds.Get("pdu1")
	assert.True(ok)
	assert.Same(cred, cached)

	creds.Delete("pdu1")
	_, ok = creds.Get("pdu1")
	assert.False(ok)

	_, err = creds.GetCredentials(t.Context(), "missing", "pdu2")
	assert.ErrorIs(err, ErrInvalidCredential)

	// vault is not configured
	_, err = creds.GetCredentials(t.Context(), "pdu", "pdu2")
	assert.Error(err)

	creds.Set("pdu3", &Credential{User: "u", Pass: "p"})
	cred, err = creds.GetCredentials(t.Context(), "pdu", "pdu3")
	assert.NoError(err)
	assert.Equal("u", cred.User)
}
