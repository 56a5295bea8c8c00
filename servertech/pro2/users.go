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

	"github.com/comcast/fishypdu/device"
)

// /jaws/config/users/local
type LocalUser struct {
	Username       string `json:"username"`
	AccessLevel    string `json:"access_level"`
	PasswordSecure string `json:"password_secure"`
}

// GetUsers reports the local accounts. JAWS returns the stored password of
// every account; it is passed through unchanged.
func (d *Driver) GetUsers(ctx context.Context) (device.Users, error) {
	var users []LocalUser
	if err := d.get(ctx, "/config/users/local", &users, "username", "access_level", "password_secure"); err != nil {
		return nil, err
	}

	res := make(device.Users, len(users))
	for _, u := range users {
		res[u.Username] = device.User{
			Level:    LocalUserLevels[u.AccessLevel],
			Password: u.PasswordSecure,
			SSHKeys:  []string{},
		}
	}
	return res, nil
}
