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

package jaws

import (
	"context"
	"net/url"
	"strings"
)

type proxyCtxKey string

const proxyHostKey proxyCtxKey = "proxy-host"

// WithProxyURL returns a context carrying a proxy that overrides the
// HTTP(S)_PROXY environment for clients built from it. A proxy without a
// scheme is assumed to be http.
func WithProxyURL(ctx context.Context, proxy string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if proxy != "" && !strings.Contains(proxy, "://") {
		proxy = "http://" + proxy
	}
	return context.WithValue(ctx, proxyHostKey, proxy)
}

func proxyURLFromContext(ctx context.Context) *url.URL {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(proxyHostKey).(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}
