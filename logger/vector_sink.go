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

package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/config"
	"github.com/hashicorp/go-retryablehttp"
)

// vectorSink posts every encoded log entry to a vector http source.
type vectorSink struct {
	client   *retryablehttp.Client
	endpoint string
}

func newVectorSink(u *url.URL) *vectorSink {
	retryClient := retryablehttp.NewClient()
	retryClient.CheckRetry = retryablehttp.ErrorPropagatedRetryPolicy
	retryClient.HTTPClient = common.NewHTTPClient(config.GetConfig().Verify(), 30*time.Second)
	retryClient.Logger = nil
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 1 * time.Second
	retryClient.RetryMax = 2

	return &vectorSink{
		client:   retryClient,
		endpoint: u.String(),
	}
}

func (v *vectorSink) Write(b []byte) (int, error) {
	// zap reuses b once Write returns
	payload := bytes.Clone(b)

	req, err := retryablehttp.NewRequest(http.MethodPost, v.endpoint, payload)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "fishypdu-vector-http")

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer common.EmptyAndCloseBody(resp)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("vector endpoint returned %s", resp.Status)
	}

	return len(b), nil
}

func (v *vectorSink) Sync() error {
	return nil
}
