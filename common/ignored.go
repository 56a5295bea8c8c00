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
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/comcast/fishypdu/config"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var (
	IgnoredDevices = IgnoredRegistry{devices: make(map[string]IgnoredDevice)}
)

type host struct {
	H string `json:"host"`
}

// IgnoredDevice is a PDU that rejected its credentials. It is not scraped
// again until it is removed from the registry.
type IgnoredDevice struct {
	Name              string
	Endpoint          string
	CredentialProfile string
	Since             time.Time
}

type IgnoredRegistry struct {
	mu      sync.RWMutex
	devices map[string]IgnoredDevice
}

func (r *IgnoredRegistry) Add(d IgnoredDevice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Since.IsZero() {
		d.Since = time.Now()
	}
	r.devices[d.Name] = d
}

func (r *IgnoredRegistry) Get(name string) (IgnoredDevice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[name]
	return d, ok
}

func (r *IgnoredRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, name)
}

// List returns the ignored devices sorted by name.
func (r *IgnoredRegistry) List() []IgnoredDevice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]IgnoredDevice, 0, len(r.devices))
	for _, d := range r.devices {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// TestConn retries the credentials of an ignored device against its probe
// endpoint. A fresh credential is fetched, so a rotated secret is picked up.
func TestConn(w http.ResponseWriter, r *http.Request) {
	var h host
	response := make(map[string]interface{})
	response["connectionTest"] = false

	log = zap.L()

	fail := func(code int, err error) {
		response["error"] = err.Error()
		resp, _ := marshalResponse(&response, r)
		w.WriteHeader(code)
		w.Write(resp)
	}

	body, err := getBody(r)
	if err != nil {
		fail(http.StatusInternalServerError, err)
		return
	}

	if err := unmarshalBody(body, &h, r); err != nil {
		fail(http.StatusBadRequest, err)
		return
	}

	dev, ok := IgnoredDevices.Get(h.H)
	if !ok {
		log.Error("missing host from ignored hosts list", zap.String("host", h.H), zap.String("path", r.URL.Path))
		response["error"] = "missing host from ignored hosts list"
		resp, _ := marshalResponse(&response, r)
		w.WriteHeader(http.StatusNotFound)
		w.Write(resp)
		return
	}

	PDUCreds.Delete(dev.Name)
	credential, err := PDUCreds.GetCredentials(r.Context(), dev.CredentialProfile, dev.Name)
	if err != nil {
		log.Error("issue retrieving credentials using target "+dev.Name, zap.Error(err), zap.String("path", r.URL.Path))
		fail(http.StatusInternalServerError, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	req, err := BuildRequest(ctx, http.MethodGet, dev.Endpoint, credential, nil)
	if err != nil {
		log.Error("failed to build test connection request", zap.Error(err), zap.String("path", r.URL.Path))
		fail(http.StatusInternalServerError, err)
		return
	}

	res, err := DoRequest(probeClient(), req)
	if err != nil {
		log.Error("request failed for test connection call", zap.Error(err), zap.String("path", r.URL.Path))
		fail(http.StatusBadGateway, err)
		return
	}
	defer EmptyAndCloseBody(res)

	if res.StatusCode != http.StatusUnauthorized {
		response["connectionTest"] = true
	} else {
		PDUCreds.Delete(dev.Name)
		response["error"] = res.Status
	}

	resp, _ := marshalResponse(&response, r)
	w.WriteHeader(http.StatusOK)
	w.Write(resp)
}

func probeClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient = NewHTTPClient(config.GetConfig().Verify(), 10*time.Second)
	return client
}

func RemoveHost(w http.ResponseWriter, r *http.Request) {
	var h host

	log = zap.L()

	body, err := getBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := unmarshalBody(body, &h, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	IgnoredDevices.Remove(h.H)
	PDUCreds.Delete(h.H)
	log.Info("remove host " + h.H + " from ignored list")
	w.WriteHeader(http.StatusOK)
}

func getBody(r *http.Request) ([]byte, error) {
	log = zap.L()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("could not parse request body", zap.Error(err), zap.String("path", r.URL.Path))
		return body, err
	}
	return body, nil
}

func unmarshalBody(b []byte, h *host, r *http.Request) error {
	log = zap.L()

	if err := json.Unmarshal(b, h); err != nil {
		log.Error("could not unmarshal host struct", zap.Error(err), zap.String("path", r.URL.Path))
		return err
	}
	return nil
}

func marshalResponse(p *map[string]interface{}, r *http.Request) ([]byte, error) {
	log = zap.L()

	resp, err := json.Marshal(p)
	if err != nil {
		log.Error("could not marshal response", zap.Error(err), zap.String("path", r.URL.Path))
		return resp, err
	}
	return resp, nil
}
