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
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testUser   = "admn"
	testPass   = "secret"
	testServer = "ServerTech-PRO2/v8.0r"
)

// fakeJAWS serves testdata/<path with / replaced by _>.json for every GET
// under /jaws. Routes can be overridden per test.
type fakeJAWS struct {
	*httptest.Server

	mu        sync.Mutex
	overrides map[string]int
	pages     map[string]string
	docs      map[string]string
	patches   map[string]string
	server    string
}

func newFakeJAWS(t *testing.T) *fakeJAWS {
	t.Helper()

	f := &fakeJAWS{
		overrides: map[string]int{},
		pages:     map[string]string{},
		docs:      map[string]string{},
		patches:   map[string]string{},
		server:    testServer,
	}
	f.Server = httptest.NewTLSServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)

	return f
}

// fail makes every request to path answer with code.
func (f *fakeJAWS) fail(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[path] = code
}

// page makes GET requests to path answer 200 with an html document.
func (f *fakeJAWS) page(path, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[path] = html
}

// json makes GET requests to path answer 200 with body instead of the
// testdata document.
func (f *fakeJAWS) json(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = body
}

func (f *fakeJAWS) patched(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patches[path]
}

func (f *fakeJAWS) host() string {
	u, _ := url.Parse(f.URL)
	return u.Host
}

func (f *fakeJAWS) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	w.Header().Set("Server", f.server)
	f.mu.Unlock()

	user, pass, ok := r.BasicAuth()
	if !ok || user != testUser || pass != testPass {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/jaws")

	f.mu.Lock()
	code, overridden := f.overrides[path]
	html, isPage := f.pages[path]
	doc, isDoc := f.docs[path]
	f.mu.Unlock()
	if overridden {
		w.WriteHeader(code)
		return
	}
	if isPage && r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, html)
		return
	}
	if isDoc && r.Method == http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, doc)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		if path == "/control/outlets/XX99" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, r.Body)
		f.mu.Lock()
		f.patches[path] = buf.String()
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		name := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_") + ".json"
		body, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func openDriver(t *testing.T, f *fakeJAWS) *Driver {
	t.Helper()

	d := New(f.host(), testUser, testPass, 5*time.Second, map[string]interface{}{"verify": false})
	if err := d.Open(t.Context()); err != nil {
		t.Fatalf("unable to open driver: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return d
}
