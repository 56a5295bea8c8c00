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

// Package buildinfo carries the version stamped in at link time with
// -ldflags "-X github.com/comcast/fishypdu/buildinfo.gitVersion=...".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"
)

const (
	// App is the binary and metric namespace name.
	App     = "fishypdu"
	Unknown = "unknown"
)

var (
	gitVersion  = Unknown
	gitRevision = Unknown
	date        = Unknown

	Info info
)

type info struct {
	App         string   `json:"app"`
	Arch        string   `json:"arch"`
	Compiler    string   `json:"compiler"`
	Date        string   `json:"build_date"`
	GitRevision string   `json:"revision"`
	GitVersion  string   `json:"version"`
	GoVersion   string   `json:"go_version"`
	OS          string   `json:"os"`
	Drivers     []string `json:"drivers"`
}

func init() {
	Info = info{
		App:         App,
		Arch:        runtime.GOARCH,
		Compiler:    runtime.Compiler,
		Date:        date,
		GitRevision: gitRevision,
		GitVersion:  gitVersion,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Drivers:     []string{"pro2"},
	}
}

// UserAgent is sent on every request to a device.
func UserAgent() string {
	return App + "/" + Info.GitVersion
}

// Print writes the build information as an aligned table.
func Print(dest io.Writer) error {
	w := tabwriter.NewWriter(dest, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "App:\t%s\n", Info.App)
	fmt.Fprintf(w, "Version:\t%q\n", Info.GitVersion)
	fmt.Fprintf(w, "Revision:\t%q\n", Info.GitRevision)
	fmt.Fprintf(w, "Build Date:\t%q\n", Info.Date)
	fmt.Fprintf(w, "Go Version:\t%q\n", Info.GoVersion)
	fmt.Fprintf(w, "Go OS/ARCH:\t%s/%s\n", Info.OS, Info.Arch)
	fmt.Fprintf(w, "Go Compiler:\t%q\n", Info.Compiler)
	fmt.Fprintf(w, "Drivers:\t%v\n", Info.Drivers)
	return w.Flush()
}

// JSON writes the build information as a JSON document.
func JSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(Info)
}
