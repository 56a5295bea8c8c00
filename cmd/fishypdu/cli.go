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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/http/handlers"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func render(w io.Writer, v interface{}, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func runGet(ctx context.Context, w io.Writer, cfg *handlers.ScrapeConfig, target, profile, getter string, query map[string][]string, format string) error {
	var result interface{}
	err := handlers.Session(ctx, cfg.NewDriverFunc(), target, profile, func(drv device.Driver) error {
		var err error
		result, err = handlers.Get(ctx, drv, getter, query)
		return err
	})
	if err != nil {
		return err
	}
	return render(w, result, format)
}

func runControl(ctx context.Context, w io.Writer, cfg *handlers.ScrapeConfig, target, profile, format string, f func(device.PowerController) (*device.Response, error)) error {
	var res *device.Response
	err := handlers.Session(ctx, cfg.NewDriverFunc(), target, profile, func(drv device.Driver) error {
		pc, err := handlers.AsPowerController(drv)
		if err != nil {
			return err
		}
		res, err = f(pc)
		return err
	})
	if err != nil {
		return err
	}
	return render(w, res, format)
}

func runOutlet(ctx context.Context, w io.Writer, cfg *handlers.ScrapeConfig, target, profile, id, action, format string) error {
	return runControl(ctx, w, cfg, target, profile, format, func(pc device.PowerController) (*device.Response, error) {
		return pc.SetOutlet(ctx, id, action)
	})
}

func runRestart(ctx context.Context, w io.Writer, cfg *handlers.ScrapeConfig, target, profile, action, format string) error {
	return runControl(ctx, w, cfg, target, profile, format, func(pc device.PowerController) (*device.Response, error) {
		return pc.Restart(ctx, action)
	})
}
