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

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/comcast/fishypdu/exporter"
	"github.com/comcast/fishypdu/jaws"
	"github.com/comcast/fishypdu/middleware/logging"
	pdu_vault "github.com/comcast/fishypdu/vault"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScrapeConfig holds configuration for scrape, device and control handlers
type ScrapeConfig struct {
	Vault *pdu_vault.Vault
	// NewDriver opens driver sessions, defaults to exporter.NewPRO2Driver.
	NewDriver exporter.DriverFunc
}

// NewDriverFunc returns NewDriver, or exporter.NewPRO2Driver when unset.
func (c *ScrapeConfig) NewDriverFunc() exporter.DriverFunc {
	if c == nil || c.NewDriver == nil {
		return exporter.NewPRO2Driver
	}
	return c.NewDriver
}

// ScrapeHandler handles GET /scrape requests
func ScrapeHandler(cfg *ScrapeConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler(r.Context(), w, r, cfg, nil)
	}
}

// PartialScrapeHandler handles GET /scrape/partial requests
func PartialScrapeHandler(cfg *ScrapeConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := zap.L()
		ctx := r.Context()

		componentsStr := r.URL.Query().Get("components")
		if componentsStr == "" {
			log.Error("'components' parameter not set", zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))
			http.Error(w, "'components' parameter is required. Valid components are: facts, environment, interfaces",
				http.StatusBadRequest)
			return
		}

		components, err := exporter.ParseComponents(componentsStr)
		if err != nil {
			log.Error("invalid components parameter", zap.Error(err), zap.String("components", componentsStr),
				zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		handler(ctx, w, r, cfg, components)
	}
}

// targetParam returns the single 'target' query parameter.
func targetParam(ctx context.Context, w http.ResponseWriter, query url.Values) (string, bool) {
	target := query.Get("target")
	if len(query["target"]) != 1 || target == "" {
		zap.L().Error("'target' parameter not set correctly", zap.String("target", target),
			zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))
		http.Error(w, "'target' parameter not set correctly", http.StatusBadRequest)
		return "", false
	}
	return target, true
}

// withProxy applies the optional 'proxy_host' query parameter to ctx.
func withProxy(ctx context.Context, w http.ResponseWriter, query url.Values) (context.Context, bool) {
	proxyHost := query.Get("proxy_host")
	if proxyHost == "" {
		return ctx, true
	}

	if !strings.Contains(proxyHost, "://") {
		proxyHost = "http://" + proxyHost
	}
	if u, err := url.Parse(proxyHost); err != nil || u.Host == "" {
		zap.L().Error("invalid proxy_host parameter", zap.Error(err), zap.String("proxy_host", proxyHost),
			zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))
		http.Error(w, "invalid proxy_host parameter", http.StatusBadRequest)
		return ctx, false
	}

	return jaws.WithProxyURL(ctx, proxyHost), true
}

func handler(ctx context.Context, w http.ResponseWriter, r *http.Request, cfg *ScrapeConfig, components []exporter.ComponentType) {
	log := zap.L()
	query := r.URL.Query()

	target, ok := targetParam(ctx, w, query)
	if !ok {
		return
	}

	// optional query param is used to tell us which credential profile to use when retrieving that hosts username and password
	credProf := query.Get("credential_profile")

	ctx, ok = withProxy(ctx, w, query)
	if !ok {
		return
	}

	log.Info("started scrape",
		zap.String("target", target),
		zap.String("credential_profile", credProf),
		zap.Any("components", components),
		zap.Any("trace_id", ctx.Value(logging.TraceIDKey("traceID"))))

	exp := exporter.NewExporter(ctx, target, credProf, components...).WithDriver(cfg.NewDriverFunc())

	registry := prometheus.NewRegistry()
	registry.MustRegister(exp)
	// Delegate http serving to Prometheus client library, which will call collector.Collect.
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	h.ServeHTTP(w, r)
}
