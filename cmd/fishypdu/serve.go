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
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/comcast/fishypdu/buildinfo"
	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/http/handlers"
	"github.com/comcast/fishypdu/logger"
	"github.com/comcast/fishypdu/middleware/logging"
	"github.com/comcast/fishypdu/middleware/muxprom"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newMux registers every route served by the exporter.
func newMux(cfg *handlers.ScrapeConfig) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		buildinfo.JSON(w)
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /scrape", handlers.ScrapeHandler(cfg))
	mux.HandleFunc("GET /scrape/partial", handlers.PartialScrapeHandler(cfg))

	mux.HandleFunc("GET /device/{getter}", handlers.DeviceHandler(cfg))
	mux.HandleFunc("POST /control/outlet", handlers.OutletHandler(cfg))
	mux.HandleFunc("POST /control/restart", handlers.RestartHandler(cfg))

	tmplIndex := template.Must(template.New("index").Parse(indexTmpl))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		err := tmplIndex.Execute(w, buildinfo.Info)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	tmplIgnored := template.Must(template.New("ignored").Parse(ignoredTmpl))
	mux.HandleFunc("GET /ignored", func(w http.ResponseWriter, r *http.Request) {
		err := tmplIgnored.Execute(w, common.IgnoredDevices.List())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("POST /ignored/test-conn", common.TestConn)
	mux.HandleFunc("POST /ignored/remove", common.RemoveHost)

	mux.HandleFunc("GET /verbosity", logger.Verbosity)
	mux.HandleFunc("PUT /verbosity", logger.SetVerbosity)

	return mux
}

func serve(ctx context.Context, cfg *handlers.ScrapeConfig) {
	doneRenew := make(chan bool, 1)
	tokenLifecycle := make(chan bool, 1)

	if vault != nil {
		// start go routine to continuously renew vault token
		wg.Add(1)
		go vault.RenewToken(ctx, doneRenew, tokenLifecycle, &wg)
	}

	instrumentation := muxprom.NewDefaultInstrumentation()
	wrappedmux := logging.LoggingHandler(instrumentation.Middleware(newMux(cfg)))

	srv := &http.Server{
		Addr:    ":" + *exporterPort,
		Handler: wrappedmux,
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	listener, err := net.Listen("tcp4", ":"+*exporterPort)
	if err != nil {
		log.Error("starting "+app+" service failed", zap.Error(err))
		signals <- syscall.SIGTERM
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error("http server received an error", zap.Error(err))
				signals <- syscall.SIGTERM
			}
		}()

		log.Info("started "+app+" service", zap.String("port", *exporterPort),
			zap.Int("credential_profiles", len(credProfiles.Profiles)))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s := <-signals
		log.Info(s.String() + " signal caught, stopping app")
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("http server shutdown failed", zap.Error(err))
		}

		if vault != nil && vault.IsLoggedIn() {
			// send signal to stop token watcher if we were able to successfully login
			tokenLifecycle <- true
		}
		doneRenew <- true
	}()

	wg.Wait()
}

