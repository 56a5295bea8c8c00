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

package exporter

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/comcast/fishypdu/common"
	"github.com/comcast/fishypdu/config"
	"github.com/comcast/fishypdu/device"
	"github.com/comcast/fishypdu/jaws"
	"github.com/comcast/fishypdu/middleware/logging"
	"github.com/comcast/fishypdu/pool"
	"github.com/comcast/fishypdu/servertech/pro2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// OK is the float 1.0 reported for a healthy component
	OK = 1.0
	// BAD is the float 0.0 reported for a failed component
	BAD = 0.0
	// IGNORED is reported by up when the target rejected its credentials
	IGNORED = 2.0
)

var (
	log *zap.Logger
)

// DriverFunc opens sessions for the exporter.
type DriverFunc func(target config.Target, cred *common.Credential) device.Driver

// NewPRO2Driver returns a ServerTech PRO2 session for target.
func NewPRO2Driver(target config.Target, cred *common.Credential) device.Driver {
	verify := true
	if target.Verify != nil {
		verify = *target.Verify
	}
	return pro2.New(target.Host, cred.User, cred.Pass, target.Timeout, map[string]interface{}{"verify": verify})
}

// Exporter collects PDU stats from one target and exports them using
// the prometheus metrics package. Every Collect opens and closes its own
// driver session.
type Exporter struct {
	ctx           context.Context
	mutex         sync.Mutex
	target        config.Target
	credProfile   string
	components    []ComponentType
	newDriver     DriverFunc
	driver        device.Driver
	deviceMetrics *map[string]*metrics
}

// NewExporter returns an initialized Exporter for target. No component means
// every component is collected.
func NewExporter(ctx context.Context, target, profile string, components ...ComponentType) *Exporter {
	if len(components) == 0 {
		components = AllComponents
	}

	log = zap.L()

	tgt := config.GetConfig().Resolve(target)
	if profile == "" {
		profile = tgt.CredentialProfile
	}

	return &Exporter{
		ctx:           ctx,
		target:        tgt,
		credProfile:   profile,
		components:    components,
		newDriver:     NewPRO2Driver,
		deviceMetrics: NewDeviceMetrics(),
	}
}

// WithDriver replaces the driver constructor.
func (e *Exporter) WithDriver(f DriverFunc) *Exporter {
	e.newDriver = f
	return e
}

// Describe describes all the metrics ever exported by the fishypdu exporter. It
// implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range *e.deviceMetrics {
		for _, n := range *m {
			n.Describe(ch)
		}
	}
}

// Collect scrapes the target and delivers the results as Prometheus
// metrics. It implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mutex.Lock() // To protect metrics from concurrent collects.
	defer e.mutex.Unlock()

	e.resetMetrics()

	// perform scrape if target is not on ignored list
	if _, ok := common.IgnoredDevices.Get(e.target.Name); !ok {
		e.scrape()
	} else {
		e.setUp(IGNORED)
	}

	e.collectMetrics(ch)
}

func (e *Exporter) resetMetrics() {
	for _, m := range *e.deviceMetrics {
		for _, n := range *m {
			n.Reset()
		}
	}
}

func (e *Exporter) collectMetrics(metrics chan<- prometheus.Metric) {
	for _, m := range *e.deviceMetrics {
		for _, n := range *m {
			n.Collect(metrics)
		}
	}
}

func (e *Exporter) setUp(v float64) {
	var upMetric = (*e.deviceMetrics)["up"]
	(*upMetric)["up"].WithLabelValues().Set(v)
}

func (e *Exporter) traceID() interface{} {
	return e.ctx.Value(logging.TraceIDKey("traceID"))
}

// ignore parks the target until its credentials are fixed.
func (e *Exporter) ignore() {
	common.PDUCreds.Delete(e.target.Name)
	common.IgnoredDevices.Add(common.IgnoredDevice{
		Name:              e.target.Name,
		Endpoint:          (&url.URL{Scheme: "https", Host: e.target.Host, Path: jaws.BasePath + "/monitor/system"}).String(),
		CredentialProfile: e.credProfile,
	})
	log.Info("added host "+e.target.Name+" to ignored list", zap.Any("trace_id", e.traceID()))
	e.setUp(IGNORED)
}

func (e *Exporter) tasks() []*pool.Task {
	var tasks []*pool.Task
	for _, c := range e.components {
		switch c {
		case ComponentFacts:
			tasks = append(tasks, pool.NewTask(string(c), func() (interface{}, error) {
				return e.driver.GetFacts(e.ctx)
			}, e.exportFacts))
		case ComponentEnvironment:
			tasks = append(tasks, pool.NewTask(string(c), func() (interface{}, error) {
				return e.driver.GetEnvironment(e.ctx)
			}, e.exportEnvironment))
		case ComponentInterfaces:
			tasks = append(tasks, pool.NewTask(string(c), func() (interface{}, error) {
				return e.driver.GetInterfaces(e.ctx)
			}, e.exportInterfaces))
		}
	}
	return tasks
}

func (e *Exporter) scrape() {
	cred, err := common.PDUCreds.GetCredentials(e.ctx, e.credProfile, e.target.Name)
	if err != nil {
		log.Error("issue retrieving credentials for target "+e.target.Name, zap.Error(err), zap.Any("trace_id", e.traceID()))
		e.setUp(BAD)
		return
	}

	e.driver = e.newDriver(e.target, cred)
	defer func() {
		_ = e.driver.Close()
		e.driver = nil
	}()

	if err := e.driver.Open(e.ctx); err != nil {
		if device.StatusCode(err) == http.StatusUnauthorized {
			e.ignore()
			return
		}
		log.Error("error opening session to "+e.target.Name, zap.Error(err), zap.Any("trace_id", e.traceID()))
		e.setUp(BAD)
		return
	}

	// one driver session is never shared, so tasks run one at a time
	p := pool.NewPool(e.tasks(), 1)
	p.Run(e.ctx)

	state := OK
	for _, err := range p.Errors() {
		if device.StatusCode(err) == http.StatusUnauthorized {
			e.ignore()
			return
		}
		log.Error("error scraping "+e.target.Name, zap.Error(err), zap.Any("trace_id", e.traceID()))
		state = BAD
	}

	e.setUp(state)
}
