/*
 * Copyright 2024 Comcast Cable Communications Management, LLC
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

package logging

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nrednav/cuid2"
	"go.uber.org/zap"
)

// TraceIDHeader carries the trace id of a request in both directions. An
// incoming value is reused so callers can correlate PDU operations.
const TraceIDHeader = "X-Trace-Id"

const maxTraceIDLen = 64

// TraceIDKey is the context key type under which the request trace id is
// stored, always as TraceIDKey("traceID").
type TraceIDKey string

var (
	log         *zap.Logger
	generate, _ = cuid2.Init(
		cuid2.WithLength(32),
	)
)

// WithTraceID returns a copy of ctx carrying a freshly generated trace id.
func WithTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey("traceID"), generate())
}

func traceID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(TraceIDHeader))
	if id == "" || len(id) > maxTraceIDLen || strings.ContainsAny(id, " \t\r\n") {
		return generate()
	}
	return id
}

// LoggingHandler accepts an http.Handler and wraps it with a
// handler that logs the request and response information.
func LoggingHandler(h http.Handler) http.Handler {
	if h == nil {
		h = http.DefaultServeMux
	}

	log = zap.L()

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := traceID(req)
		req = req.WithContext(context.WithValue(req.Context(), TraceIDKey("traceID"), id))
		w.Header().Set(TraceIDHeader, id)

		srw := statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		query := req.URL.Query()

		defer func(start time.Time) {
			fields := []zap.Field{
				zap.String("target", query.Get("target")),
				zap.String("sourceAddr", req.RemoteAddr),
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.String("proto", req.Proto),
				zap.Int("status", srw.status),
				zap.Float64("elapsed_time_sec", time.Since(start).Seconds()),
				zap.String("trace_id", id),
			}
			// state changing calls are always worth a trace
			if req.Method != http.MethodGet || srw.status >= http.StatusInternalServerError {
				log.Warn("finished handling", fields...)
				return
			}
			log.Info("finished handling", fields...)
		}(time.Now())

		h.ServeHTTP(&srw, req)
	})
}
