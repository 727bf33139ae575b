//
// See the file COPYRIGHT for copyright information.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reliefops/ers-go/conf"
	"github.com/reliefops/ers-go/engine"
	"github.com/reliefops/ers-go/lib/herr"
	"github.com/reliefops/ers-go/metrics"
	"github.com/reliefops/ers-go/predict"
)

func AddToMux(
	mux *http.ServeMux,
	es *EventSourcerer,
	cfg *conf.ERSConfig,
	sys *engine.System,
	earthquake *predict.Earthquake,
	flood *predict.Flood,
	m *metrics.Metrics,
	promRegistry *prometheus.Registry,
) *http.ServeMux {
	if mux == nil {
		mux = http.NewServeMux()
	}

	mux.Handle("POST /ers/api/emergencies",
		Adapt(
			DeclareEmergency{sys, es},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("GET /ers/api/emergencies",
		Adapt(
			GetActiveEmergencies{sys},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("GET /ers/api/emergencies/{emergencyId}",
		Adapt(
			GetEmergency{sys},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("POST /ers/api/emergencies/{emergencyId}/status",
		Adapt(
			UpdateEmergencyStatus{sys, es},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("GET /ers/api/resources",
		Adapt(
			GetAvailableResources{sys},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("GET /ers/api/types",
		Adapt(
			GetEmergencyTypes{sys, cfg.Core.CacheControlShort},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("POST /ers/api/simulate/{scenarioName}",
		Adapt(
			SimulateScenario{sys, es},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("POST /ers/api/predict/earthquake",
		Adapt(
			PredictEarthquake{
				sys, es, earthquake,
				cfg.Risk.EarthquakeDeclareThreshold, m,
			},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("POST /ers/api/predict/flood",
		Adapt(
			PredictFlood{
				sys, es, flood,
				cfg.Risk.FloodDeclareThreshold, m,
			},
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("GET /ers/api/overview",
		Adapt(
			NewGetRiskOverview(sys, earthquake, flood, cfg.Risk.OverviewCacheTTL),
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	mux.Handle("GET /ers/api/eventsource",
		Adapt(
			es.Server.Handler(EventSourceChannel),
			RecoverFromPanic(),
			LogRequest(),
			LimitRequestBytes(cfg.Core.MaxRequestBytes),
		),
	)

	if promRegistry != nil {
		mux.Handle("GET /metrics",
			promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		)
	}

	mux.HandleFunc("GET /",
		func(w http.ResponseWriter, req *http.Request) {
			herr.WriteOKResponse(w, "ERS")
		},
	)

	mux.HandleFunc("GET /ers/api/ping",
		func(w http.ResponseWriter, req *http.Request) {
			herr.WriteOKResponse(w, "ack")
		},
	)

	mux.HandleFunc("GET /ers/api/debug/buildinfo",
		func(w http.ResponseWriter, req *http.Request) {
			bi := buildInfo()
			herr.WriteOKResponse(w, bi.String())
		},
	)

	return mux
}

var buildInfo = sync.OnceValue[debug.BuildInfo](func() debug.BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if ok {
		return *bi
	}
	// The conditions for this to happen aren't really possible, but returning an
	// empty struct instead is a good alternative. These values are just used for
	// informational purposes in the server anyway.
	slog.Info("Build info was unavailable, so an empty placeholder will be used instead")
	return debug.BuildInfo{}
})

type Adapter func(http.Handler) http.Handler

// responseWriter is a wrapper around http.ResponseWriter that lets us
// capture details about the response.
type responseWriter struct {
	http.ResponseWriter
	http.Flusher
	code int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.code = code
	rw.ResponseWriter.WriteHeader(code)
}

func LimitRequestBytes(maxRequestBytes int64) Adapter {
	return func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, maxRequestBytes)
	}
}

func LogRequest() Adapter {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			writ := &responseWriter{w, w.(http.Flusher), http.StatusOK}

			next.ServeHTTP(writ, r)

			durationMS := float64(time.Since(start).Microseconds()) / 1000.0

			slog.Debug(fmt.Sprintf("Served request for: %v %v ", r.Method, r.URL.Path),
				"duration", fmt.Sprintf("%.3fms", durationMS),
				"method", r.Method,
				"code", writ.code,
				"remote-addr", r.RemoteAddr,
			)
		})
	}
}

func RecoverFromPanic() Adapter {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					slog.Error("Recovered from panic", "err", err)
					debug.PrintStack()
					http.Error(w, "The server malfunctioned", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func Adapt(handler http.Handler, adapters ...Adapter) http.Handler {
	for i := range adapters {
		adapter := adapters[len(adapters)-1-i] // range in reverse
		handler = adapter(handler)
	}
	return handler
}
