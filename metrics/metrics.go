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

// Package metrics exposes Prometheus counters and gauges for the allocation
// engine and the risk predictors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's Prometheus collectors. All recording methods
// are safe on a nil receiver, so callers that run without metrics don't need
// to guard.
type Metrics struct {
	emergenciesDeclared *prometheus.CounterVec
	teamsReserved       prometheus.Counter
	teamsReleased       prometheus.Counter
	activeEmergencies   prometheus.Gauge
	predictions         *prometheus.CounterVec
	autoDeclarations    prometheus.Counter
}

// New registers the service collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		emergenciesDeclared: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ers_emergencies_declared_total",
			Help: "Emergencies declared, by emergency type.",
		}, []string{"emergency_type"}),
		teamsReserved: factory.NewCounter(prometheus.CounterOpts{
			Name: "ers_teams_reserved_total",
			Help: "Response teams reserved for emergencies.",
		}),
		teamsReleased: factory.NewCounter(prometheus.CounterOpts{
			Name: "ers_teams_released_total",
			Help: "Response teams released back to the pool.",
		}),
		activeEmergencies: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ers_active_emergencies",
			Help: "Emergencies currently in the active state.",
		}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ers_predictions_total",
			Help: "Risk predictions served, by hazard and resulting risk level.",
		}, []string{"hazard", "risk_level"}),
		autoDeclarations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ers_auto_declarations_total",
			Help: "Emergencies auto-declared by high-risk predictions.",
		}),
	}
}

func (m *Metrics) EmergencyDeclared(emergencyType string) {
	if m == nil {
		return
	}
	m.emergenciesDeclared.WithLabelValues(emergencyType).Inc()
	m.activeEmergencies.Inc()
}

func (m *Metrics) EmergencyDeactivated() {
	if m == nil {
		return
	}
	m.activeEmergencies.Dec()
}

func (m *Metrics) EmergencyReactivated() {
	if m == nil {
		return
	}
	m.activeEmergencies.Inc()
}

func (m *Metrics) TeamsReserved(n int) {
	if m == nil {
		return
	}
	m.teamsReserved.Add(float64(n))
}

func (m *Metrics) TeamsReleased(n int) {
	if m == nil {
		return
	}
	m.teamsReleased.Add(float64(n))
}

func (m *Metrics) PredictionServed(hazard, riskLevel string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(hazard, riskLevel).Inc()
}

func (m *Metrics) AutoDeclared() {
	if m == nil {
		return
	}
	m.autoDeclarations.Inc()
}
