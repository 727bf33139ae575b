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

// Package engine is the emergency allocation engine. It owns the protocol
// catalog, the team fleet, and the emergency registry, and serializes every
// operation on them behind one lock. A declaration is therefore atomic: team
// selection, reservation, and registration happen as a unit, and no two
// emergencies can reserve the same team.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reliefops/ers-go/catalog"
	"github.com/reliefops/ers-go/fleet"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/lib/rand"
	"github.com/reliefops/ers-go/metrics"
	"github.com/reliefops/ers-go/plan"
	"github.com/reliefops/ers-go/registry"
)

// System is the allocation engine. Construct with New; the zero value is not
// usable.
type System struct {
	mu       sync.RWMutex
	catalog  *catalog.Catalog
	fleet    *fleet.Fleet
	registry *registry.Registry
	metrics  *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// New builds a System around the given fleet. A nil metrics is fine; the
// engine then records nothing.
func New(f *fleet.Fleet, m *metrics.Metrics) *System {
	s := &System{
		catalog:  catalog.New(),
		fleet:    f,
		registry: registry.New(),
		metrics:  m,
		newID:    rand.EmergencyID,
	}
	s.SetClock(time.Now)
	return s
}

// NewDefault builds a System over the standard ten-team fleet with no
// metrics. It's what the CLI one-shot commands use.
func NewDefault() *System {
	return New(fleet.Default(), nil)
}

// SetClock overrides the time source of the engine and everything under it.
func (s *System) SetClock(now func() time.Time) {
	s.now = now
	s.fleet.SetClock(now)
	s.registry.SetClock(now)
}

// SetIDGenerator overrides emergency ID generation for tests.
func (s *System) SetIDGenerator(newID func() string) {
	s.newID = newID
}

// Declare opens a new emergency: reserve teams per the type's protocol,
// derive the response plan, and register the emergency. Allocation is best
// effort, so a declaration succeeds even when no teams are free.
func (s *System) Declare(
	emergencyType string, location string, severity int,
	description string, coordinates ersjson.Coordinates,
) *ersjson.DeclareResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	protocol := s.catalog.Lookup(emergencyType)

	teams := s.fleet.SelectAndReserve(protocol.RequiredCategories, location, severity)
	if teams == nil {
		teams = []*ersjson.Team{}
	}

	// Resolution estimate: the protocol's response target plus ten minutes
	// per severity point.
	resolutionMinutes := protocol.ResponseMinutes + severity*10

	emergency := &ersjson.Emergency{
		ID:                  s.newID(),
		Type:                emergencyType,
		Location:            location,
		Coordinates:         coordinates,
		Severity:            severity,
		Description:         description,
		Status:              ersjson.StatusActive,
		DeclaredAt:          now,
		EstimatedResolution: now.Add(time.Duration(resolutionMinutes) * time.Minute),
		AssignedTeams:       teams,
		AffectedPopulation:  plan.EstimatedPopulation(severity),
		ResponsePlan:        plan.Build(protocol, emergencyType, severity),
	}
	s.registry.Add(emergency)

	s.metrics.EmergencyDeclared(emergencyType)
	s.metrics.TeamsReserved(len(teams))

	slog.Info("Declared emergency",
		"id", emergency.ID,
		"type", emergencyType,
		"location", location,
		"severity", severity,
		"teams", len(teams),
	)

	return &ersjson.DeclareResult{
		EmergencyID:           emergency.ID,
		Status:                "declared",
		ResponseInitiated:     true,
		AssignedTeams:         len(teams),
		EstimatedResponseTime: fmt.Sprintf("%d minutes", protocol.ResponseMinutes),
		EmergencyDetails:      emergency,
	}
}

// Simulate declares the named canned scenario. The second return is false
// when the scenario name is unknown.
func (s *System) Simulate(scenarioName string) (*ersjson.DeclareResult, bool) {
	sc, ok := scenarios[scenarioName]
	if !ok {
		return nil, false
	}
	return s.Declare(
		sc.EmergencyType, sc.Location, sc.Severity, sc.Description, sc.Coordinates,
	), true
}

// UpdateStatus moves an emergency to a new status, optionally appending
// notes. The first transition into a terminal status (resolved or closed)
// releases the emergency's teams; later terminal updates must not touch
// them, since the fleet may have re-reserved those teams for another
// emergency in the meantime. An unknown ID is a domain failure, not an
// error: the result carries success=false.
func (s *System) UpdateStatus(
	id string, status ersjson.EmergencyStatus, notes string,
) ersjson.UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.registry.ByID(id)
	if existing == nil {
		return ersjson.UpdateResult{Success: false, Error: "Emergency not found"}
	}
	wasActive := existing.Status == ersjson.StatusActive
	wasTerminal := existing.Status.Terminal()

	emergency := s.registry.SetStatus(id, status, notes)

	if status.Terminal() && !wasTerminal {
		released := 0
		for _, team := range emergency.AssignedTeams {
			if team.Status == ersjson.TeamDeployed {
				released++
			}
		}
		s.fleet.Release(emergency.AssignedTeams)
		s.metrics.TeamsReleased(released)
	}

	if wasActive && status != ersjson.StatusActive {
		s.metrics.EmergencyDeactivated()
	} else if !wasActive && status == ersjson.StatusActive {
		s.metrics.EmergencyReactivated()
	}

	slog.Info("Updated emergency status", "id", id, "status", status)

	return ersjson.UpdateResult{Success: true, Emergency: emergency}
}

// Active returns the emergencies still in the active state.
func (s *System) Active() ersjson.Emergencies {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.registry.Active()
}

// ActiveCount returns the number of active emergencies.
func (s *System) ActiveCount() int {
	return len(s.Active())
}

// ByID returns the emergency with the given ID, or nil.
func (s *System) ByID(id string) *ersjson.Emergency {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.registry.ByID(id)
}

// AvailableResources returns the currently available teams by category.
func (s *System) AvailableResources() ersjson.TeamsByCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fleet.SnapshotAvailable()
}

// EmergencyTypes returns the emergency types the protocol catalog knows.
func (s *System) EmergencyTypes() []string {
	return s.catalog.Types()
}
