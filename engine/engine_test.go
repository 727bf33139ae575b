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

package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/reliefops/ers-go/engine"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSystem(t *testing.T) (*engine.System, time.Time) {
	t.Helper()
	s := engine.NewDefault()
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return frozen })
	seq := 0
	s.SetIDGenerator(func() string {
		seq++
		return fmt.Sprintf("TEST%04d", seq)
	})
	return s, frozen
}

func TestDeclareEarthquake(t *testing.T) {
	t.Parallel()
	s, frozen := newTestSystem(t)

	result := s.Declare("earthquake", "Karachi", 8,
		"Major earthquake, buildings damaged", ersjson.Coordinates{Lat: 24.8607, Lng: 67.0011})

	assert.Equal(t, "TEST0001", result.EmergencyID)
	assert.Equal(t, "declared", result.Status)
	assert.True(t, result.ResponseInitiated)
	assert.Equal(t, "15 minutes", result.EstimatedResponseTime)

	// Severity 8 wants three teams per category; fire only has two.
	assert.Equal(t, 8, result.AssignedTeams)

	e := result.EmergencyDetails
	require.NotNil(t, e)
	assert.Equal(t, ersjson.StatusActive, e.Status)
	assert.Equal(t, frozen, e.DeclaredAt)
	assert.Equal(t, frozen.Add(95*time.Minute), e.EstimatedResolution)
	assert.Equal(t, 2500, e.AffectedPopulation)
	assert.Equal(t, "critical", e.ResponsePlan.PriorityLevel)
	assert.True(t, e.ResponsePlan.EvacuationRequired)
	assert.Equal(t, 2500, e.ResponsePlan.ShelterCapacityNeeded)
	assert.Equal(t, 80, e.ResponsePlan.ResourceRequirements["medical_supplies"])

	// Karachi teams lead each category.
	assert.Equal(t, "RES001", e.AssignedTeams[0].ID)
	assert.Equal(t, "MED001", e.AssignedTeams[3].ID)
	assert.Equal(t, "FIRE001", e.AssignedTeams[6].ID)
}

func TestDeclareUnknownTypeUsesDefaultProtocol(t *testing.T) {
	t.Parallel()
	s, frozen := newTestSystem(t)

	result := s.Declare("landslide", "Quetta", 4, "Hillside collapse", ersjson.Coordinates{})

	assert.Equal(t, "30 minutes", result.EstimatedResponseTime)
	assert.Equal(t, 0, result.AssignedTeams)
	assert.NotNil(t, result.EmergencyDetails.AssignedTeams)
	assert.Empty(t, result.EmergencyDetails.AssignedTeams)
	assert.Equal(t, frozen.Add(70*time.Minute), result.EmergencyDetails.EstimatedResolution)
	assert.Empty(t, result.EmergencyDetails.ResponsePlan.ResourceRequirements)
}

func TestDeclareReservationIsExclusive(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)

	first := s.Declare("medical", "Karachi", 10, "Mass casualty", ersjson.Coordinates{})
	require.Equal(t, 3, first.AssignedTeams)

	// All medical teams are deployed now.
	second := s.Declare("medical", "Lahore", 10, "Another incident", ersjson.Coordinates{})
	assert.Equal(t, 0, second.AssignedTeams)
	assert.True(t, second.ResponseInitiated)
}

func TestUpdateStatusReleasesTeamsOnce(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)

	// Severity 6 wants three teams per category: all two fire, all three
	// medical, all two police.
	declared := s.Declare("fire", "Islamabad", 6, "Building fire", ersjson.Coordinates{})
	require.Equal(t, 7, declared.AssignedTeams)
	require.Empty(t, s.AvailableResources()[ersjson.CategoryFire])

	result := s.UpdateStatus(declared.EmergencyID, ersjson.StatusResolved, "fire out")
	require.True(t, result.Success)
	assert.Equal(t, ersjson.StatusResolved, result.Emergency.Status)
	require.Len(t, result.Emergency.Updates, 1)
	assert.Equal(t, "fire out", result.Emergency.Updates[0].Notes)

	// Every assigned team is back in the pool.
	avail := s.AvailableResources()
	assert.Len(t, avail[ersjson.CategoryFire], 2)
	assert.Len(t, avail[ersjson.CategoryMedical], 3)
	assert.Len(t, avail[ersjson.CategoryPolice], 2)

	// Closing after resolving must not disturb teams reserved in between:
	// the second fire holds the same team records the first one released.
	other := s.Declare("fire", "Karachi", 6, "Second fire", ersjson.Coordinates{})
	require.Equal(t, 7, other.AssignedTeams)

	again := s.UpdateStatus(declared.EmergencyID, ersjson.StatusClosed, "")
	require.True(t, again.Success)
	avail = s.AvailableResources()
	assert.Empty(t, avail[ersjson.CategoryFire])
	assert.Empty(t, avail[ersjson.CategoryMedical])
	assert.Empty(t, avail[ersjson.CategoryPolice])
	for _, team := range other.EmergencyDetails.AssignedTeams {
		assert.Equal(t, ersjson.TeamDeployed, team.Status)
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)

	result := s.UpdateStatus("missing", ersjson.StatusResolved, "")
	assert.False(t, result.Success)
	assert.Equal(t, "Emergency not found", result.Error)
	assert.Nil(t, result.Emergency)
}

func TestActiveAndByID(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)

	a := s.Declare("medical", "Karachi", 3, "Injury", ersjson.Coordinates{})
	b := s.Declare("fire", "Lahore", 4, "Small fire", ersjson.Coordinates{})

	assert.Equal(t, 2, s.ActiveCount())

	s.UpdateStatus(a.EmergencyID, ersjson.StatusResolved, "")
	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, b.EmergencyID, active[0].ID)

	// Resolved emergencies stay queryable.
	resolved := s.ByID(a.EmergencyID)
	require.NotNil(t, resolved)
	assert.Equal(t, ersjson.StatusResolved, resolved.Status)
	assert.Nil(t, s.ByID("missing"))
}

func TestSimulateScenarios(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)

	result, ok := s.Simulate("flash_flood")
	require.True(t, ok)
	e := result.EmergencyDetails
	assert.Equal(t, "flood", e.Type)
	assert.Equal(t, "Lahore, Pakistan", e.Location)
	assert.Equal(t, 7, e.Severity)
	assert.InDelta(t, 31.5204, e.Coordinates.Lat, 0.0001)
	assert.InDelta(t, 74.3587, e.Coordinates.Lng, 0.0001)
	assert.Equal(t, 350, e.ResponsePlan.ResourceRequirements["sandbags"])

	_, ok = s.Simulate("alien_invasion")
	assert.False(t, ok)

	assert.ElementsMatch(t,
		[]string{"major_earthquake", "flash_flood", "building_fire", "medical_emergency"},
		engine.ScenarioNames())
}

func TestSimulateLocalityPrefersScenarioCity(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)

	// "Lahore, Pakistan" does not substring-match any team's home city, so
	// partitioning falls back to registration order within each category.
	result, ok := s.Simulate("flash_flood")
	require.True(t, ok)
	ids := make([]string, 0, len(result.EmergencyDetails.AssignedTeams))
	for _, team := range result.EmergencyDetails.AssignedTeams {
		ids = append(ids, team.ID)
	}
	assert.Equal(t, []string{"RES001", "RES002", "RES003", "MED001", "MED002", "MED003"}, ids)
}

func TestEmergencyTypes(t *testing.T) {
	t.Parallel()
	s, _ := newTestSystem(t)
	assert.ElementsMatch(t, []string{"earthquake", "flood", "fire", "medical"}, s.EmergencyTypes())
}
