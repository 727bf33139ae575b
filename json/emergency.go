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

package json

import "time"

// EmergencyStatus is the lifecycle state of an Emergency. Only Active,
// Resolved, and Closed carry meaning for the allocation engine; callers may
// supply any other string and it is stored as-is.
type EmergencyStatus string

const (
	StatusActive   EmergencyStatus = "active"
	StatusResolved EmergencyStatus = "resolved"
	StatusClosed   EmergencyStatus = "closed"
)

// Terminal reports whether this status releases the emergency's assigned teams.
func (s EmergencyStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateEntry is one note appended to an emergency's update log.
type UpdateEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

// ResponsePlan is the derived bundle of evacuation, medical, shelter, and
// resource-quantity decisions for one emergency. Immutable once built.
type ResponsePlan struct {
	PriorityLevel           string         `json:"priority_level"`
	ImmediateActions        []string       `json:"immediate_actions"`
	EvacuationRequired      bool           `json:"evacuation_required"`
	EvacuationRadiusKm      float64        `json:"evacuation_radius_km"`
	MedicalFacilitiesNeeded bool           `json:"medical_facilities_needed"`
	ShelterCapacityNeeded   int            `json:"shelter_capacity_needed"`
	EstimatedDurationHours  int            `json:"estimated_duration_hours"`
	ResourceRequirements    map[string]int `json:"resource_requirements"`
}

type Emergencies []*Emergency

// Emergency is one declared incident. Created by the allocation engine,
// mutated only through the registry (status, update log); it lives for the
// process lifetime and is never deleted.
type Emergency struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	Location            string          `json:"location"`
	Coordinates         Coordinates     `json:"coordinates"`
	Severity            int             `json:"severity"`
	Description         string          `json:"description"`
	Status              EmergencyStatus `json:"status"`
	DeclaredAt          time.Time       `json:"declared_at"`
	LastUpdatedAt       time.Time       `json:"last_updated,omitzero"`
	EstimatedResolution time.Time       `json:"estimated_resolution"`
	AssignedTeams       []*Team         `json:"assigned_teams"`
	AffectedPopulation  int             `json:"affected_population"`
	ResponsePlan        ResponsePlan    `json:"response_plan"`
	Updates             []UpdateEntry   `json:"updates,omitempty"`
}

// DeclareResult is the response to a successful emergency declaration.
type DeclareResult struct {
	EmergencyID           string     `json:"emergency_id"`
	Status                string     `json:"status"`
	ResponseInitiated     bool       `json:"response_initiated"`
	AssignedTeams         int        `json:"assigned_teams"`
	EstimatedResponseTime string     `json:"estimated_response_time"`
	EmergencyDetails      *Emergency `json:"emergency_details"`
}

// UpdateResult is the response to a status update. Failure is a value here,
// not a transport error: an unknown emergency ID yields
// {success: false, error: "Emergency not found"}.
type UpdateResult struct {
	Success   bool       `json:"success"`
	Emergency *Emergency `json:"emergency,omitempty"`
	Error     string     `json:"error,omitempty"`
}
