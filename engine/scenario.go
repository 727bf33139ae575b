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

package engine

import (
	ersjson "github.com/reliefops/ers-go/json"
)

// Scenario is a canned emergency used for drills and demos. Running one goes
// through the same declaration path as a real emergency.
type Scenario struct {
	EmergencyType string
	Location      string
	Severity      int
	Description   string
	Coordinates   ersjson.Coordinates
}

var scenarios = map[string]Scenario{
	"major_earthquake": {
		EmergencyType: "earthquake",
		Location:      "Karachi, Pakistan",
		Severity:      8,
		Description:   "Major earthquake detected, magnitude 7.2, multiple buildings damaged",
		Coordinates:   ersjson.Coordinates{Lat: 24.8607, Lng: 67.0011},
	},
	"flash_flood": {
		EmergencyType: "flood",
		Location:      "Lahore, Pakistan",
		Severity:      7,
		Description:   "Flash flood due to heavy rainfall, water level rising rapidly",
		Coordinates:   ersjson.Coordinates{Lat: 31.5204, Lng: 74.3587},
	},
	"building_fire": {
		EmergencyType: "fire",
		Location:      "Islamabad, Pakistan",
		Severity:      6,
		Description:   "Large building fire, multiple floors affected, people trapped",
		Coordinates:   ersjson.Coordinates{Lat: 33.6844, Lng: 73.0479},
	},
	"medical_emergency": {
		EmergencyType: "medical",
		Location:      "Karachi, Pakistan",
		Severity:      5,
		Description:   "Mass casualty incident, multiple injuries reported",
		Coordinates:   ersjson.Coordinates{Lat: 24.8607, Lng: 67.0011},
	},
}

// ScenarioNames returns the names of the canned scenarios.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	return names
}
