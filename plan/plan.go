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

// Package plan derives a response plan from an emergency's type and
// severity. Everything here is a pure function of its inputs.
package plan

import (
	"github.com/reliefops/ers-go/catalog"
	ersjson "github.com/reliefops/ers-go/json"
)

// populationBySeverity maps each severity band to its expected affected
// population.
var populationBySeverity = map[int]int{
	1: 10, 2: 25, 3: 50, 4: 100, 5: 250,
	6: 500, 7: 1000, 8: 2500, 9: 5000, 10: 10000,
}

// EstimatedPopulation returns the affected population estimate for a
// severity. Severities outside the 1..10 table fall back to 100.
func EstimatedPopulation(severity int) int {
	if pop, ok := populationBySeverity[severity]; ok {
		return pop
	}
	return 100
}

// ResourceRequirements returns the per-resource quantities for an emergency.
// Every quantity scales linearly with severity. Unknown emergency types have
// no resource table and yield an empty map.
func ResourceRequirements(emergencyType string, severity int) map[string]int {
	switch emergencyType {
	case "earthquake":
		return map[string]int{
			"medical_supplies":   severity * 10,
			"rescue_equipment":   severity * 5,
			"emergency_shelters": severity * 2,
			"food_packages":      severity * 20,
			"water_liters":       severity * 100,
		}
	case "flood":
		return map[string]int{
			"boats":              severity * 2,
			"life_jackets":       severity * 15,
			"water_pumps":        severity * 3,
			"sandbags":           severity * 50,
			"emergency_shelters": severity * 3,
		}
	case "fire":
		return map[string]int{
			"fire_extinguishers":  severity * 8,
			"breathing_apparatus": severity * 4,
			"medical_supplies":    severity * 6,
			"evacuation_vehicles": severity * 2,
		}
	case "medical":
		return map[string]int{
			"ambulances":        severity * 1,
			"medical_supplies":  severity * 15,
			"hospital_beds":     severity * 3,
			"medical_personnel": severity * 2,
		}
	default:
		return map[string]int{}
	}
}

// Build assembles the response plan for an emergency. Thresholds: evacuation
// at severity 6, medical facilities at 5, sheltering the full affected
// population at 7. Expected duration is two hours per severity point.
func Build(protocol catalog.Protocol, emergencyType string, severity int) ersjson.ResponsePlan {
	shelter := 0
	if severity >= 7 {
		shelter = EstimatedPopulation(severity)
	}
	return ersjson.ResponsePlan{
		PriorityLevel:           string(protocol.Priority),
		ImmediateActions:        protocol.SafetyMeasures,
		EvacuationRequired:      severity >= 6,
		EvacuationRadiusKm:      protocol.EvacuationRadiusKm,
		MedicalFacilitiesNeeded: severity >= 5,
		ShelterCapacityNeeded:   shelter,
		EstimatedDurationHours:  severity * 2,
		ResourceRequirements:    ResourceRequirements(emergencyType, severity),
	}
}
