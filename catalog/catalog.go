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

// Package catalog holds the static response protocols: for each emergency
// type, which team categories respond, how fast, and what the immediate
// safety measures are. The catalog is read-only after construction.
package catalog

import (
	ersjson "github.com/reliefops/ers-go/json"
)

// Priority is a protocol's response priority.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
)

// Protocol is the static response policy for one emergency type.
type Protocol struct {
	EmergencyType      string
	Priority           Priority
	RequiredCategories []ersjson.Category
	ResponseMinutes    int
	EvacuationRadiusKm float64
	SafetyMeasures     []string
}

// Catalog maps emergency types to protocols.
type Catalog struct {
	protocols map[string]Protocol
}

// Default returns the protocol used for emergency types the catalog doesn't
// recognize: medium priority, no required teams, a 30 minute response target.
func Default() Protocol {
	return Protocol{
		Priority:           PriorityMedium,
		ResponseMinutes:    30,
		EvacuationRadiusKm: 1,
	}
}

// New builds the standard catalog, covering earthquake, flood, fire, and
// medical emergencies.
func New() *Catalog {
	return &Catalog{
		protocols: map[string]Protocol{
			"earthquake": {
				EmergencyType: "earthquake",
				Priority:      PriorityCritical,
				RequiredCategories: []ersjson.Category{
					ersjson.CategoryRescue, ersjson.CategoryMedical, ersjson.CategoryFire,
				},
				ResponseMinutes:    15,
				EvacuationRadiusKm: 5,
				SafetyMeasures: []string{
					"Immediate evacuation of damaged buildings",
					"Search and rescue operations",
					"Medical triage setup",
					"Traffic control and road clearance",
					"Utility shutdown if necessary",
				},
			},
			"flood": {
				EmergencyType: "flood",
				Priority:      PriorityHigh,
				RequiredCategories: []ersjson.Category{
					ersjson.CategoryRescue, ersjson.CategoryMedical,
				},
				ResponseMinutes:    20,
				EvacuationRadiusKm: 3,
				SafetyMeasures: []string{
					"Evacuation of low-lying areas",
					"Water rescue operations",
					"Emergency shelter setup",
					"Medical aid stations",
					"Road closure and traffic diversion",
				},
			},
			"fire": {
				EmergencyType: "fire",
				Priority:      PriorityHigh,
				RequiredCategories: []ersjson.Category{
					ersjson.CategoryFire, ersjson.CategoryMedical, ersjson.CategoryPolice,
				},
				ResponseMinutes:    10,
				EvacuationRadiusKm: 2,
				SafetyMeasures: []string{
					"Fire suppression operations",
					"Evacuation of surrounding areas",
					"Medical treatment for smoke inhalation",
					"Traffic control",
					"Utility isolation",
				},
			},
			"medical": {
				EmergencyType: "medical",
				Priority:      PriorityCritical,
				RequiredCategories: []ersjson.Category{
					ersjson.CategoryMedical,
				},
				ResponseMinutes:    8,
				EvacuationRadiusKm: 0.5,
				SafetyMeasures: []string{
					"Immediate medical response",
					"Patient stabilization",
					"Hospital transport",
					"Scene safety assessment",
				},
			},
		},
	}
}

// Lookup returns the protocol for an emergency type. It never fails: unknown
// types get the default protocol.
func (c *Catalog) Lookup(emergencyType string) Protocol {
	if p, ok := c.protocols[emergencyType]; ok {
		return p
	}
	return Default()
}

// Types returns the known emergency types.
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.protocols))
	for t := range c.protocols {
		types = append(types, t)
	}
	return types
}
