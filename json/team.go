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

// Category is a response team category.
type Category string

const (
	CategoryMedical Category = "medical"
	CategoryFire    Category = "fire"
	CategoryRescue  Category = "rescue"
	CategoryPolice  Category = "police"
)

// Categories lists all team categories, in a stable order.
func Categories() []Category {
	return []Category{CategoryMedical, CategoryFire, CategoryRescue, CategoryPolice}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryMedical, CategoryFire, CategoryRescue, CategoryPolice:
		return true
	default:
		return false
	}
}

// TeamStatus is the deployment state of a response team.
type TeamStatus string

const (
	TeamAvailable TeamStatus = "available"
	TeamDeployed  TeamStatus = "deployed"
)

// Team is one response team record. The fleet owns the canonical records;
// an Emergency's AssignedTeams holds pointers to those same records, so a
// status flip by the fleet is immediately visible through every reference.
type Team struct {
	ID           string     `json:"id"`
	Category     Category   `json:"category"`
	Kind         string     `json:"type"`
	HomeLocation string     `json:"location"`
	Capacity     int        `json:"capacity"`
	Status       TeamStatus `json:"status"`
	DeployedAt   time.Time  `json:"assigned_at,omitzero"`
}

// TeamsByCategory is the "resources" report: available teams grouped by category.
type TeamsByCategory map[Category][]Team
