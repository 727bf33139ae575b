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

// Package fleet owns the pool of response teams. All reservation and release
// of teams goes through a Fleet, which is the sole authority allowed to flip
// a team's status.
//
// A Fleet carries no lock of its own. The allocation engine serializes all
// access, so that a select-then-reserve can never interleave with a
// concurrent reservation or release.
package fleet

import (
	"strings"
	"time"

	ersjson "github.com/reliefops/ers-go/json"
)

// Fleet is the mutable pool of response teams, grouped by category.
// Registration order within a category is preserved, which keeps the
// local/non-local tie-break reproducible.
type Fleet struct {
	teams map[ersjson.Category][]*ersjson.Team
	now   func() time.Time
}

// New returns an empty Fleet.
func New() *Fleet {
	return &Fleet{
		teams: make(map[ersjson.Category][]*ersjson.Team),
		now:   time.Now,
	}
}

// Default returns the standard ten-team fleet covering Karachi, Lahore,
// and Islamabad.
func Default() *Fleet {
	f := New()
	f.Register(
		ersjson.Team{ID: "MED001", Category: ersjson.CategoryMedical, Kind: "Ambulance", HomeLocation: "Karachi", Capacity: 2, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "MED002", Category: ersjson.CategoryMedical, Kind: "Medical Team", HomeLocation: "Lahore", Capacity: 5, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "MED003", Category: ersjson.CategoryMedical, Kind: "Emergency Doctor", HomeLocation: "Islamabad", Capacity: 1, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "FIRE001", Category: ersjson.CategoryFire, Kind: "Fire Truck", HomeLocation: "Karachi", Capacity: 8, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "FIRE002", Category: ersjson.CategoryFire, Kind: "Fire Team", HomeLocation: "Lahore", Capacity: 6, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "RES001", Category: ersjson.CategoryRescue, Kind: "Rescue Team", HomeLocation: "Karachi", Capacity: 10, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "RES002", Category: ersjson.CategoryRescue, Kind: "Search & Rescue", HomeLocation: "Islamabad", Capacity: 8, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "RES003", Category: ersjson.CategoryRescue, Kind: "Heavy Equipment", HomeLocation: "Lahore", Capacity: 3, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "POL001", Category: ersjson.CategoryPolice, Kind: "Police Unit", HomeLocation: "Karachi", Capacity: 4, Status: ersjson.TeamAvailable},
		ersjson.Team{ID: "POL002", Category: ersjson.CategoryPolice, Kind: "Traffic Control", HomeLocation: "Lahore", Capacity: 6, Status: ersjson.TeamAvailable},
	)
	return f
}

// Register adds teams to the pool, in the given order.
func (f *Fleet) Register(teams ...ersjson.Team) {
	for _, t := range teams {
		team := t
		if team.Status == "" {
			team.Status = ersjson.TeamAvailable
		}
		f.teams[team.Category] = append(f.teams[team.Category], &team)
	}
}

// SetClock overrides the fleet's time source. Tests use this to get
// deterministic DeployedAt stamps.
func (f *Fleet) SetClock(now func() time.Time) {
	f.now = now
}

// TeamsNeeded is the severity-to-team-count formula: one team plus one more
// for every three points of severity.
func TeamsNeeded(severity int) int {
	return severity/3 + 1
}

// isLocal reports whether a team is local to the incident: a case-folded
// substring match of the incident location within the team's home location.
func isLocal(team *ersjson.Team, location string) bool {
	return strings.Contains(strings.ToLower(team.HomeLocation), strings.ToLower(location))
}

// SelectAndReserve picks teams for an incident and marks them deployed.
//
// Categories are processed sequentially in the given order. Within each
// category, available teams local to the incident outrank non-local ones, and
// registration order breaks ties within each partition. The number reserved
// per category is TeamsNeeded(severity), clamped to what's available.
//
// A shortfall is not an error: allocation is best effort, and the caller gets
// whatever could be reserved. The returned pointers are the fleet's own
// records, so a later Release through any holder of the same pointers is
// visible everywhere.
func (f *Fleet) SelectAndReserve(
	categories []ersjson.Category, location string, severity int,
) []*ersjson.Team {
	var reserved []*ersjson.Team
	for _, category := range categories {
		var local, nonLocal []*ersjson.Team
		for _, team := range f.teams[category] {
			if team.Status != ersjson.TeamAvailable {
				continue
			}
			if isLocal(team, location) {
				local = append(local, team)
			} else {
				nonLocal = append(nonLocal, team)
			}
		}
		candidates := append(local, nonLocal...)

		needed := min(TeamsNeeded(severity), len(candidates))
		for _, team := range candidates[:needed] {
			team.Status = ersjson.TeamDeployed
			team.DeployedAt = f.now()
			reserved = append(reserved, team)
		}
	}
	return reserved
}

// Release returns teams to the available pool. Releasing a team that is
// already available is a no-op, so a double release is harmless.
func (f *Fleet) Release(teams []*ersjson.Team) {
	for _, team := range teams {
		if team.Status == ersjson.TeamAvailable {
			continue
		}
		team.Status = ersjson.TeamAvailable
		team.DeployedAt = time.Time{}
	}
}

// SnapshotAvailable returns the currently available teams grouped by
// category. The returned teams are copies; mutating them has no effect on
// the pool.
func (f *Fleet) SnapshotAvailable() ersjson.TeamsByCategory {
	avail := make(ersjson.TeamsByCategory)
	for category, teams := range f.teams {
		for _, team := range teams {
			if team.Status == ersjson.TeamAvailable {
				avail[category] = append(avail[category], *team)
			}
		}
	}
	return avail
}

// Size returns the total number of registered teams.
func (f *Fleet) Size() int {
	n := 0
	for _, teams := range f.teams {
		n += len(teams)
	}
	return n
}
