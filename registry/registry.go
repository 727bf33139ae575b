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

// Package registry keeps every declared emergency for the life of the
// process. Records are appended and mutated in place, never deleted, so an
// emergency stays queryable by ID after it resolves.
//
// Like the fleet, the registry has no lock of its own; the allocation engine
// serializes access.
package registry

import (
	"time"

	ersjson "github.com/reliefops/ers-go/json"
)

// Registry is the append-only log of emergencies, in declaration order.
type Registry struct {
	emergencies ersjson.Emergencies
	now         func() time.Time
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{now: time.Now}
}

// SetClock overrides the registry's time source for tests.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

// Add appends an emergency to the registry.
func (r *Registry) Add(e *ersjson.Emergency) {
	r.emergencies = append(r.emergencies, e)
}

// ByID returns the emergency with the given ID, or nil if none exists.
func (r *Registry) ByID(id string) *ersjson.Emergency {
	for _, e := range r.emergencies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Active returns the emergencies whose status is still active, in
// declaration order.
func (r *Registry) Active() ersjson.Emergencies {
	active := ersjson.Emergencies{}
	for _, e := range r.emergencies {
		if e.Status == ersjson.StatusActive {
			active = append(active, e)
		}
	}
	return active
}

// All returns every emergency ever declared, in declaration order.
func (r *Registry) All() ersjson.Emergencies {
	return r.emergencies
}

// SetStatus updates an emergency's status and stamps LastUpdatedAt. When
// notes are given they are appended to the update log with the same stamp.
// The status is stored as given, even if it's not one the lifecycle knows;
// releasing teams on terminal statuses is the engine's job, not the
// registry's. Returns the updated emergency, or nil if the ID is unknown.
func (r *Registry) SetStatus(id string, status ersjson.EmergencyStatus, notes string) *ersjson.Emergency {
	e := r.ByID(id)
	if e == nil {
		return nil
	}
	now := r.now()
	e.Status = status
	e.LastUpdatedAt = now
	if notes != "" {
		e.Updates = append(e.Updates, ersjson.UpdateEntry{
			Timestamp: now,
			Notes:     notes,
		})
	}
	return e
}
