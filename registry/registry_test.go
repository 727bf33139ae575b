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

package registry_test

import (
	"testing"
	"time"

	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByID(t *testing.T) {
	t.Parallel()
	r := registry.New()
	r.Add(&ersjson.Emergency{ID: "AAAA1111", Status: ersjson.StatusActive})
	r.Add(&ersjson.Emergency{ID: "BBBB2222", Status: ersjson.StatusActive})

	require.NotNil(t, r.ByID("BBBB2222"))
	assert.Equal(t, "BBBB2222", r.ByID("BBBB2222").ID)
	assert.Nil(t, r.ByID("missing"))
}

func TestActiveFiltersResolved(t *testing.T) {
	t.Parallel()
	r := registry.New()
	r.Add(&ersjson.Emergency{ID: "AAAA1111", Status: ersjson.StatusActive})
	r.Add(&ersjson.Emergency{ID: "BBBB2222", Status: ersjson.StatusResolved})
	r.Add(&ersjson.Emergency{ID: "CCCC3333", Status: ersjson.StatusActive})

	active := r.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "AAAA1111", active[0].ID)
	assert.Equal(t, "CCCC3333", active[1].ID)

	assert.Len(t, r.All(), 3)
}

func TestSetStatus(t *testing.T) {
	t.Parallel()
	r := registry.New()
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.SetClock(func() time.Time { return frozen })
	r.Add(&ersjson.Emergency{ID: "AAAA1111", Status: ersjson.StatusActive})

	e := r.SetStatus("AAAA1111", ersjson.StatusResolved, "fire contained")
	require.NotNil(t, e)
	assert.Equal(t, ersjson.StatusResolved, e.Status)
	assert.Equal(t, frozen, e.LastUpdatedAt)
	require.Len(t, e.Updates, 1)
	assert.Equal(t, "fire contained", e.Updates[0].Notes)
	assert.Equal(t, frozen, e.Updates[0].Timestamp)

	// No notes, no update entry.
	e = r.SetStatus("AAAA1111", ersjson.StatusClosed, "")
	require.NotNil(t, e)
	assert.Len(t, e.Updates, 1)

	assert.Nil(t, r.SetStatus("missing", ersjson.StatusResolved, ""))
}

func TestSetStatusKeepsUnknownStatusValues(t *testing.T) {
	t.Parallel()
	r := registry.New()
	r.Add(&ersjson.Emergency{ID: "AAAA1111", Status: ersjson.StatusActive})

	e := r.SetStatus("AAAA1111", "monitoring", "still watching")
	require.NotNil(t, e)
	assert.Equal(t, ersjson.EmergencyStatus("monitoring"), e.Status)
	assert.False(t, e.Status.Terminal())
}
