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

package catalog_test

import (
	"github.com/reliefops/ers-go/catalog"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestLookupKnownTypes(t *testing.T) {
	t.Parallel()
	c := catalog.New()

	quake := c.Lookup("earthquake")
	assert.Equal(t, catalog.PriorityCritical, quake.Priority)
	assert.Equal(t,
		[]ersjson.Category{ersjson.CategoryRescue, ersjson.CategoryMedical, ersjson.CategoryFire},
		quake.RequiredCategories)
	assert.Equal(t, 15, quake.ResponseMinutes)
	assert.InDelta(t, 5.0, quake.EvacuationRadiusKm, 0.0001)
	assert.Len(t, quake.SafetyMeasures, 5)

	medical := c.Lookup("medical")
	assert.Equal(t, catalog.PriorityCritical, medical.Priority)
	assert.Equal(t, []ersjson.Category{ersjson.CategoryMedical}, medical.RequiredCategories)
	assert.Equal(t, 8, medical.ResponseMinutes)
	assert.InDelta(t, 0.5, medical.EvacuationRadiusKm, 0.0001)
}

func TestLookupUnknownTypeFallsBack(t *testing.T) {
	t.Parallel()
	c := catalog.New()

	p := c.Lookup("zombie_outbreak")
	assert.Equal(t, catalog.PriorityMedium, p.Priority)
	assert.Empty(t, p.RequiredCategories)
	assert.Equal(t, 30, p.ResponseMinutes)
	assert.InDelta(t, 1.0, p.EvacuationRadiusKm, 0.0001)
}

func TestTypes(t *testing.T) {
	t.Parallel()
	c := catalog.New()
	assert.ElementsMatch(t, []string{"earthquake", "flood", "fire", "medical"}, c.Types())
}
