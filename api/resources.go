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

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/reliefops/ers-go/engine"
)

type GetAvailableResources struct {
	sys *engine.System
}

func (action GetAvailableResources) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	mustWriteJSON(w, req, action.sys.AvailableResources())
}

type GetEmergencyTypes struct {
	sys               *engine.System
	cacheControlShort time.Duration
}

func (action GetEmergencyTypes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// The type list only changes on recompile.
	if action.cacheControlShort > 0 {
		w.Header().Set("Cache-Control",
			fmt.Sprintf("max-age=%v", int(action.cacheControlShort.Seconds())))
	}
	mustWriteJSON(w, req, action.sys.EmergencyTypes())
}
