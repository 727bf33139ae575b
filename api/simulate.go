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
	"net/http"

	"github.com/reliefops/ers-go/engine"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/lib/herr"
)

type SimulateScenario struct {
	sys *engine.System
	es  *EventSourcerer
}

func (action SimulateScenario) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.simulate(req)
	if errHTTP != nil {
		errHTTP.From("[simulate]").WriteResponse(w)
		return
	}
	action.es.notifyEmergencyUpdate(resp.EmergencyID, ersjson.StatusActive)
	w.WriteHeader(http.StatusCreated)
	mustWriteJSON(w, req, resp)
}

func (action SimulateScenario) simulate(req *http.Request) (*ersjson.DeclareResult, *herr.HTTPError) {
	name := req.PathValue("scenarioName")
	result, ok := action.sys.Simulate(name)
	if !ok {
		return nil, herr.NotFound("Unknown scenario type", nil).SetExpectedError()
	}
	return result, nil
}
