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

// DeclareRequest is the body of POST /ers/api/emergencies.
type DeclareRequest struct {
	EmergencyType string              `json:"emergency_type"`
	Location      string              `json:"location"`
	Severity      int                 `json:"severity"`
	Description   string              `json:"description"`
	Coordinates   ersjson.Coordinates `json:"coordinates"`
}

type DeclareEmergency struct {
	sys *engine.System
	es  *EventSourcerer
}

func (action DeclareEmergency) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.declareEmergency(req)
	if errHTTP != nil {
		errHTTP.From("[declareEmergency]").WriteResponse(w)
		return
	}
	action.es.notifyEmergencyUpdate(resp.EmergencyID, ersjson.StatusActive)
	w.WriteHeader(http.StatusCreated)
	mustWriteJSON(w, req, resp)
}

func (action DeclareEmergency) declareEmergency(req *http.Request) (*ersjson.DeclareResult, *herr.HTTPError) {
	body, errHTTP := readBodyAs[DeclareRequest](req)
	if errHTTP != nil {
		return nil, errHTTP.From("[readBodyAs]")
	}
	if body.EmergencyType == "" {
		return nil, herr.BadRequest("An emergency_type is required", nil).SetExpectedError()
	}
	if body.Location == "" {
		return nil, herr.BadRequest("A location is required", nil).SetExpectedError()
	}

	result := action.sys.Declare(
		body.EmergencyType, body.Location, body.Severity, body.Description, body.Coordinates,
	)
	return result, nil
}

type GetActiveEmergencies struct {
	sys *engine.System
}

func (action GetActiveEmergencies) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	mustWriteJSON(w, req, action.sys.Active())
}

type GetEmergency struct {
	sys *engine.System
}

func (action GetEmergency) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.getEmergency(req)
	if errHTTP != nil {
		errHTTP.From("[getEmergency]").WriteResponse(w)
		return
	}
	mustWriteJSON(w, req, resp)
}

func (action GetEmergency) getEmergency(req *http.Request) (*ersjson.Emergency, *herr.HTTPError) {
	id := req.PathValue("emergencyId")
	emergency := action.sys.ByID(id)
	if emergency == nil {
		return nil, herr.NotFound("Emergency not found", nil).SetExpectedError()
	}
	return emergency, nil
}

// UpdateStatusRequest is the body of POST /ers/api/emergencies/{emergencyId}/status.
type UpdateStatusRequest struct {
	Status ersjson.EmergencyStatus `json:"status"`
	Notes  string                  `json:"notes"`
}

type UpdateEmergencyStatus struct {
	sys *engine.System
	es  *EventSourcerer
}

func (action UpdateEmergencyStatus) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.updateStatus(req)
	if errHTTP != nil {
		errHTTP.From("[updateStatus]").WriteResponse(w)
		return
	}
	if resp.Success {
		action.es.notifyEmergencyUpdate(resp.Emergency.ID, resp.Emergency.Status)
	}
	mustWriteJSON(w, req, resp)
}

func (action UpdateEmergencyStatus) updateStatus(req *http.Request) (ersjson.UpdateResult, *herr.HTTPError) {
	var resp ersjson.UpdateResult

	body, errHTTP := readBodyAs[UpdateStatusRequest](req)
	if errHTTP != nil {
		return resp, errHTTP.From("[readBodyAs]")
	}
	if body.Status == "" {
		return resp, herr.BadRequest("A status is required", nil).SetExpectedError()
	}

	// An unknown emergency ID is reported in the result body, not as an
	// HTTP error.
	resp = action.sys.UpdateStatus(req.PathValue("emergencyId"), body.Status, body.Notes)
	return resp, nil
}
