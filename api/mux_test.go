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

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reliefops/ers-go/api"
	"github.com/reliefops/ers-go/conf"
	"github.com/reliefops/ers-go/engine"
	"github.com/reliefops/ers-go/fleet"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/metrics"
	"github.com/reliefops/ers-go/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exampleAction struct {
	output *bytes.Buffer
}

func (e exampleAction) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	fmt.Fprintln(e.output, "      in the action")
}

func firstAdapter(output *bytes.Buffer) api.Adapter {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(output, "firstAdapter before")
			next.ServeHTTP(w, r)
			fmt.Fprintln(output, "firstAdapter after")
		})
	}
}

func secondAdapter(output *bytes.Buffer) api.Adapter {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(output, "  secondAdapter before")
			next.ServeHTTP(w, r)
			fmt.Fprintln(output, "  secondAdapter after")
		})
	}
}

// TestAdapt demonstrates how the Adapter pattern works.
func TestAdapt(t *testing.T) {
	t.Parallel()
	b := bytes.Buffer{}
	api.Adapt(
		exampleAction{output: &b},
		firstAdapter(&b),
		secondAdapter(&b),
	).ServeHTTP(nil, nil)
	require.Equal(t, ""+
		"firstAdapter before\n"+
		"  secondAdapter before\n"+
		"      in the action\n"+
		"  secondAdapter after\n"+
		"firstAdapter after\n",
		b.String())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sys := engine.New(fleet.Default(), m)
	mux := api.AddToMux(
		nil,
		api.NewEventSourcerer(),
		conf.DefaultERS(),
		sys,
		predict.NewEarthquake(m),
		predict.NewFlood(m),
		m,
		reg,
	)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(b, &out), "body was: %s", b)
	return out
}

func TestPing(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ers/api/ping")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ack\n", string(body))
}

func TestDeclareAndFetchEmergency(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/ers/api/emergencies", api.DeclareRequest{
		EmergencyType: "earthquake",
		Location:      "Karachi",
		Severity:      8,
		Description:   "Major earthquake",
		Coordinates:   ersjson.Coordinates{Lat: 24.8607, Lng: 67.0011},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	declared := decodeBody[ersjson.DeclareResult](t, resp)

	assert.Equal(t, "declared", declared.Status)
	assert.True(t, declared.ResponseInitiated)
	assert.Equal(t, 8, declared.AssignedTeams)
	assert.Equal(t, "15 minutes", declared.EstimatedResponseTime)
	require.Len(t, declared.EmergencyID, 8)

	getResp, err := http.Get(server.URL + "/ers/api/emergencies/" + declared.EmergencyID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	fetched := decodeBody[ersjson.Emergency](t, getResp)
	assert.Equal(t, declared.EmergencyID, fetched.ID)
	assert.Equal(t, 2500, fetched.AffectedPopulation)
	assert.Equal(t, ersjson.StatusActive, fetched.Status)

	listResp, err := http.Get(server.URL + "/ers/api/emergencies")
	require.NoError(t, err)
	active := decodeBody[ersjson.Emergencies](t, listResp)
	require.Len(t, active, 1)
	assert.Equal(t, declared.EmergencyID, active[0].ID)
}

func TestDeclareRejectsMissingFields(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/ers/api/emergencies", api.DeclareRequest{
		Location: "Karachi",
	})
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestGetEmergencyNotFound(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ers/api/emergencies/NOPE9999")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	declared := decodeBody[ersjson.DeclareResult](t,
		postJSON(t, server.URL+"/ers/api/emergencies", api.DeclareRequest{
			EmergencyType: "medical",
			Location:      "Karachi",
			Severity:      5,
			Description:   "Mass casualty",
		}))

	resp := postJSON(t,
		server.URL+"/ers/api/emergencies/"+declared.EmergencyID+"/status",
		api.UpdateStatusRequest{Status: ersjson.StatusResolved, Notes: "patients stable"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[ersjson.UpdateResult](t, resp)
	require.True(t, updated.Success)
	assert.Equal(t, ersjson.StatusResolved, updated.Emergency.Status)
	require.Len(t, updated.Emergency.Updates, 1)

	// Unknown IDs fail in the body, not at the HTTP layer.
	missing := postJSON(t,
		server.URL+"/ers/api/emergencies/MISSING1/status",
		api.UpdateStatusRequest{Status: ersjson.StatusClosed})
	require.Equal(t, http.StatusOK, missing.StatusCode)
	failed := decodeBody[ersjson.UpdateResult](t, missing)
	assert.False(t, failed.Success)
	assert.Equal(t, "Emergency not found", failed.Error)
}

func TestGetAvailableResources(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ers/api/resources")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resources := decodeBody[ersjson.TeamsByCategory](t, resp)
	assert.Len(t, resources[ersjson.CategoryMedical], 3)
	assert.Len(t, resources[ersjson.CategoryRescue], 3)
}

func TestSimulateScenario(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/ers/api/simulate/building_fire", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	declared := decodeBody[ersjson.DeclareResult](t, resp)
	assert.Equal(t, "fire", declared.EmergencyDetails.Type)
	assert.Equal(t, 6, declared.EmergencyDetails.Severity)

	bad := postJSON(t, server.URL+"/ers/api/simulate/zombie_outbreak", nil)
	defer func() {
		require.NoError(t, bad.Body.Close())
	}()
	assert.Equal(t, http.StatusNotFound, bad.StatusCode)
}

func TestPredictEarthquakeLowRisk(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/ers/api/predict/earthquake", predict.EarthquakeInput{
		Location:        "Karachi",
		SeismicActivity: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prediction := decodeBody[ersjson.Prediction](t, resp)
	assert.Equal(t, ersjson.RiskLow, prediction.RiskLevel)
	assert.Nil(t, prediction.EmergencyResponse)
}

func TestPredictEarthquakeAutoDeclares(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/ers/api/predict/earthquake", predict.EarthquakeInput{
		Location:            "Muzaffarabad",
		SeismicActivity:     9.5,
		GeologicalStress:    9,
		HistoricalFrequency: 8,
		TectonicMovement:    8.5,
		GroundWaterChange:   7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prediction := decodeBody[ersjson.Prediction](t, resp)

	assert.InDelta(t, 86.75, prediction.Probability, 0.0001)
	assert.Equal(t, ersjson.RiskCritical, prediction.RiskLevel)
	require.NotNil(t, prediction.EmergencyResponse)
	assert.Equal(t, 8, prediction.EmergencyResponse.EmergencyDetails.Severity)
	assert.Equal(t, "Muzaffarabad", prediction.EmergencyResponse.EmergencyDetails.Location)
	assert.Contains(t, prediction.EmergencyResponse.EmergencyDetails.Description, "High earthquake risk detected")
}

func TestPredictFloodAutoDeclares(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/ers/api/predict/flood", predict.FloodInput{
		Location:          "Sukkur",
		RainfallIntensity: 10,
		RiverWaterLevel:   9.5,
		SoilSaturation:    9,
		DrainageCapacity:  1,
		ElevationRisk:     8,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prediction := decodeBody[ersjson.Prediction](t, resp)

	assert.InDelta(t, 94.25, prediction.Probability, 0.0001)
	require.NotNil(t, prediction.EmergencyResponse)
	assert.Equal(t, "flood", prediction.EmergencyResponse.EmergencyDetails.Type)
	assert.Equal(t, 9, prediction.EmergencyResponse.EmergencyDetails.Severity)
}

func TestRiskOverview(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/ers/api/overview?location=Karachi")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decodeBody[ersjson.RiskOverview](t, resp)

	assert.Equal(t, "Karachi", overview.Location)
	// Baseline factors score 42.65 for earthquake and 53.4 for flood.
	assert.InDelta(t, 42.65, overview.Earthquake.Probability, 0.0001)
	assert.InDelta(t, 53.4, overview.Flood.Probability, 0.0001)
	assert.InDelta(t, 53.4, overview.OverallRisk, 0.0001)
	assert.Equal(t, "Caution", overview.OverallStatus)
	assert.Equal(t, "yellow", overview.StatusColor)
	assert.Zero(t, overview.ActiveEmergencies)

	missing, err := http.Get(server.URL + "/ers/api/overview")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, missing.Body.Close())
	}()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	postJSON(t, server.URL+"/ers/api/emergencies", api.DeclareRequest{
		EmergencyType: "fire",
		Location:      "Lahore",
		Severity:      4,
	})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ers_emergencies_declared_total")
	assert.Contains(t, string(body), "ers_active_emergencies 1")
}
