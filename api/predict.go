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
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/reliefops/ers-go/engine"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/lib/cache"
	"github.com/reliefops/ers-go/lib/conv"
	"github.com/reliefops/ers-go/lib/herr"
	"github.com/reliefops/ers-go/metrics"
	"github.com/reliefops/ers-go/predict"
	"golang.org/x/sync/errgroup"
)

type PredictEarthquake struct {
	sys       *engine.System
	es        *EventSourcerer
	predictor *predict.Earthquake
	threshold float64
	metrics   *metrics.Metrics
}

func (action PredictEarthquake) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.predictEarthquake(req)
	if errHTTP != nil {
		errHTTP.From("[predictEarthquake]").WriteResponse(w)
		return
	}
	mustWriteJSON(w, req, resp)
}

func (action PredictEarthquake) predictEarthquake(req *http.Request) (ersjson.Prediction, *herr.HTTPError) {
	var resp ersjson.Prediction

	input, errHTTP := readBodyAs[predict.EarthquakeInput](req)
	if errHTTP != nil {
		return resp, errHTTP.From("[readBodyAs]")
	}

	resp = action.predictor.Predict(input)
	maybeAutoDeclare(action.sys, action.es, action.metrics, &resp, "earthquake", action.threshold)
	return resp, nil
}

type PredictFlood struct {
	sys       *engine.System
	es        *EventSourcerer
	predictor *predict.Flood
	threshold float64
	metrics   *metrics.Metrics
}

func (action PredictFlood) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.predictFlood(req)
	if errHTTP != nil {
		errHTTP.From("[predictFlood]").WriteResponse(w)
		return
	}
	mustWriteJSON(w, req, resp)
}

func (action PredictFlood) predictFlood(req *http.Request) (ersjson.Prediction, *herr.HTTPError) {
	var resp ersjson.Prediction

	input, errHTTP := readBodyAs[predict.FloodInput](req)
	if errHTTP != nil {
		return resp, errHTTP.From("[readBodyAs]")
	}

	resp = action.predictor.Predict(input)
	maybeAutoDeclare(action.sys, action.es, action.metrics, &resp, "flood", action.threshold)
	return resp, nil
}

// maybeAutoDeclare opens an emergency when a prediction crosses its hazard's
// threshold, and attaches the declaration to the prediction. Degraded
// predictions carry probability zero and can never trigger this.
func maybeAutoDeclare(
	sys *engine.System, es *EventSourcerer, m *metrics.Metrics,
	p *ersjson.Prediction, hazard string, threshold float64,
) {
	if p.Probability < threshold {
		return
	}
	result := sys.Declare(
		hazard,
		p.Location,
		predict.AutoDeclareSeverity(p.Probability),
		predict.AutoDeclareDescription(hazard, p.Probability),
		ersjson.Coordinates{},
	)
	p.EmergencyResponse = result
	m.AutoDeclared()
	es.notifyEmergencyUpdate(result.EmergencyID, ersjson.StatusActive)
}

// overviewBaselineEarthquake and overviewBaselineFlood are the fixed factor
// sets used for the location risk overview, standing in for live sensor
// feeds.
func overviewBaselineEarthquake(location string) predict.EarthquakeInput {
	return predict.EarthquakeInput{
		Location:            location,
		SeismicActivity:     5.0,
		GeologicalStress:    4.5,
		HistoricalFrequency: 3.8,
		TectonicMovement:    4.2,
		GroundWaterChange:   2.5,
	}
}

func overviewBaselineFlood(location string) predict.FloodInput {
	return predict.FloodInput{
		Location:          location,
		RainfallIntensity: 6.5,
		RiverWaterLevel:   5.8,
		SoilSaturation:    4.2,
		DrainageCapacity:  6.0,
		ElevationRisk:     3.5,
	}
}

func overallStatusBand(overallRisk float64) (status, color string) {
	switch {
	case overallRisk < 30:
		return "Safe", "green"
	case overallRisk < 60:
		return "Caution", "yellow"
	case overallRisk < 80:
		return "Warning", "orange"
	default:
		return "Emergency", "red"
	}
}

// GetRiskOverview serves the combined hazard snapshot for a location. Results
// are cached per location; the TTL bounds how stale the active-emergency
// counts may be.
type GetRiskOverview struct {
	sys        *engine.System
	earthquake *predict.Earthquake
	flood      *predict.Flood
	cacheTTL   time.Duration

	mu     sync.Mutex
	caches map[string]*cache.InMemory[ersjson.RiskOverview]
}

func NewGetRiskOverview(
	sys *engine.System,
	earthquake *predict.Earthquake,
	flood *predict.Flood,
	cacheTTL time.Duration,
) *GetRiskOverview {
	return &GetRiskOverview{
		sys:        sys,
		earthquake: earthquake,
		flood:      flood,
		cacheTTL:   cacheTTL,
		caches:     make(map[string]*cache.InMemory[ersjson.RiskOverview]),
	}
}

func (action *GetRiskOverview) cacheFor(location string) *cache.InMemory[ersjson.RiskOverview] {
	action.mu.Lock()
	defer action.mu.Unlock()
	c, ok := action.caches[location]
	if !ok {
		c = cache.New[ersjson.RiskOverview](action.cacheTTL,
			func(ctx context.Context) (ersjson.RiskOverview, error) {
				return action.buildOverview(ctx, location)
			},
		)
		action.caches[location] = c
	}
	return c
}

func (action *GetRiskOverview) buildOverview(ctx context.Context, location string) (ersjson.RiskOverview, error) {
	var earthquakeRisk, floodRisk ersjson.Prediction

	// The two predictors are independent, so score them concurrently.
	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		earthquakeRisk = action.earthquake.Predict(overviewBaselineEarthquake(location))
		return nil
	})
	group.Go(func() error {
		floodRisk = action.flood.Predict(overviewBaselineFlood(location))
		return nil
	})
	if err := group.Wait(); err != nil {
		return ersjson.RiskOverview{}, err
	}

	overallRisk := conv.Round2(max(earthquakeRisk.Probability, floodRisk.Probability))
	status, color := overallStatusBand(overallRisk)

	active := action.sys.Active()
	details := active
	if len(details) > 3 {
		details = details[:3]
	}

	return ersjson.RiskOverview{
		Location:          location,
		OverallStatus:     status,
		StatusColor:       color,
		OverallRisk:       overallRisk,
		Earthquake:        earthquakeRisk,
		Flood:             floodRisk,
		ActiveEmergencies: len(active),
		EmergencyDetails:  details,
	}, nil
}

func (action *GetRiskOverview) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp, errHTTP := action.getOverview(req)
	if errHTTP != nil {
		errHTTP.From("[getOverview]").WriteResponse(w)
		return
	}
	mustWriteJSON(w, req, resp)
}

func (action *GetRiskOverview) getOverview(req *http.Request) (*ersjson.RiskOverview, *herr.HTTPError) {
	location := req.URL.Query().Get("location")
	if location == "" {
		return nil, herr.BadRequest("A location query parameter is required", nil).SetExpectedError()
	}

	overview, err := action.cacheFor(location).Get(req.Context())
	if err != nil {
		return nil, herr.InternalServerError("Failed to build risk overview", err).From("[Get]")
	}
	return overview, nil
}
