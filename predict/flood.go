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

package predict

import (
	"time"

	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/metrics"
)

// FloodThreshold is the probability at or above which a flood prediction
// auto-declares an emergency.
const FloodThreshold = 70.0

var floodWeights = map[string]float64{
	"rainfall_intensity": 0.35,
	"river_water_level":  0.25,
	"soil_saturation":    0.2,
	"drainage_capacity":  0.15,
	"topography":         0.05,
}

// FloodInput is one flood risk request. DrainageCapacity is protective:
// higher capacity means lower risk.
type FloodInput struct {
	Location          string  `json:"location"`
	RainfallIntensity float64 `json:"rainfall_intensity"`
	RiverWaterLevel   float64 `json:"river_water_level"`
	SoilSaturation    float64 `json:"soil_saturation"`
	DrainageCapacity  float64 `json:"drainage_capacity"`
	ElevationRisk     float64 `json:"elevation_risk"`
}

// Flood scores flood risk.
type Flood struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewFlood returns a flood predictor. A nil metrics is fine.
func NewFlood(m *metrics.Metrics) *Flood {
	return &Flood{metrics: m, now: time.Now}
}

// SetClock overrides the predictor's time source for tests.
func (p *Flood) SetClock(now func() time.Time) {
	p.now = now
}

func floodRiskBand(probability float64) (riskLevel, alertColor string) {
	switch {
	case probability < 25:
		return ersjson.RiskLow, "green"
	case probability < 50:
		return ersjson.RiskMedium, "yellow"
	case probability < 75:
		return ersjson.RiskHigh, "orange"
	default:
		return ersjson.RiskCritical, "red"
	}
}

// estimatedWaterLevel maps flood probability to an expected water depth.
func estimatedWaterLevel(probability float64) string {
	switch {
	case probability < 25:
		return "0-0.5 feet"
	case probability < 50:
		return "0.5-2 feet"
	case probability < 75:
		return "2-5 feet"
	default:
		return "5+ feet"
	}
}

func floodRecommendations(riskLevel string) []string {
	switch riskLevel {
	case ersjson.RiskLow:
		return []string{
			"Monitor weather updates",
			"Clear drainage systems",
			"Keep emergency contacts ready",
		}
	case ersjson.RiskMedium:
		return []string{
			"Prepare sandbags if available",
			"Move valuables to higher ground",
			"Check evacuation routes",
			"Monitor water levels closely",
		}
	case ersjson.RiskHigh:
		return []string{
			"Evacuate low-lying areas",
			"Avoid driving through water",
			"Keep emergency supplies ready",
			"Stay tuned to emergency broadcasts",
		}
	case ersjson.RiskCritical:
		return []string{
			"Immediate evacuation required",
			"Avoid all water-covered roads",
			"Seek higher ground immediately",
			"Follow emergency services instructions",
		}
	default:
		return nil
	}
}

// Predict scores one flood risk request.
func (p *Flood) Predict(in FloodInput) ersjson.Prediction {
	location := in.Location
	if location == "" {
		location = unknownLocation
	}

	raw := map[string]float64{
		"rainfall_intensity": in.RainfallIntensity,
		"river_water_level":  in.RiverWaterLevel,
		"soil_saturation":    in.SoilSaturation,
		"drainage_capacity":  in.DrainageCapacity,
		"topography":         in.ElevationRisk,
	}
	// Finiteness is checked before clamping, since clamping an infinity
	// would silently turn it into a valid factor.
	if err := checkFinite(raw); err != nil {
		p.metrics.PredictionServed("flood", ersjson.RiskError)
		return ersjson.Prediction{
			Location:       location,
			PredictionTime: "Unknown",
			Probability:    0,
			RiskLevel:      ersjson.RiskError,
			Error:          err.Error(),
		}
	}

	factors := make(map[string]float64, len(raw))
	for name, v := range raw {
		factors[name] = clampFactor(v)
	}
	// Drainage is inverted so that all factors point the same way: more
	// means riskier.
	factors["drainage_capacity"] = 10 - factors["drainage_capacity"]

	probability := probabilityFromScore(weightedScore(factors, floodWeights))
	riskLevel, alertColor := floodRiskBand(probability)
	p.metrics.PredictionServed("flood", riskLevel)

	return ersjson.Prediction{
		Location:            location,
		PredictionTime:      timestamp(p.now),
		Probability:         probability,
		RiskLevel:           riskLevel,
		AlertColor:          alertColor,
		Factors:             factors,
		Recommendations:     floodRecommendations(riskLevel),
		EstimatedWaterLevel: estimatedWaterLevel(probability),
	}
}
