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

// EarthquakeThreshold is the probability at or above which an earthquake
// prediction auto-declares an emergency.
const EarthquakeThreshold = 75.0

var earthquakeWeights = map[string]float64{
	"seismic_activity":   0.3,
	"geological_stress":  0.25,
	"historical_data":    0.2,
	"tectonic_movement":  0.15,
	"ground_water_level": 0.1,
}

// EarthquakeInput is one earthquake risk request. Omitted factors are zero.
type EarthquakeInput struct {
	Location            string  `json:"location"`
	SeismicActivity     float64 `json:"seismic_activity"`
	GeologicalStress    float64 `json:"geological_stress"`
	HistoricalFrequency float64 `json:"historical_frequency"`
	TectonicMovement    float64 `json:"tectonic_movement"`
	GroundWaterChange   float64 `json:"ground_water_change"`
}

// Earthquake scores earthquake risk.
type Earthquake struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewEarthquake returns an earthquake predictor. A nil metrics is fine.
func NewEarthquake(m *metrics.Metrics) *Earthquake {
	return &Earthquake{metrics: m, now: time.Now}
}

// SetClock overrides the predictor's time source for tests.
func (p *Earthquake) SetClock(now func() time.Time) {
	p.now = now
}

func earthquakeRiskBand(probability float64) (riskLevel, alertColor string) {
	switch {
	case probability < 30:
		return ersjson.RiskLow, "green"
	case probability < 60:
		return ersjson.RiskMedium, "yellow"
	case probability < 80:
		return ersjson.RiskHigh, "orange"
	default:
		return ersjson.RiskCritical, "red"
	}
}

func earthquakeRecommendations(riskLevel string) []string {
	switch riskLevel {
	case ersjson.RiskLow:
		return []string{
			"Continue normal activities",
			"Keep emergency kit updated",
			"Stay informed about local alerts",
		}
	case ersjson.RiskMedium:
		return []string{
			"Review emergency plans",
			"Check building safety",
			"Prepare emergency supplies",
			"Stay alert for updates",
		}
	case ersjson.RiskHigh:
		return []string{
			"Avoid tall buildings if possible",
			"Keep emergency kit ready",
			"Plan evacuation routes",
			"Monitor official alerts closely",
		}
	case ersjson.RiskCritical:
		return []string{
			"Consider temporary relocation",
			"Avoid unnecessary travel",
			"Keep emergency supplies accessible",
			"Follow official evacuation orders",
		}
	default:
		return nil
	}
}

// Predict scores one earthquake risk request.
func (p *Earthquake) Predict(in EarthquakeInput) ersjson.Prediction {
	location := in.Location
	if location == "" {
		location = unknownLocation
	}

	raw := map[string]float64{
		"seismic_activity":   in.SeismicActivity,
		"geological_stress":  in.GeologicalStress,
		"historical_data":    in.HistoricalFrequency,
		"tectonic_movement":  in.TectonicMovement,
		"ground_water_level": in.GroundWaterChange,
	}
	// Finiteness is checked before clamping, since clamping an infinity
	// would silently turn it into a valid factor.
	if err := checkFinite(raw); err != nil {
		p.metrics.PredictionServed("earthquake", ersjson.RiskError)
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

	probability := probabilityFromScore(weightedScore(factors, earthquakeWeights))
	riskLevel, alertColor := earthquakeRiskBand(probability)
	p.metrics.PredictionServed("earthquake", riskLevel)

	return ersjson.Prediction{
		Location:        location,
		PredictionTime:  timestamp(p.now),
		Probability:     probability,
		RiskLevel:       riskLevel,
		AlertColor:      alertColor,
		Factors:         factors,
		Recommendations: earthquakeRecommendations(riskLevel),
	}
}
