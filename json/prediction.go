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

package json

const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskCritical = "Critical"
	// RiskError is reported when a predictor faults; the prediction
	// degrades to probability zero rather than failing the request.
	RiskError = "Error"
)

// Prediction is one hazard risk assessment for a location.
type Prediction struct {
	Location            string             `json:"location"`
	PredictionTime      string             `json:"prediction_time"`
	Probability         float64            `json:"probability"`
	RiskLevel           string             `json:"risk_level"`
	AlertColor          string             `json:"alert_color,omitempty"`
	Factors             map[string]float64 `json:"factors,omitempty"`
	Recommendations     []string           `json:"recommendations,omitempty"`
	EstimatedWaterLevel string             `json:"estimated_water_level,omitempty"`
	Error               string             `json:"error,omitempty"`

	// EmergencyResponse is set when the probability crossed the
	// auto-declare threshold and an emergency was opened.
	EmergencyResponse *DeclareResult `json:"emergency_response,omitempty"`
}

// RiskOverview is the combined hazard snapshot for a location: both hazard
// predictions from baseline factors, the worse of the two probabilities, and
// the currently active emergencies (detail capped at three).
type RiskOverview struct {
	Location          string      `json:"location"`
	OverallStatus     string      `json:"overall_status"`
	StatusColor       string      `json:"status_color"`
	OverallRisk       float64     `json:"overall_risk"`
	Earthquake        Prediction  `json:"earthquake"`
	Flood             Prediction  `json:"flood"`
	ActiveEmergencies int         `json:"active_emergencies"`
	EmergencyDetails  Emergencies `json:"emergency_details"`
}
