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

// Package predict scores hazard risk from weighted environmental factors.
//
// Each predictor clamps its factors to 0..10, takes a weighted sum, and
// scales it to a 0..100 probability. Banding into Low/Medium/High/Critical
// uses per-hazard thresholds. A predictor never fails a request: a
// non-finite factor degrades the prediction to probability zero with risk
// level "Error".
package predict

import (
	"fmt"
	"math"
	"time"

	"github.com/reliefops/ers-go/lib/conv"
)

// predictionTimeLayout is the wire format for prediction timestamps.
const predictionTimeLayout = "2006-01-02 15:04:05"

// unknownLocation stands in when a request omits the location.
const unknownLocation = "Unknown Location"

func clampFactor(v float64) float64 {
	return conv.Clamp(v, 0, 10)
}

// checkFinite rejects NaN and infinite factor values. The map iterates in
// whatever order; the error names the first offending factor found.
func checkFinite(factors map[string]float64) error {
	for name, v := range factors {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid value for factor %q: %v", name, v)
		}
	}
	return nil
}

// weightedScore is the dot product of factors and weights. Factors must
// already be clamped.
func weightedScore(factors, weights map[string]float64) float64 {
	score := 0.0
	for name, weight := range weights {
		score += factors[name] * weight
	}
	return score
}

// probabilityFromScore scales a 0..10 weighted score to a 0..100
// probability, capped and rounded to two decimals.
func probabilityFromScore(score float64) float64 {
	return conv.Round2(min(score*10, 100))
}

// AutoDeclareSeverity converts a probability to a declaration severity: one
// point per ten percent, capped at ten.
func AutoDeclareSeverity(probability float64) int {
	return min(int(probability/10), 10)
}

// AutoDeclareDescription is the description attached to auto-declared
// emergencies.
func AutoDeclareDescription(hazard string, probability float64) string {
	return fmt.Sprintf("High %s risk detected: %v%% probability", hazard, probability)
}

func timestamp(now func() time.Time) string {
	return now().Format(predictionTimeLayout)
}
