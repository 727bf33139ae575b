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

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests swap the package-level output writer, so they must not run
// in parallel with each other.

func captureOneshotOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oneshotOut = &buf
	t.Cleanup(func() { oneshotOut = os.Stdout })
	return &buf
}

func TestSimulateUnknownScenario(t *testing.T) {
	buf := captureOneshotOut(t)

	require.NoError(t, simulateCmd.RunE(simulateCmd, []string{"alien_invasion"}))
	assert.JSONEq(t, `{"error": "Unknown scenario type"}`, buf.String())
}

func TestSimulateKnownScenario(t *testing.T) {
	buf := captureOneshotOut(t)

	require.NoError(t, simulateCmd.RunE(simulateCmd, []string{"flash_flood"}))
	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "declared", result["status"])
	assert.NotEmpty(t, result["emergency_id"])
}

func TestDeclareBadSeverity(t *testing.T) {
	buf := captureOneshotOut(t)

	require.NoError(t, declareCmd.RunE(declareCmd,
		[]string{"fire", "Lahore", "severe", "Warehouse fire"}))
	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Contains(t, result["error"], "bad severity")
}
