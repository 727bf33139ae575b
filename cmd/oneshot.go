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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/reliefops/ers-go/engine"
	ersjson "github.com/reliefops/ers-go/json"
	"github.com/reliefops/ers-go/lib/conv"
	"github.com/spf13/cobra"
)

// The one-shot commands run a fresh in-memory system per invocation and
// print the result as JSON. They're meant for drills and demos; nothing
// persists between runs. Bad input is reported as an error JSON document
// on stdout rather than a nonzero exit, so callers can treat every
// invocation uniformly.

var declareCmd = &cobra.Command{
	Use:   "declare <type> <location> <severity> <description>",
	Short: "Declare an emergency and print the allocation result",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		severity, err := conv.ParseInt(args[2])
		if err != nil {
			return printErrorJSON(fmt.Sprintf("bad severity %q", args[2]))
		}
		sys := engine.NewDefault()
		result := sys.Declare(args[0], args[1], severity, args[3], ersjson.Coordinates{})
		return printJSON(result)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario]",
	Short: "Run a canned emergency scenario",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario := "major_earthquake"
		if len(args) > 0 {
			scenario = args[0]
		}
		sys := engine.NewDefault()
		result, ok := sys.Simulate(scenario)
		if !ok {
			return printErrorJSON("Unknown scenario type")
		}
		return printJSON(result)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [emergencyID]",
	Short: "Print active emergencies, or one emergency by ID",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := engine.NewDefault()
		if len(args) > 0 {
			return printJSON(sys.ByID(args[0]))
		}
		return printJSON(sys.Active())
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Print available response teams by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := engine.NewDefault()
		return printJSON(sys.AvailableResources())
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <emergencyID> <status> [notes]",
	Short: "Update an emergency's status",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		notes := ""
		if len(args) > 2 {
			notes = args[2]
		}
		sys := engine.NewDefault()
		result := sys.UpdateStatus(args[0], ersjson.EmergencyStatus(args[1]), notes)
		return printJSON(result)
	},
}

// oneshotOut is where the one-shot commands write their JSON document.
// Tests point it at a buffer.
var oneshotOut io.Writer = os.Stdout

func printJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(oneshotOut, string(b))
	return err
}

func printErrorJSON(msg string) error {
	return printJSON(map[string]string{"error": msg})
}

func init() {
	rootCmd.AddCommand(declareCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(updateCmd)
}
