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

package conf

import (
	"errors"
	"fmt"
	"time"

	"github.com/reliefops/ers-go/lib/redact"
)

// DefaultERS is the base configuration used for the ERS server.
// It gets overridden by environment variables (ERS_*), loaded via .env
// when present.
func DefaultERS() *ERSConfig {
	return &ERSConfig{
		Core: ConfigCore{
			Host:              "localhost",
			Port:              80,
			Deployment:        "dev",
			LogLevel:          "INFO",
			CacheControlShort: 20 * time.Minute,
			MaxRequestBytes:   1 << 20,
		},
		Risk: RiskConfig{
			EarthquakeDeclareThreshold: 75,
			FloodDeclareThreshold:      70,
			OverviewCacheTTL:           30 * time.Second,
		},
	}
}

// Validate should be called after an ERSConfig has been fully configured.
func (c *ERSConfig) Validate() error {
	var errs []error
	errs = append(errs, c.DeploymentType().Validate())
	// Port 0 is valid: the listener then picks an ephemeral port.
	if c.Core.Port < 0 {
		errs = append(errs, fmt.Errorf("invalid port %v", c.Core.Port))
	}
	if c.Core.MaxRequestBytes <= 0 {
		errs = append(errs, errors.New("MaxRequestBytes must be positive"))
	}
	if c.Risk.EarthquakeDeclareThreshold < 0 || c.Risk.EarthquakeDeclareThreshold > 100 {
		errs = append(errs, fmt.Errorf("earthquake declare threshold %v is not a percentage", c.Risk.EarthquakeDeclareThreshold))
	}
	if c.Risk.FloodDeclareThreshold < 0 || c.Risk.FloodDeclareThreshold > 100 {
		errs = append(errs, fmt.Errorf("flood declare threshold %v is not a percentage", c.Risk.FloodDeclareThreshold))
	}
	return errors.Join(errs...)
}

func (c *ERSConfig) PrintRedacted() string {
	return c.String()
}

func (c *ERSConfig) String() string {
	b, err := redact.ToBytes(c)
	if err != nil {
		return fmt.Sprintf("error printing config: %v", err)
	}
	return string(b)
}

func (c *ERSConfig) DeploymentType() DeploymentType {
	return DeploymentType(c.Core.Deployment)
}

type ERSConfig struct {
	Core ConfigCore
	Risk RiskConfig
}

type DeploymentType string

const (
	DeploymentTypeDev        DeploymentType = "dev"
	DeploymentTypeStaging    DeploymentType = "staging"
	DeploymentTypeProduction DeploymentType = "production"
)

func (d DeploymentType) Validate() error {
	switch d {
	case DeploymentTypeDev, DeploymentTypeStaging, DeploymentTypeProduction:
		return nil
	default:
		return fmt.Errorf("unknown deployment type %v", d)
	}
}

type ConfigCore struct {
	Host       string
	Port       int32
	Deployment string

	// CacheControlShort is the duration we set in responses' Cache-Control
	// headers for resources that change slowly but do change (e.g. the
	// known emergency types).
	CacheControlShort time.Duration

	// LogLevel should be one of DEBUG, INFO, WARN, or ERROR
	LogLevel string

	// MaxRequestBytes is a hard limit on request sizes that will be permitted
	// by the API server. This serves as a backstop against accidentally or
	// maliciously large requests.
	MaxRequestBytes int64
}

// RiskConfig tunes the prediction layer.
type RiskConfig struct {
	// EarthquakeDeclareThreshold and FloodDeclareThreshold are the
	// probability percentages at which a prediction auto-declares an
	// emergency.
	EarthquakeDeclareThreshold float64
	FloodDeclareThreshold      float64

	// OverviewCacheTTL bounds how stale a cached risk overview may be.
	OverviewCacheTTL time.Duration
}
