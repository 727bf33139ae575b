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
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/reliefops/ers-go/conf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMustInitConfig should be the only test in the whole repo that
// so freely plays around with environment variables, since parallel
// testing means other tests will notice the result of "Setenvs" that
// occur at the same time.
//
// All other tests should use a conf.ERSConfig struct instead, as that
// is unaffected by environment variables changing later.
func TestMustInitConfig(t *testing.T) {
	t.Setenv("ERS_HOSTNAME", "host")
	t.Setenv("ERS_PORT", "1234")
	t.Setenv("ERS_DEPLOYMENT", "Staging")
	t.Setenv("ERS_LOG_LEVEL", "WARN")
	t.Setenv("ERS_CACHE_CONTROL_SHORT", "3m")
	t.Setenv("ERS_MAX_REQUEST_BYTES", "2048")
	t.Setenv("ERS_EARTHQUAKE_DECLARE_THRESHOLD", "80")
	t.Setenv("ERS_FLOOD_DECLARE_THRESHOLD", "65")
	t.Setenv("ERS_OVERVIEW_CACHE_TTL", "45s")

	cfg := mustInitConfig(".env")

	assert.Equal(t, "host", cfg.Core.Host)
	assert.Equal(t, int32(1234), cfg.Core.Port)
	assert.Equal(t, "staging", cfg.Core.Deployment)
	assert.Equal(t, "WARN", cfg.Core.LogLevel)
	assert.Equal(t, 3*time.Minute, cfg.Core.CacheControlShort)
	assert.Equal(t, int64(2048), cfg.Core.MaxRequestBytes)
	assert.InDelta(t, 80, cfg.Risk.EarthquakeDeclareThreshold, 0.0001)
	assert.InDelta(t, 65, cfg.Risk.FloodDeclareThreshold, 0.0001)
	assert.Equal(t, 45*time.Second, cfg.Risk.OverviewCacheTTL)
}

func TestRunServer(t *testing.T) {
	t.Parallel()
	ersCfg := conf.DefaultERS()

	// this will have the server pick a random port
	ersCfg.Core.Port = 0

	ctx, cancel := context.WithCancel(t.Context())

	addrChan := make(chan string, 1)
	exitChan := make(chan int, 1)
	go func() {
		exitChan <- runServerInternal(ctx, ersCfg, true, addrChan)
	}()

	addr := <-addrChan
	resp, err := http.Get("http://" + addr + "/ers/api/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ack\n", string(body))

	cancel()
	assert.Equal(t, 69, <-exitChan)
}
