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
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/reliefops/ers-go/api"
	"github.com/reliefops/ers-go/conf"
	"github.com/reliefops/ers-go/engine"
	"github.com/reliefops/ers-go/fleet"
	"github.com/reliefops/ers-go/lib/conv"
	"github.com/reliefops/ers-go/lib/log"
	"github.com/reliefops/ers-go/metrics"
	"github.com/reliefops/ers-go/predict"
	"github.com/spf13/cobra"
)

const (
	envfileFlagName    = "envfile"
	envFileDefaultName = ".env"

	printConfigFlagName = "print-config"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Launch the ERS server",
	Long: "Launch the ERS server\n\n" +
		"Configuration starts from built-in defaults and can be overridden by environment variables.",
	Run: runServer,
}

func runServer(cmd *cobra.Command, args []string) {
	ersCfg := mustInitConfig(envFilename)
	os.Exit(runServerInternal(context.Background(), ersCfg, printConfig, make(chan string, 1)))
}

// runServerInternal starts the ERS server and blocks until it is terminated.
//
// The supplied channel will be provided with the address of the server at the
// time when the server is started and ready to accept connections.
func runServerInternal(
	ctx context.Context, unvalidatedCfg *conf.ERSConfig,
	printConfig bool, listeningAddr chan<- string,
) (exitCode int) {
	must(unvalidatedCfg.Validate())
	ersCfg := unvalidatedCfg

	configureLogger(ersCfg)

	if printConfig {
		cfgStr := ersCfg.PrintRedacted()
		stderrPrintf("Here's the final ERSConfig:\n\n%v\n\n", cfgStr)
	}

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)
	sys := engine.New(fleet.Default(), m)
	earthquake := predict.NewEarthquake(m)
	flood := predict.NewFlood(m)

	notifyCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	eventSource := api.NewEventSourcerer()
	mux := http.NewServeMux()
	api.AddToMux(mux, eventSource, ersCfg, sys, earthquake, flood, m, promRegistry)

	s := &http.Server{
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
		// This needs to be long to support long-lived EventSource calls.
		// After this duration, a client will be disconnected and forced
		// to reconnect.
		WriteTimeout:   30 * time.Minute,
		MaxHeaderBytes: 1 << 20,
	}
	s.RegisterOnShutdown(func() {
		eventSource.Server.Close()
	})

	addr := fmt.Sprintf("%v:%v", ersCfg.Core.Host, ersCfg.Core.Port)
	listener, err := net.Listen("tcp", addr)
	must(err)
	addr = fmt.Sprintf("%v:%v", ersCfg.Core.Host, listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := s.Serve(listener)
		slog.Error("Serve", "err", err)
	}()

	slog.Info("ERS server is ready for connections", "addr", addr)
	slog.Info(fmt.Sprintf("API base is http://%v/ers/api", addr))

	listeningAddr <- addr
	close(listeningAddr)
	// The goroutine will hang here until the NotifyContext is done
	<-notifyCtx.Done()
	stop()
	slog.Error("Shutting down gracefully, press Ctrl+C again to force")

	// Tell the server to shut down, giving it this much time to do so gracefully.
	// Don't parent this ctx on the notifyCtx, because it's already done.
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = s.Shutdown(timeoutCtx)
	slog.Error("Server shut down", "err", err)
	stop()
	cancel()
	return 69
}

func configureLogger(ersCfg *conf.ERSConfig) {
	var logLevel slog.Level
	must(logLevel.UnmarshalText([]byte(ersCfg.Core.LogLevel)))
	logger := slog.New(
		log.NewHandler(
			&slog.HandlerOptions{Level: logLevel},
		),
	)
	slog.SetDefault(logger)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	// When doing `docker run --env-file .env`, Docker passes in vars without removing
	// the double-quotes, e.g. ERS_HOSTNAME="localhost" would actually get passed into
	// the program with the double-quotes in place.
	// https://github.com/docker/cli/issues/3630
	if strings.HasPrefix(v, "\"") && strings.HasSuffix(v, "\"") {
		v = v[1 : len(v)-1]
	}
	return v, true
}

// mustInitConfig reads in the .env file and ENV variables if set.
func mustInitConfig(envFileName string) *conf.ERSConfig {
	newCfg := conf.DefaultERS()
	err := godotenv.Load(envFileName)

	if err != nil && !os.IsNotExist(err) {
		must(err)
	}
	if os.IsNotExist(err) {
		// if it's not the default
		if envFileName != ".env" {
			must(fmt.Errorf("envfile '%v' was set by the caller, but the file was not found", envFileName))
		}
		slog.Info("No .env file found. Carrying on with ERSConfig defaults and environment variable overrides")
	}

	if v, ok := lookupEnv("ERS_HOSTNAME"); ok {
		newCfg.Core.Host = v
	}
	if v, ok := lookupEnv("ERS_PORT"); ok {
		newCfg.Core.Port, err = conv.ParseInt32(v)
		must(err)
	}
	if v, ok := lookupEnv("ERS_DEPLOYMENT"); ok {
		newCfg.Core.Deployment = strings.ToLower(v)
	}
	if v, ok := lookupEnv("ERS_LOG_LEVEL"); ok {
		newCfg.Core.LogLevel = v
	}
	if v, ok := lookupEnv("ERS_CACHE_CONTROL_SHORT"); ok {
		// These values must be given with a time unit in the env variable,
		// e.g. "20s" or "5m10s". ParseDuration will fail here if the value
		// is just a nonzero number.
		dur, err := time.ParseDuration(v)
		must(err)
		newCfg.Core.CacheControlShort = dur
	}
	if v, ok := lookupEnv("ERS_MAX_REQUEST_BYTES"); ok {
		newCfg.Core.MaxRequestBytes, err = conv.ParseInt64(v)
		must(err)
	}
	if v, ok := lookupEnv("ERS_EARTHQUAKE_DECLARE_THRESHOLD"); ok {
		newCfg.Risk.EarthquakeDeclareThreshold, err = conv.ParseFloat64(v)
		must(err)
	}
	if v, ok := lookupEnv("ERS_FLOOD_DECLARE_THRESHOLD"); ok {
		newCfg.Risk.FloodDeclareThreshold, err = conv.ParseFloat64(v)
		must(err)
	}
	if v, ok := lookupEnv("ERS_OVERVIEW_CACHE_TTL"); ok {
		dur, err := time.ParseDuration(v)
		must(err)
		newCfg.Risk.OverviewCacheTTL = dur
	}

	return newCfg
}

var (
	envFilename string
	printConfig bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&envFilename, envfileFlagName, envFileDefaultName,
		"An env file from which to load ERS server configuration. "+
			"Defaults to '.env' in the current directory")
	serveCmd.Flags().BoolVar(&printConfig, printConfigFlagName, true,
		"Whether to print the ERSConfig on server startup")
}

// must logs an error and panics. This should only be done for
// startup errors, not after the server is up and running.
func must(err error) {
	if err != nil {
		panic("got a startup error: " + err.Error())
	}
}

func stderrPrintf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
