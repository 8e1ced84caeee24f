package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"efwetl/internal/config"
	"efwetl/internal/errs"
	"efwetl/internal/metrics"
	"efwetl/internal/metrics/datadog"
	"efwetl/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "efwetl/internal/storage/all"
)

// Exit codes.
const (
	exitOK = iota
	exitFailure
	exitConfig
	exitLoad
)

// main loads the pipeline file, optionally installs a metrics backend, and
// runs read → merge → reshape → export → normalize → load.
func main() {
	var (
		cfgPath           string
		envFile           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		dogstatsdAddrFlg  string
		validate          bool
		skipLoad          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/efw.json", "pipeline config path (.json, .yaml, .yml)")
	flag.StringVar(&envFile, "env-file", "", "optional .env file with EFW_* overrides and DSN secrets")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: pushgateway, datadog, none (default env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (default env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddrFlg, "dogstatsd-addr", "", "DogStatsD address (default env DD_DOGSTATSD_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&skipLoad, "skip-load", false, "stop after the export; do not touch the database")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fatalf(exitConfig, "load env file: %v", err)
		}
	}

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf(exitConfig, "%v", err)
	}
	if dsn := os.Getenv("EFW_DSN"); dsn != "" {
		p.Storage.DB.DSN = dsn
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(exitConfig)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(exitOK)
	}

	runID := uuid.NewString()
	flush := installMetrics(p.Job, runID, metricsBackendFlg, pushGatewayURLFlg, dogstatsdAddrFlg, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: run=%s job=%s metrics=%s areas=%s storage=%s",
			runID, p.Job, p.Sources.Metrics.File.Path, p.Sources.Areas.File.Path, p.Storage.Kind)
	}

	_, err = run(ctx, p, runOptions{RunID: runID, Verbose: *verbose, SkipLoad: skipLoad})
	stop()
	flush()
	if err != nil {
		code := exitFailure
		switch {
		case errors.Is(err, errs.ErrConfiguration):
			code = exitConfig
		case errors.Is(err, errs.ErrLoadIntegrity):
			code = exitLoad
		}
		fatalf(code, "run %s: %v", runID, err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// installMetrics picks the backend (flag → env → none) and returns the func
// that flushes it at exit.
func installMetrics(job, runID, backendName, gwURL, ddAddr string, verbose bool) func() {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}

	var (
		b   metrics.Backend
		err error
	)
	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err = prompush.NewBackend(job, runID, gwURL)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, job)
		}
	case "datadog":
		if ddAddr == "" {
			ddAddr = os.Getenv("DD_DOGSTATSD_ADDR")
		}
		if ddAddr == "" {
			ddAddr = "127.0.0.1:8125"
		}
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       ddAddr,
			Namespace:  "efw.",
			GlobalTags: []string{"job:" + job, "run:" + runID},
		})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v, job_name=%v", ddAddr, backendName, job)
		}
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}

	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", backendName, err)
		return func() {}
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func fatalf(code int, format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(code)
}
