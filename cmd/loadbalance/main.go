// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pinebai/CFCFD-NG/pkg/balancer"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/config"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/common"
	"github.com/pinebai/CFCFD-NG/pkg/common/logging"
	"github.com/pinebai/CFCFD-NG/pkg/common/metrics"

	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"gopkg.in/alecthomas/kingpin.v2"
)

var version string

// flags holds the parsed command line of one invocation.
type flags struct {
	app *kingpin.Application

	job      *string
	hostsIn  *string
	hostsOut *string
	cfgFiles *[]string
	debug    *bool

	strategy     *string
	reportFormat *string
	logFormat    *string
}

func newFlags() *flags {
	app := kingpin.New(common.LoadBalance,
		"Re-orders an MPI host file so the blocks of a job are spread "+
			"evenly over the hosts (longest processing time first)")
	if version != "" {
		app.Version(version)
	}

	return &flags{
		app: app,

		job: app.Flag(
			"job", "Base file name of the job; blocks are read from <job>.control "+
				"(set $LOADBALANCE_JOB to override)").
			Short('j').
			Envar("LOADBALANCE_JOB").
			String(),

		hostsIn: app.Flag(
			"input-hostfile", "Host file listing one slot per line "+
				"(set $LOADBALANCE_HOSTS_IN to override)").
			Short('i').
			Envar("LOADBALANCE_HOSTS_IN").
			String(),

		hostsOut: app.Flag(
			"output-hostfile", "Host file to write, line i is the host of block i "+
				"(set $LOADBALANCE_HOSTS_OUT to override)").
			Short('o').
			Envar("LOADBALANCE_HOSTS_OUT").
			String(),

		cfgFiles: app.Flag(
			"config",
			"YAML config files (can be provided multiple times to merge configs)").
			Short('c').
			Strings(),

		debug: app.Flag(
			"debug", "enable debug logging").
			Short('d').
			Default("false").
			Envar("ENABLE_DEBUG_LOGGING").
			Bool(),

		strategy: app.Flag(
			"strategy", "Balancing strategy, LPT or LPT_HEAP (balancer.strategy override)").
			Envar("LOADBALANCE_STRATEGY").
			String(),

		reportFormat: app.Flag(
			"report-format", "Assignment report format, text, json or yaml "+
				"(balancer.report_format override)").
			String(),

		logFormat: app.Flag(
			"log-format", "Log format, json or text (logging.format override)").
			String(),
	}
}

// request returns the balancing request, or a usage error naming the
// first missing parameter.
func (f *flags) request() (balancer.Request, error) {
	req := balancer.Request{
		Job:      *f.job,
		HostsIn:  *f.hostsIn,
		HostsOut: *f.hostsOut,
	}
	return req, req.Validate()
}

// overrideConfig applies the flags which were set on top of the config
// files.
func (f *flags) overrideConfig(cfg *config.Config) {
	if *f.strategy != "" {
		log.WithField("strategy", *f.strategy).
			Debug("Overriding balancer strategy from flag")
		cfg.Balancer.Strategy = *f.strategy
	}
	if *f.reportFormat != "" {
		cfg.Balancer.ReportFormat = *f.reportFormat
	}
	if *f.logFormat != "" {
		cfg.Logging.Format = *f.logFormat
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	f := newFlags()

	exitCode := -1
	f.app.UsageWriter(stderr).
		ErrorWriter(stderr).
		Terminate(func(code int) { exitCode = code })

	if _, err := f.app.Parse(args); err != nil {
		f.app.Errorf("%s", err)
		f.app.Usage(args)
		return errs.ExitUsage
	}
	if exitCode >= 0 {
		// --help or --version
		return exitCode
	}

	req, err := f.request()
	if err != nil {
		f.app.Errorf("%s", err)
		f.app.Usage(args)
		return errs.ExitCode(err)
	}

	cfg, err := config.Load(*f.cfgFiles...)
	if err != nil {
		fmt.Fprintf(stderr, "%s: error: %s\n", common.LoadBalance, err)
		return errs.ExitCode(err)
	}
	f.overrideConfig(cfg)

	runID := uuid.New()
	if err := logging.Setup(
		stderr,
		cfg.Logging.Format,
		log.Fields{
			common.AppLogField:   common.LoadBalance,
			common.RunIDLogField: runID,
		},
		*f.debug,
	); err != nil {
		fmt.Fprintf(stderr, "%s: error: %s\n", common.LoadBalance, err)
		return errs.ExitConfig
	}

	log.WithField("files", *f.cfgFiles).
		WithField("config", cfg).
		Debug("Loaded balancer configuration")

	scope, closer, err := metrics.InitMetricScope(&cfg.Metrics, common.LoadBalance)
	if err != nil {
		log.WithError(err).Error("Failed to initialize metrics")
		return errs.ExitConfig
	}
	defer closer.Close()

	engine, err := balancer.New(cfg, scope, stdout)
	if err != nil {
		log.WithError(err).Error("Failed to create balancer")
		return errs.ExitCode(err)
	}

	result, err := engine.Run(req)
	metrics.ReportRuntime(scope)
	if err != nil {
		log.WithError(err).
			WithField("job", req.Job).
			Error("Load balancing failed")
		return errs.ExitCode(err)
	}

	log.WithFields(log.Fields{
		"outcome": result.Outcome.String(),
		"ntasks":  result.NumTasks,
		"nprocs":  result.NumProcs,
	}).Info("Load balancing finished")
	return errs.ExitOK
}
