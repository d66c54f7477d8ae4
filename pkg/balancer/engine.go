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

// Package balancer re-orders an oversubscribed host file so that the
// blocks of a job spread evenly over the available slots.
//
// The engine runs one pass: it builds the task list from the job's
// control file, reads the host inventory, schedules the tasks with the
// configured strategy, reports the per-unit assignment and writes the
// host file in which line i is the host that runs block i.
package balancer

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/config"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/hostfile"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/hosts"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/metrics"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/report"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/strategy"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/tasks"
)

// Outcome is how a run ended.
type Outcome int

const (
	// Written means a host file with one line per block was written.
	Written Outcome = iota + 1
	// Skipped means there were more hosts than blocks and nothing was written.
	Skipped
	// Empty means the job has no blocks and an empty host file was written.
	Empty
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Skipped:
		return "skipped"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// Request names the inputs and output of one run.
type Request struct {
	// Job is the base name of the job; the control file is derived from it.
	Job string
	// HostsIn is the path of the host inventory.
	HostsIn string
	// HostsOut is the path of the host file to write.
	HostsOut string
}

// Validate checks that every parameter is set.
func (r Request) Validate() error {
	if r.Job == "" {
		return errs.UsageErrorf("the base file name for the job must be specified with --job=JOBNAME")
	}
	if r.HostsIn == "" {
		return errs.UsageErrorf("the input host file name must be specified with --input-hostfile=HOSTS_IN")
	}
	if r.HostsOut == "" {
		return errs.UsageErrorf("the output host file name must be specified with --output-hostfile=HOSTS_OUT")
	}
	return nil
}

// Result describes a finished run.
type Result struct {
	Outcome     Outcome
	ControlFile string
	NumTasks    int
	NumProcs    int
	// Schedule is nil unless Outcome is Written.
	Schedule *models.Schedule
}

// Engine runs balancing passes.
type Engine struct {
	cfg      *config.Config
	strategy strategy.Strategy
	metrics  *metrics.Metrics
	out      io.Writer
}

// New creates an engine. The assignment report is written to out.
func New(cfg *config.Config, scope tally.Scope, out io.Writer) (*Engine, error) {
	strategy.Init()
	s, err := strategy.Create(cfg.Balancer.Strategy)
	if err != nil {
		return nil, err
	}
	if err := report.ValidateFormat(cfg.Balancer.ReportFormat); err != nil {
		return nil, err
	}
	log.WithField("strategy", s.Name()).Info("Using balancing strategy")
	return &Engine{
		cfg:      cfg,
		strategy: s,
		metrics:  metrics.New(scope),
		out:      out,
	}, nil
}

// Run executes one balancing pass. Any failure aborts the pass before
// the host file is touched.
func (e *Engine) Run(req Request) (*Result, error) {
	result, err := e.run(req)
	if err != nil {
		e.metrics.RunFail.Inc(1)
		return nil, err
	}
	return result, nil
}

func (e *Engine) run(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	controlPath := e.cfg.Balancer.Control.ControlFile(req.Job)
	logger := log.WithFields(log.Fields{
		"job":       req.Job,
		"control":   controlPath,
		"hosts_in":  req.HostsIn,
		"hosts_out": req.HostsOut,
	})

	source, err := tasks.OpenControlFile(controlPath, e.cfg.Balancer.Control)
	if err != nil {
		return nil, err
	}
	taskList, err := tasks.Build(source)
	if err != nil {
		return nil, err
	}
	hostList, err := hosts.ReadFile(req.HostsIn)
	if err != nil {
		return nil, err
	}
	if len(hostList) == 0 {
		return nil, errs.ConfigErrorf("no hosts found in %s", req.HostsIn)
	}

	result := &Result{
		ControlFile: controlPath,
		NumTasks:    len(taskList),
		NumProcs:    len(hostList),
	}
	logger = logger.WithFields(log.Fields{
		"ntasks": result.NumTasks,
		"nprocs": result.NumProcs,
	})

	if len(taskList) == 0 {
		if err := hostfile.Write(req.HostsOut, nil); err != nil {
			return nil, err
		}
		logger.Info("Job has no blocks, wrote empty host file")
		result.Outcome = Empty
		e.metrics.RunSuccess.Inc(1)
		return result, nil
	}

	sw := e.metrics.ScheduleDuration.Start()
	schedule, err := e.strategy.Schedule(taskList, len(hostList))
	sw.Stop()
	if errors.Is(err, errs.ErrInsufficientTasks) {
		logger.Info("Quitting without doing anything because nprocs > ntasks")
		result.Outcome = Skipped
		e.metrics.RunNoop.Inc(1)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	lines, err := hostfile.Resolve(schedule, hostList, len(taskList))
	if err != nil {
		return nil, err
	}
	rep, err := report.New(schedule, hostList)
	if err != nil {
		return nil, err
	}
	if err := rep.Write(e.out, e.cfg.Balancer.ReportFormat); err != nil {
		return nil, errs.WrapIO(err, "cannot write assignment report")
	}

	logger.Info("Writing new host file")
	if err := hostfile.Write(req.HostsOut, lines); err != nil {
		return nil, err
	}

	e.metrics.RecordSchedule(schedule)
	e.metrics.RunSuccess.Inc(1)
	logger.WithFields(log.Fields{
		"makespan":    schedule.Makespan(),
		"lower_bound": schedule.LowerBound(),
	}).Info("Load balancing done")

	result.Outcome = Written
	result.Schedule = schedule
	return result, nil
}
