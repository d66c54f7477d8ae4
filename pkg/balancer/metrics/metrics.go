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

package metrics

import (
	"github.com/uber-go/tally/v4"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
)

// Metrics is the struct containing all the counters that track the
// balancing runs.
type Metrics struct {
	// RunSuccess counts runs which wrote a host file
	RunSuccess tally.Counter
	// RunNoop counts runs skipped because units outnumber tasks
	RunNoop tally.Counter
	// RunFail counts runs aborted by an error
	RunFail tally.Counter

	// TasksScheduled is the number of tasks placed on a unit
	TasksScheduled tally.Counter

	// Makespan is the largest unit load of the last schedule
	Makespan tally.Gauge
	// TotalLoad is the sum of task loads of the last schedule
	TotalLoad tally.Gauge
	// Units is the number of processing units of the last schedule
	Units tally.Gauge
	// Imbalance is makespan over the makespan lower bound
	Imbalance tally.Gauge

	// ScheduleDuration is the time spent in the strategy
	ScheduleDuration tally.Timer
}

// New returns a new Metrics struct with all metrics initialized and
// rooted below the given tally scope.
func New(scope tally.Scope) *Metrics {
	runScope := scope.SubScope("run")
	taskScope := scope.SubScope("tasks")
	scheduleScope := scope.SubScope("schedule")

	return &Metrics{
		RunSuccess: runScope.Counter("success"),
		RunNoop:    runScope.Counter("noop"),
		RunFail:    runScope.Counter("fail"),

		TasksScheduled: taskScope.Counter("scheduled"),

		Makespan:         scheduleScope.Gauge("makespan"),
		TotalLoad:        scheduleScope.Gauge("total_load"),
		Units:            scheduleScope.Gauge("units"),
		Imbalance:        scheduleScope.Gauge("imbalance"),
		ScheduleDuration: scheduleScope.Timer("duration"),
	}
}

// RecordSchedule updates the schedule gauges from a finished schedule.
func (m *Metrics) RecordSchedule(s *models.Schedule) {
	m.TasksScheduled.Inc(int64(s.NumTasks()))
	m.Makespan.Update(float64(s.Makespan()))
	m.TotalLoad.Update(float64(s.TotalLoad()))
	m.Units.Update(float64(len(s.Units)))
	if lb := s.LowerBound(); lb > 0 {
		m.Imbalance.Update(float64(s.Makespan()) / float64(lb))
	}
}
