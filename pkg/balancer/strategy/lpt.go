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

package strategy

import (
	log "github.com/sirupsen/logrus"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
)

// lpt is the longest-processing-time-first strategy of Graham (1969). Fed
// a list sorted heaviest first, it gives each task to the least loaded
// unit, which bounds the makespan by (4/3 - 1/(3n)) times the optimum.
type lpt struct {
	name string
}

// NewLPT returns the linear scan LPT strategy.
func NewLPT() Strategy {
	return &lpt{
		name: LPT,
	}
}

// Name is the implementation for Strategy interface.Name method
func (s *lpt) Name() string {
	return s.name
}

// Schedule is an implementation of the Strategy interface.
func (s *lpt) Schedule(tasks models.TaskList, numUnits int) (*models.Schedule, error) {
	if err := checkUnits(tasks, numUnits); err != nil {
		return nil, err
	}

	schedule := models.NewSchedule(numUnits)
	for _, task := range tasks {
		imin := minLoadUnit(schedule.Units)
		schedule.Assign(task, imin)
		log.WithFields(log.Fields{
			"task_id":   task.ID,
			"task_load": task.Load,
			"unit":      imin,
			"unit_load": schedule.Units[imin].Load,
		}).Debug("Assigned task")
	}
	return schedule, nil
}

// minLoadUnit returns the index of the least loaded unit. Only a strictly
// smaller load replaces the current pick, so ties go to the lowest index.
func minLoadUnit(units []*models.ProcessingUnit) int {
	imin := 0
	for i := 1; i < len(units); i++ {
		if units[i].Load < units[imin].Load {
			imin = i
		}
	}
	return imin
}
