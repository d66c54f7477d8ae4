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
	"container/heap"

	log "github.com/sirupsen/logrus"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
)

// lptHeap is the LPT strategy with the least loaded unit kept on top of a
// min-heap. It produces the same schedule as lpt in O(log n) per task.
type lptHeap struct {
	name string
}

// NewLPTHeap returns the heap backed LPT strategy.
func NewLPTHeap() Strategy {
	return &lptHeap{
		name: LPTHeap,
	}
}

// Name is the implementation for Strategy interface.Name method
func (s *lptHeap) Name() string {
	return s.name
}

// Schedule is an implementation of the Strategy interface.
func (s *lptHeap) Schedule(tasks models.TaskList, numUnits int) (*models.Schedule, error) {
	if err := checkUnits(tasks, numUnits); err != nil {
		return nil, err
	}

	schedule := models.NewSchedule(numUnits)
	pq := make(unitQueue, numUnits)
	copy(pq, schedule.Units)
	heap.Init(&pq)

	for _, task := range tasks {
		unit := pq[0]
		schedule.Assign(task, unit.Index)
		heap.Fix(&pq, 0)
		log.WithFields(log.Fields{
			"task_id":   task.ID,
			"task_load": task.Load,
			"unit":      unit.Index,
			"unit_load": unit.Load,
		}).Debug("Assigned task")
	}
	return schedule, nil
}

// unitQueue is a min-heap of units ordered by (load, index). The index
// key makes the lowest index win among equally loaded units, matching
// the linear scan.
type unitQueue []*models.ProcessingUnit

func (q unitQueue) Len() int { return len(q) }

func (q unitQueue) Less(i, j int) bool {
	if q[i].Load != q[j].Load {
		return q[i].Load < q[j].Load
	}
	return q[i].Index < q[j].Index
}

func (q unitQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *unitQueue) Push(x interface{}) {
	*q = append(*q, x.(*models.ProcessingUnit))
}

func (q *unitQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
