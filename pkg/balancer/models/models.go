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

package models

// Task is one simulation block with its estimated work.
type Task struct {
	// ID is the block index. It is the join key of the output host file.
	ID int
	// Load is the estimated work of the block.
	Load int64
}

// TaskList is an ordered list of tasks.
type TaskList []Task

// TotalLoad returns the sum of all task loads.
func (l TaskList) TotalLoad() int64 {
	var total int64
	for _, t := range l {
		total += t.Load
	}
	return total
}

// MaxLoad returns the largest task load, or 0 for an empty list.
func (l TaskList) MaxLoad() int64 {
	var max int64
	for _, t := range l {
		if t.Load > max {
			max = t.Load
		}
	}
	return max
}

// IDs returns the task ids in list order.
func (l TaskList) IDs() []int {
	ids := make([]int, len(l))
	for i, t := range l {
		ids[i] = t.ID
	}
	return ids
}

// ProcessingUnit is one slot of the host inventory.
type ProcessingUnit struct {
	// Index is the position of the slot in the host inventory.
	Index int
	// Load is the cumulative load of the tasks assigned so far.
	Load int64
	// TaskIDs holds the assigned task ids in assignment order.
	TaskIDs []int
}

// NewProcessingUnits returns n idle units indexed 0..n-1.
func NewProcessingUnits(n int) []*ProcessingUnit {
	units := make([]*ProcessingUnit, n)
	for i := range units {
		units[i] = &ProcessingUnit{Index: i}
	}
	return units
}

// Assign adds the task to the unit.
func (u *ProcessingUnit) Assign(t Task) {
	u.TaskIDs = append(u.TaskIDs, t.ID)
	u.Load += t.Load
}

// Schedule is the result of a scheduling pass.
type Schedule struct {
	// Units are the processing units in index order.
	Units []*ProcessingUnit
	// Assignment maps a task id to the index of its unit.
	Assignment map[int]int
	// MaxTaskLoad is the largest load of any assigned task.
	MaxTaskLoad int64
}

// NewSchedule returns an empty schedule over n idle units.
func NewSchedule(n int) *Schedule {
	return &Schedule{
		Units:      NewProcessingUnits(n),
		Assignment: make(map[int]int),
	}
}

// Assign places the task on the unit with the given index.
func (s *Schedule) Assign(t Task, unit int) {
	s.Units[unit].Assign(t)
	s.Assignment[t.ID] = unit
	if t.Load > s.MaxTaskLoad {
		s.MaxTaskLoad = t.Load
	}
}

// Makespan returns the largest cumulative unit load.
func (s *Schedule) Makespan() int64 {
	var max int64
	for _, u := range s.Units {
		if u.Load > max {
			max = u.Load
		}
	}
	return max
}

// TotalLoad returns the sum of all unit loads.
func (s *Schedule) TotalLoad() int64 {
	var total int64
	for _, u := range s.Units {
		total += u.Load
	}
	return total
}

// NumTasks returns the number of assigned tasks.
func (s *Schedule) NumTasks() int {
	return len(s.Assignment)
}

// LowerBound returns max(largest task, ceil(total/units)), a lower bound
// on the optimal makespan.
func (s *Schedule) LowerBound() int64 {
	if len(s.Units) == 0 {
		return 0
	}
	n := int64(len(s.Units))
	bound := (s.TotalLoad() + n - 1) / n
	if s.MaxTaskLoad > bound {
		return s.MaxTaskLoad
	}
	return bound
}
