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
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
)

const (
	// LPT is the name of the linear scan longest-processing-time strategy
	LPT = "LPT"

	// LPTHeap is the name of the heap backed longest-processing-time strategy
	LPTHeap = "LPT_HEAP"
)

// Strategy assigns tasks to processing units.
type Strategy interface {
	// Name returns the name of the strategy implementation
	Name() string

	// Schedule places every task on one of numUnits units, consuming the
	// tasks in the given order. It returns errs.ErrInsufficientTasks,
	// without assigning anything, when there are more units than tasks.
	Schedule(tasks models.TaskList, numUnits int) (*models.Schedule, error)
}

// Func type of func which returns a Strategy
type Func func() Strategy

var (
	mu         sync.RWMutex
	strategies = make(map[string]Func)
)

// Register registers the strategy and keeps it in the strategy map.
func Register(name string, strategy Func) {
	mu.Lock()
	defer mu.Unlock()
	if strategy == nil {
		log.WithField("strategy", name).Error("strategy does not exist")
		return
	}
	if _, registered := strategies[name]; registered {
		log.WithField("strategy", name).Error("strategy already registered")
		return
	}
	log.WithField("strategy", name).Debug("Registering strategy")
	strategies[name] = strategy
}

// Init registers all the built-in strategies which are not registered yet.
func Init() {
	for name, f := range map[string]Func{
		LPT:     NewLPT,
		LPTHeap: NewLPTHeap,
	} {
		if !registered(name) {
			Register(name, f)
		}
	}
}

func registered(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := strategies[name]
	return ok
}

// Create creates and returns the strategy registered under name.
func Create(name string) (Strategy, error) {
	mu.RLock()
	defer mu.RUnlock()
	strategy, ok := strategies[name]
	if !ok {
		return nil, errs.ConfigErrorf("strategy %q is not registered, known strategies: %v",
			name, names())
	}
	return strategy(), nil
}

func names() []string {
	var result []string
	for name := range strategies {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// checkUnits validates the unit count shared by every strategy.
func checkUnits(tasks models.TaskList, numUnits int) error {
	if numUnits < 1 {
		return errs.ConfigErrorf("cannot schedule %d tasks on %d processing units",
			len(tasks), numUnits)
	}
	if numUnits > len(tasks) {
		return errs.ErrInsufficientTasks
	}
	return nil
}
