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
	"runtime"

	"github.com/uber-go/tally/v4"
)

// ReportRuntime emits a one-off snapshot of the process runtime. Batch
// binaries call it once, right before the root scope is closed.
func ReportRuntime(scope tally.Scope) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	rs := scope.SubScope("runtime")
	rs.Gauge("num_goroutines").Update(float64(runtime.NumGoroutine()))
	rs.Gauge("gomaxprocs").Update(float64(runtime.GOMAXPROCS(0)))
	rs.Gauge("memory_allocated").Update(float64(memStats.Alloc))
	rs.Gauge("memory_heap").Update(float64(memStats.HeapAlloc))
	rs.Gauge("memory_total_allocated").Update(float64(memStats.TotalAlloc))
	rs.Counter("memory_num_gc").Inc(int64(memStats.NumGC))
}
