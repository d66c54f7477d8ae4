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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
)

func TestInitMetricScopeNoop(t *testing.T) {
	scope, closer, err := InitMetricScope(&Config{}, "load-balance")
	require.NoError(t, err)
	require.NotNil(t, scope)
	scope.Counter("runs").Inc(1)
	assert.NoError(t, closer.Close())
}

func TestInitMetricScopeNoopReports(t *testing.T) {
	scope, closer, err := InitMetricScope(&Config{FlushInterval: time.Millisecond}, "loadbalance")
	require.NoError(t, err)
	scope.Counter("run.success").Inc(1)
	scope.Gauge("schedule.makespan").Update(130)
	scope.Timer("schedule.duration").Record(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.NoError(t, closer.Close())
}

func TestInitMetricScopeNilConfig(t *testing.T) {
	scope, closer, err := InitMetricScope(nil, "loadbalance")
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.NoError(t, closer.Close())
}

func TestInitMetricScopeStatsd(t *testing.T) {
	cfg := &Config{
		Statsd: &StatsdConfig{
			Enable:   true,
			Endpoint: "127.0.0.1:8125",
		},
		FlushInterval: 10 * time.Millisecond,
	}
	scope, closer, err := InitMetricScope(cfg, "loadbalance")
	require.NoError(t, err)
	scope.Gauge("makespan").Update(42)
	assert.NoError(t, closer.Close())
}

func TestReportRuntime(t *testing.T) {
	scope := tally.NewTestScope("", map[string]string{})
	ReportRuntime(scope)

	gauges := scope.Snapshot().Gauges()
	g, ok := gauges["runtime.gomaxprocs+"]
	require.True(t, ok)
	assert.True(t, g.Value() >= 1)
	_, ok = gauges["runtime.memory_heap+"]
	assert.True(t, ok)
}
