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

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
)

func writeConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "balancer_config")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "loadbalance.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultStrategy, cfg.Balancer.Strategy)
	assert.Equal(t, DefaultReportFormat, cfg.Balancer.ReportFormat)
	assert.Equal(t, []string{"nni", "nnj", "nnk"}, cfg.Balancer.Control.DimKeys)
	assert.Equal(t, "job.control", cfg.Balancer.Control.ControlFile("job"))
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
balancer:
  strategy: LPT_HEAP
  report_format: yaml
  control:
    suffix: .ctrl
logging:
  format: text
metrics:
  flush_interval: 5s
  statsd:
    enable: true
    endpoint: localhost:8125
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "LPT_HEAP", cfg.Balancer.Strategy)
	assert.Equal(t, "yaml", cfg.Balancer.ReportFormat)
	assert.Equal(t, ".ctrl", cfg.Balancer.Control.Suffix)
	// untouched layout keys keep their defaults
	assert.Equal(t, DefaultControlSection, cfg.Balancer.Control.ControlSection)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 5*time.Second, cfg.Metrics.FlushInterval)
	require.NotNil(t, cfg.Metrics.Statsd)
	assert.True(t, cfg.Metrics.Statsd.Enable)
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `
balancer:
  control:
    dim_keys: [nni, nnj]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/loadbalance.yaml")
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))
}

func TestDefaultControlLayoutIsCopy(t *testing.T) {
	l := DefaultControlLayout()
	l.DimKeys[0] = "changed"
	assert.Equal(t, "nni", DefaultDimKeys[0])
}
