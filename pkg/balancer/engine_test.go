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

package balancer

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"
	"go.uber.org/goleak"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/config"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/strategy"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type EngineTestSuite struct {
	suite.Suite

	dir    string
	scope  tally.TestScope
	report *bytes.Buffer
	cfg    *config.Config
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "balancer")
	suite.Require().NoError(err)
	suite.dir = dir
	suite.scope = tally.NewTestScope("", nil)
	suite.report = &bytes.Buffer{}
	suite.cfg = config.Default()
}

func (suite *EngineTestSuite) TearDownTest() {
	os.RemoveAll(suite.dir)
}

func (suite *EngineTestSuite) path(name string) string {
	return filepath.Join(suite.dir, name)
}

// writeJob writes a control file whose block i has load loads[i].
func (suite *EngineTestSuite) writeJob(job string, loads ...int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[control_data]\nnblock = %d\n", len(loads))
	for i, l := range loads {
		fmt.Fprintf(&b, "\n[block/%d]\nnni = %d\nnnj = 1\nnnk = 1\n", i, l)
	}
	base := suite.path(job)
	suite.Require().NoError(
		ioutil.WriteFile(base+".control", []byte(b.String()), 0644))
	return base
}

func (suite *EngineTestSuite) writeHosts(hosts ...string) string {
	var b strings.Builder
	for _, h := range hosts {
		fmt.Fprintf(&b, "%s slots=1\n", h)
	}
	path := suite.path("hosts.in")
	suite.Require().NoError(ioutil.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func (suite *EngineTestSuite) newEngine() *Engine {
	e, err := New(suite.cfg, suite.scope, suite.report)
	suite.Require().NoError(err)
	return e
}

func (suite *EngineTestSuite) readLines(path string) []string {
	data, err := ioutil.ReadFile(path)
	suite.Require().NoError(err)
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func (suite *EngineTestSuite) counter(name string) int64 {
	c, ok := suite.scope.Snapshot().Counters()[name+"+"]
	if !ok {
		return 0
	}
	return c.Value()
}

func (suite *EngineTestSuite) TestRunWritesBalancedHostFile() {
	job := suite.writeJob("job", 100, 80, 50, 20)
	req := Request{
		Job:      job,
		HostsIn:  suite.writeHosts("h0", "h1"),
		HostsOut: suite.path("hosts.out"),
	}

	result, err := suite.newEngine().Run(req)
	suite.Require().NoError(err)
	suite.Equal(Written, result.Outcome)
	suite.Equal(4, result.NumTasks)
	suite.Equal(2, result.NumProcs)
	suite.Equal(job+".control", result.ControlFile)
	suite.EqualValues(130, result.Schedule.Makespan())

	suite.Equal([]string{"h0", "h1", "h1", "h0"}, suite.readLines(req.HostsOut))
	suite.Contains(suite.report.String(), "h0")
	suite.Contains(suite.report.String(), "0 3")
	suite.Contains(suite.report.String(), "1 2")

	suite.EqualValues(1, suite.counter("run.success"))
	suite.EqualValues(4, suite.counter("tasks.scheduled"))
	suite.EqualValues(130, suite.scope.Snapshot().Gauges()["schedule.makespan+"].Value())
}

func (suite *EngineTestSuite) TestRunSkipsWhenHostsOutnumberBlocks() {
	req := Request{
		Job:      suite.writeJob("job", 10, 20, 30),
		HostsIn:  suite.writeHosts("a", "b", "c", "d", "e"),
		HostsOut: suite.path("hosts.out"),
	}

	result, err := suite.newEngine().Run(req)
	suite.Require().NoError(err)
	suite.Equal(Skipped, result.Outcome)
	suite.Nil(result.Schedule)
	suite.Empty(suite.report.String())

	_, err = os.Stat(req.HostsOut)
	suite.True(os.IsNotExist(err))
	suite.EqualValues(1, suite.counter("run.noop"))
	suite.EqualValues(0, suite.counter("run.success"))
}

func (suite *EngineTestSuite) TestRunEqualHostsAndBlocks() {
	req := Request{
		Job:      suite.writeJob("job", 5, 9, 7),
		HostsIn:  suite.writeHosts("a", "b", "c"),
		HostsOut: suite.path("hosts.out"),
	}

	result, err := suite.newEngine().Run(req)
	suite.Require().NoError(err)
	suite.Equal(Written, result.Outcome)
	// heaviest first: block 1 on a, block 2 on b, block 0 on c
	suite.Equal([]string{"c", "a", "b"}, suite.readLines(req.HostsOut))
}

func (suite *EngineTestSuite) TestRunNoBlocksWritesEmptyFile() {
	req := Request{
		Job:      suite.writeJob("job"),
		HostsIn:  suite.writeHosts("a", "b"),
		HostsOut: suite.path("hosts.out"),
	}

	result, err := suite.newEngine().Run(req)
	suite.Require().NoError(err)
	suite.Equal(Empty, result.Outcome)
	suite.Empty(suite.readLines(req.HostsOut))
}

func (suite *EngineTestSuite) TestRunNoHosts() {
	hostsIn := suite.path("hosts.in")
	suite.Require().NoError(ioutil.WriteFile(hostsIn, []byte("\n# none\n"), 0644))
	req := Request{
		Job:      suite.writeJob("job", 1, 2),
		HostsIn:  hostsIn,
		HostsOut: suite.path("hosts.out"),
	}

	_, err := suite.newEngine().Run(req)
	suite.True(errs.IsConfigError(err))
	suite.Equal(errs.ExitConfig, errs.ExitCode(err))
	_, statErr := os.Stat(req.HostsOut)
	suite.True(os.IsNotExist(statErr))
	suite.EqualValues(1, suite.counter("run.fail"))
}

func (suite *EngineTestSuite) TestRunMissingControlFile() {
	req := Request{
		Job:      suite.path("missing"),
		HostsIn:  suite.writeHosts("a"),
		HostsOut: suite.path("hosts.out"),
	}

	_, err := suite.newEngine().Run(req)
	suite.True(errs.IsConfigError(err))
	_, statErr := os.Stat(req.HostsOut)
	suite.True(os.IsNotExist(statErr))
}

func (suite *EngineTestSuite) TestRunMissingHostsFile() {
	req := Request{
		Job:      suite.writeJob("job", 1),
		HostsIn:  suite.path("missing.hosts"),
		HostsOut: suite.path("hosts.out"),
	}

	_, err := suite.newEngine().Run(req)
	suite.True(errs.IsIOError(err))
	suite.Equal(errs.ExitIO, errs.ExitCode(err))
}

func (suite *EngineTestSuite) TestRunUnwritableOutput() {
	req := Request{
		Job:      suite.writeJob("job", 1, 2),
		HostsIn:  suite.writeHosts("a"),
		HostsOut: filepath.Join(suite.dir, "no", "such", "dir", "hosts.out"),
	}

	_, err := suite.newEngine().Run(req)
	suite.True(errs.IsIOError(err))
}

func (suite *EngineTestSuite) TestRunRequiresAllParameters() {
	e := suite.newEngine()
	for _, req := range []Request{
		{HostsIn: "in", HostsOut: "out"},
		{Job: "job", HostsOut: "out"},
		{Job: "job", HostsIn: "in"},
	} {
		_, err := e.Run(req)
		suite.True(errs.IsUsageError(err), "request %+v", req)
	}
}

func (suite *EngineTestSuite) TestRunIsDeterministic() {
	loads := []int64{7, 3, 7, 12, 1, 9, 3, 3, 15, 2, 6}
	job := suite.writeJob("job", loads...)
	hostsIn := suite.writeHosts("n0", "n1", "n1", "n2")

	var outputs [][]byte
	for _, s := range []string{strategy.LPT, strategy.LPT, strategy.LPTHeap} {
		suite.cfg.Balancer.Strategy = s
		out := suite.path("hosts.out." + s + fmt.Sprint(len(outputs)))
		_, err := suite.newEngine().Run(Request{Job: job, HostsIn: hostsIn, HostsOut: out})
		suite.Require().NoError(err)
		data, err := ioutil.ReadFile(out)
		suite.Require().NoError(err)
		outputs = append(outputs, data)
	}
	suite.Equal(outputs[0], outputs[1])
	suite.Equal(outputs[0], outputs[2])
}

func (suite *EngineTestSuite) TestRunOutputUsesInputHosts() {
	hosts := []string{"alpha", "beta", "beta", "gamma"}
	req := Request{
		Job:      suite.writeJob("job", 4, 8, 15, 16, 23, 42, 1, 1),
		HostsIn:  suite.writeHosts(hosts...),
		HostsOut: suite.path("hosts.out"),
	}

	_, err := suite.newEngine().Run(req)
	suite.Require().NoError(err)

	lines := suite.readLines(req.HostsOut)
	suite.Len(lines, 8)
	used := map[string]bool{}
	for _, l := range lines {
		suite.Contains(hosts, l)
		used[l] = true
	}
	suite.Len(used, 3)
}

func (suite *EngineTestSuite) TestRunJSONReport() {
	suite.cfg.Balancer.ReportFormat = "json"
	req := Request{
		Job:      suite.writeJob("job", 100, 80, 50, 20),
		HostsIn:  suite.writeHosts("h0", "h1"),
		HostsOut: suite.path("hosts.out"),
	}

	_, err := suite.newEngine().Run(req)
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(suite.report.String(), "{"))
}

func (suite *EngineTestSuite) TestNewRejectsUnknownStrategy() {
	suite.cfg.Balancer.Strategy = "RANDOM"
	_, err := New(suite.cfg, suite.scope, suite.report)
	suite.True(errs.IsConfigError(err))
}

func (suite *EngineTestSuite) TestNewRejectsUnknownReportFormat() {
	suite.cfg.Balancer.ReportFormat = "xml"
	_, err := New(suite.cfg, suite.scope, suite.report)
	suite.True(errs.IsConfigError(err))
}

func (suite *EngineTestSuite) TestOutcomeString() {
	suite.Equal("written", Written.String())
	suite.Equal("skipped", Skipped.String())
	suite.Equal("empty", Empty.String())
	suite.Equal("unknown", Outcome(0).String())
}
