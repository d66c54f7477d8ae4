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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	unitFormatHeader    = "Unit\tHost\tLoad\tBlocks\n"
	unitFormatBody      = "%d\t%s\t%d\t%s\n"
	summaryFormatHeader = "Units\tTasks\tTotal Load\tMakespan\tLower Bound\tRatio\n"
	summaryFormatBody   = "%d\t%d\t%d\t%d\t%d\t%.4f\n"
)

// Report is the per-unit view of a schedule.
type Report struct {
	Units   []Unit  `json:"units" yaml:"units"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// Unit is one processing unit with its host and blocks in assignment
// order.
type Unit struct {
	Index  int    `json:"index" yaml:"index"`
	Host   string `json:"host" yaml:"host"`
	Load   int64  `json:"load" yaml:"load"`
	Blocks []int  `json:"blocks" yaml:"blocks"`
}

// Summary holds the schedule wide figures.
type Summary struct {
	Units      int     `json:"units" yaml:"units"`
	Tasks      int     `json:"tasks" yaml:"tasks"`
	TotalLoad  int64   `json:"total_load" yaml:"total_load"`
	Makespan   int64   `json:"makespan" yaml:"makespan"`
	LowerBound int64   `json:"lower_bound" yaml:"lower_bound"`
	Ratio      float64 `json:"ratio" yaml:"ratio"`
}

// New builds the report of a schedule. Unit i runs on hosts[i].
func New(schedule *models.Schedule, hosts []string) (*Report, error) {
	if len(hosts) < len(schedule.Units) {
		return nil, errors.Errorf("%d processing units but only %d hosts",
			len(schedule.Units), len(hosts))
	}

	r := &Report{
		Units: make([]Unit, len(schedule.Units)),
		Summary: Summary{
			Units:      len(schedule.Units),
			Tasks:      schedule.NumTasks(),
			TotalLoad:  schedule.TotalLoad(),
			Makespan:   schedule.Makespan(),
			LowerBound: schedule.LowerBound(),
		},
	}
	if r.Summary.LowerBound > 0 {
		r.Summary.Ratio = float64(r.Summary.Makespan) / float64(r.Summary.LowerBound)
	}
	for i, u := range schedule.Units {
		r.Units[i] = Unit{
			Index:  u.Index,
			Host:   hosts[u.Index],
			Load:   u.Load,
			Blocks: append([]int{}, u.TaskIDs...),
		}
	}
	return r, nil
}

// ValidateFormat returns an error for an unknown report format.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return errs.ConfigErrorf("invalid report format %q", format)
}

// Write renders the report of a schedule to w.
func Write(w io.Writer, format string, schedule *models.Schedule, hosts []string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	r, err := New(schedule, hosts)
	if err != nil {
		return err
	}
	return r.Write(w, format)
}

// Write renders the report to w in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatText:
		return r.writeText(w)
	case FormatJSON:
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal report")
		}
		_, err = fmt.Fprintf(w, "%s\n", body)
		return err
	case FormatYAML:
		body, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "failed to marshal report")
		}
		_, err = w.Write(body)
		return err
	}
	return errs.ConfigErrorf("invalid report format %q", format)
}

func (r *Report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, unitFormatHeader)
	for _, u := range r.Units {
		fmt.Fprintf(tw, unitFormatBody, u.Index, u.Host, u.Load, joinBlocks(u.Blocks))
	}
	fmt.Fprintln(tw)
	fmt.Fprint(tw, summaryFormatHeader)
	fmt.Fprintf(tw, summaryFormatBody,
		r.Summary.Units,
		r.Summary.Tasks,
		r.Summary.TotalLoad,
		r.Summary.Makespan,
		r.Summary.LowerBound,
		r.Summary.Ratio)
	return tw.Flush()
}

func joinBlocks(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}
