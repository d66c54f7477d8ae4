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
	common_config "github.com/pinebai/CFCFD-NG/pkg/common/config"
	"github.com/pinebai/CFCFD-NG/pkg/common/metrics"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
)

// Defaults of the control file layout written by the eilmer3 preparation
// step.
const (
	DefaultControlSuffix      = ".control"
	DefaultControlSection     = "control_data"
	DefaultNBlockKey          = "nblock"
	DefaultBlockSectionPrefix = "block/"

	DefaultStrategy     = "LPT"
	DefaultReportFormat = "text"
	DefaultLogFormat    = "json"
)

// DefaultDimKeys are the per-axis cell count keys of a block section.
var DefaultDimKeys = []string{"nni", "nnj", "nnk"}

// Config holds all configs to run a balancing pass.
type Config struct {
	Balancer BalancerConfig `yaml:"balancer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  metrics.Config `yaml:"metrics"`
}

// BalancerConfig is the balancing specific config.
type BalancerConfig struct {
	// Strategy is the registered scheduling strategy to use.
	Strategy string `yaml:"strategy" validate:"nonzero"`

	// ReportFormat is the format of the per-unit assignment report.
	ReportFormat string `yaml:"report_format" validate:"nonzero"`

	// Control describes where the block metadata lives in the control file.
	Control ControlLayout `yaml:"control"`
}

// ControlLayout names the sections and keys of the block metadata.
type ControlLayout struct {
	// Suffix is appended to the job name to find the control file.
	Suffix string `yaml:"suffix"`

	// ControlSection is the section holding the block count.
	ControlSection string `yaml:"control_section" validate:"nonzero"`

	// NBlockKey is the block count key inside ControlSection.
	NBlockKey string `yaml:"nblock_key" validate:"nonzero"`

	// BlockSectionPrefix followed by the block index names a block section.
	BlockSectionPrefix string `yaml:"block_section_prefix" validate:"nonzero"`

	// DimKeys are the three per-axis cell count keys of a block section.
	DimKeys []string `yaml:"dim_keys" validate:"len=3"`
}

// LoggingConfig configures the log output.
type LoggingConfig struct {
	Format string `yaml:"format"`
}

// Default returns the config used when no config file is given.
func Default() *Config {
	return &Config{
		Balancer: BalancerConfig{
			Strategy:     DefaultStrategy,
			ReportFormat: DefaultReportFormat,
			Control:      DefaultControlLayout(),
		},
		Logging: LoggingConfig{
			Format: DefaultLogFormat,
		},
	}
}

// DefaultControlLayout returns the eilmer3 control file layout.
func DefaultControlLayout() ControlLayout {
	return ControlLayout{
		Suffix:             DefaultControlSuffix,
		ControlSection:     DefaultControlSection,
		NBlockKey:          DefaultNBlockKey,
		BlockSectionPrefix: DefaultBlockSectionPrefix,
		DimKeys:            append([]string(nil), DefaultDimKeys...),
	}
}

// Load merges the given YAML files over the defaults. With no files the
// defaults are returned.
func Load(files ...string) (*Config, error) {
	cfg := Default()
	if len(files) == 0 {
		return cfg, nil
	}
	if err := common_config.Parse(cfg, files...); err != nil {
		return nil, errs.WrapConfig(err, "cannot parse yaml config")
	}
	return cfg, nil
}

// ControlFile returns the control file path of a job.
func (l ControlLayout) ControlFile(job string) string {
	return job + l.Suffix
}
