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
	"io"
	"strings"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
	tallystatsd "github.com/uber-go/tally/v4/statsd"
)

// DefaultFlushInterval is used when the config leaves flush_interval unset.
const DefaultFlushInterval = time.Second

// Config is the metrics section of the tool config.
type Config struct {
	Statsd        *StatsdConfig `yaml:"statsd"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// StatsdConfig configures the statsd reporter.
type StatsdConfig struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

// InitMetricScope creates the root scope. Without a statsd endpoint the
// scope reports into a no-op client. The returned closer flushes the
// scope and must be called before the process exits.
func InitMetricScope(
	cfg *Config,
	rootMetricScope string,
) (tally.Scope, io.Closer, error) {
	var statter statsd.Statter
	var err error
	if cfg != nil && cfg.Statsd != nil && cfg.Statsd.Enable {
		log.WithField("endpoint", cfg.Statsd.Endpoint).
			Info("Metrics configured with statsd endpoint")
		statter, err = statsd.NewClientWithConfig(&statsd.ClientConfig{
			Address: cfg.Statsd.Endpoint,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to setup statsd client")
		}
	} else {
		log.Debug("No metrics backends configured, using a nil statsd client")
		// every method of a nil *statsd.Client is a no-op
		statter = (*statsd.Client)(nil)
	}

	interval := DefaultFlushInterval
	if cfg != nil && cfg.FlushInterval > 0 {
		interval = cfg.FlushInterval
	}

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		// statsd metric names use "." between components, never "-"
		Prefix:    strings.Replace(rootMetricScope, "-", "_", -1),
		Tags:      map[string]string{},
		Reporter:  tallystatsd.NewReporter(statter, tallystatsd.Options{}),
		Separator: ".",
	}, interval)
	return scope, closer, nil
}
