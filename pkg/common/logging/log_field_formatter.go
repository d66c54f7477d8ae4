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

package logging

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// JSONFormat emits one JSON object per log entry.
	JSONFormat = "json"
	// TextFormat emits logfmt-style key=value lines.
	TextFormat = "text"
)

// LogFieldFormatter decorates every entry with a fixed set of fields
// before handing it to the wrapped formatter.
type LogFieldFormatter struct {
	log.Formatter
	Fields log.Fields
}

// Format implements logrus.Formatter. Fields already present on the
// entry win over the fixed ones.
func (f LogFieldFormatter) Format(entry *log.Entry) ([]byte, error) {
	data := make(log.Fields, len(f.Fields)+len(entry.Data))
	for k, v := range f.Fields {
		data[k] = v
	}
	for k, v := range entry.Data {
		data[k] = v
	}
	decorated := entry.WithFields(data)
	decorated.Level = entry.Level
	decorated.Message = entry.Message
	decorated.Time = entry.Time
	return f.Formatter.Format(decorated)
}

// NewFormatter returns the base formatter for the given format name.
func NewFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case "", JSONFormat:
		return &log.JSONFormatter{}, nil
	case TextFormat:
		return &log.TextFormatter{DisableColors: true, FullTimestamp: true}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Setup points the standard logger at out, wraps its formatter with the
// given fields and sets the level.
func Setup(out io.Writer, format string, fields log.Fields, debug bool) error {
	formatter, err := NewFormatter(format)
	if err != nil {
		return err
	}
	log.SetOutput(out)
	log.SetFormatter(&LogFieldFormatter{
		Formatter: formatter,
		Fields:    fields,
	})

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	return nil
}
