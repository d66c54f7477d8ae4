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

package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Exit codes of the loadbalance binary.
const (
	ExitOK       = 0
	ExitUsage    = 1
	ExitConfig   = 2
	ExitIO       = 3
	ExitInternal = 4
)

// Kind classifies a failure of a balancing run.
type Kind int

const (
	// KindUsage is a missing or invalid command line parameter.
	KindUsage Kind = iota + 1
	// KindConfig is missing or malformed block metadata or tool config.
	KindConfig
	// KindIO is an unreadable host inventory or unwritable host file.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindConfig:
		return "config error"
	case KindIO:
		return "io error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrInsufficientTasks is returned by a scheduler when there are more
// processing units than tasks. It is not a failure: the caller skips all
// output and exits cleanly.
var ErrInsufficientTasks = errors.New("more processing units than tasks")

// Error is a classified balancing failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Cause implements the pkg/errors causer interface.
func (e *Error) Cause() error { return e.Err }

// Unwrap lets errors.Is and errors.As see the wrapped error.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: errors.Errorf(format, args...)}
}

func wrap(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: errors.Wrapf(err, format, args...)}
}

// UsageErrorf returns a usage error.
func UsageErrorf(format string, args ...interface{}) error {
	return newError(KindUsage, format, args...)
}

// ConfigErrorf returns a config error.
func ConfigErrorf(format string, args ...interface{}) error {
	return newError(KindConfig, format, args...)
}

// WrapConfig wraps err as a config error. It returns nil for a nil err.
func WrapConfig(err error, format string, args ...interface{}) error {
	return wrap(KindConfig, err, format, args...)
}

// WrapIO wraps err as an io error. It returns nil for a nil err.
func WrapIO(err error, format string, args ...interface{}) error {
	return wrap(KindIO, err, format, args...)
}

// KindOf returns the kind of the outermost classified error in the chain,
// or 0 when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsUsageError reports whether err is a usage error.
func IsUsageError(err error) bool { return KindOf(err) == KindUsage }

// IsConfigError reports whether err is a config error.
func IsConfigError(err error) bool { return KindOf(err) == KindConfig }

// IsIOError reports whether err is an io error.
func IsIOError(err error) bool { return KindOf(err) == KindIO }

// ExitCode maps an error returned by a run to the process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrInsufficientTasks) {
		return ExitOK
	}
	switch KindOf(err) {
	case KindUsage:
		return ExitUsage
	case KindConfig:
		return ExitConfig
	case KindIO:
		return ExitIO
	}
	return ExitInternal
}
