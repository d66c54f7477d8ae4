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

package hosts

import (
	"bufio"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
)

const _commentPrefix = "#"

// ReadFile reads the host inventory at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.WrapIO(err, "cannot open host file %s", path)
	}
	defer f.Close()

	hosts, err := Read(f)
	if err != nil {
		return nil, errs.WrapIO(err, "cannot read host file %s", path)
	}
	log.WithFields(log.Fields{
		"hosts_in": path,
		"nprocs":   len(hosts),
	}).Debug("Read host inventory")
	return hosts, nil
}

// Read returns the first token of every line in order. Repeated hosts
// are kept, one per slot. Trailing fields such as "slots=4", blank lines
// and "#" comments are ignored.
func Read(r io.Reader) ([]string, error) {
	var hosts []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], _commentPrefix) {
			continue
		}
		hosts = append(hosts, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return hosts, nil
}
