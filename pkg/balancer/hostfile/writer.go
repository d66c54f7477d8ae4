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

package hostfile

import (
	"bufio"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
)

const _fileMode = 0644

// Resolve returns the launcher host list: line i is the host of the unit
// block i was assigned to. It fails if any block in [0, ntasks) is
// unassigned or assigned to a unit without a host; such a mismatch is an
// internal error, not a problem with the inputs.
func Resolve(schedule *models.Schedule, hosts []string, ntasks int) ([]string, error) {
	lines := make([]string, ntasks)
	for id := 0; id < ntasks; id++ {
		unit, ok := schedule.Assignment[id]
		if !ok {
			return nil, errors.Errorf("block %d has no processing unit", id)
		}
		if unit < 0 || unit >= len(hosts) {
			return nil, errors.Errorf("block %d assigned to unit %d outside %d hosts",
				id, unit, len(hosts))
		}
		lines[id] = hosts[unit]
	}
	return lines, nil
}

// Write replaces the file at path with one line per entry. The content
// goes to a temp file in the same directory which is renamed over path
// once synced, so readers never see a partial file.
func Write(path string, lines []string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return errs.WrapIO(err, "cannot create temp file for %s", path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return errs.WrapIO(err, "cannot write %s", tmpName)
		}
	}
	if err := w.Flush(); err != nil {
		return errs.WrapIO(err, "cannot write %s", tmpName)
	}
	if err := tmp.Chmod(_fileMode); err != nil {
		return errs.WrapIO(err, "cannot chmod %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		return errs.WrapIO(err, "cannot sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errs.WrapIO(err, "cannot close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errs.WrapIO(err, "cannot rename %s to %s", tmpName, path)
	}
	committed = true

	if err := syncDir(dir); err != nil {
		// the file is in place; only durability of the rename is at stake
		log.WithError(err).WithField("dir", dir).Warn("Failed to sync host file directory")
	}
	log.WithFields(log.Fields{
		"hosts_out": path,
		"lines":     len(lines),
	}).Debug("Wrote host file")
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
