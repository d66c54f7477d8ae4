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

package tasks

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/models"
	"github.com/pinebai/CFCFD-NG/pkg/common/sorter"
)

// Build reads every block from src and returns the task list sorted
// heaviest first. Any malformed block aborts the whole build; the
// returned error lists every problem found.
func Build(src Source) (models.TaskList, error) {
	nblocks, err := src.NumBlocks()
	if err != nil {
		return nil, errs.WrapConfig(err, "cannot read block count")
	}
	if nblocks < 0 {
		return nil, errs.ConfigErrorf("negative block count %d", nblocks)
	}

	var merr error
	list := make(models.TaskList, 0, nblocks)
	for ib := 0; ib < nblocks; ib++ {
		dims, err := src.BlockDims(ib)
		if err != nil {
			merr = multierr.Append(merr, errors.Wrapf(err, "block %d", ib))
			continue
		}
		load, err := dims.Load()
		if err != nil {
			merr = multierr.Append(merr, errors.Wrapf(err, "block %d", ib))
			continue
		}
		list = append(list, models.Task{ID: ib, Load: load})
	}
	if merr != nil {
		return nil, errs.WrapConfig(merr, "invalid metadata in %d of %d blocks",
			len(multierr.Errors(merr)), nblocks)
	}

	SortByLoad(list)

	log.WithFields(log.Fields{
		"ntasks":     len(list),
		"total_load": list.TotalLoad(),
		"max_load":   list.MaxLoad(),
	}).Debug("Built task list")
	return list, nil
}

// SortByLoad orders the list heaviest first. Equal loads keep ascending
// id order.
func SortByLoad(list models.TaskList) {
	byLoadDesc := func(t1, t2 models.Task) bool { return t1.Load > t2.Load }
	byID := func(t1, t2 models.Task) bool { return t1.ID < t2.ID }
	sorter.OrderedBy[models.Task](byLoadDesc, byID).Sort(list)
}
