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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/ini.v1"

	"github.com/pinebai/CFCFD-NG/pkg/balancer/config"
	"github.com/pinebai/CFCFD-NG/pkg/balancer/errs"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks github.com/pinebai/CFCFD-NG/pkg/balancer/tasks Source

// Source enumerates the blocks of a job and their dimensions.
type Source interface {
	// NumBlocks returns the declared number of blocks.
	NumBlocks() (int, error)
	// BlockDims returns the cell counts of block i.
	BlockDims(i int) (Dims, error)
}

// Dims are the per-axis cell counts of one block.
type Dims struct {
	NI, NJ, NK int64
}

// Load returns the estimated work of the block, the product of its cell
// counts. It fails on negative counts or when the product overflows.
func (d Dims) Load() (int64, error) {
	if d.NI < 0 || d.NJ < 0 || d.NK < 0 {
		return 0, fmt.Errorf("negative cell count in %dx%dx%d", d.NI, d.NJ, d.NK)
	}
	load := int64(1)
	for _, n := range []int64{d.NI, d.NJ, d.NK} {
		if n != 0 && load > math.MaxInt64/n {
			return 0, fmt.Errorf("cell count %dx%dx%d overflows", d.NI, d.NJ, d.NK)
		}
		load *= n
	}
	return load, nil
}

// ControlFile reads block metadata from an eilmer3 control file.
type ControlFile struct {
	path   string
	file   *ini.File
	layout config.ControlLayout
}

// OpenControlFile parses the control file at path. A missing or
// unparsable file is a config error.
func OpenControlFile(path string, layout config.ControlLayout) (*ControlFile, error) {
	if len(layout.DimKeys) != 3 {
		return nil, errs.ConfigErrorf("control layout needs 3 dimension keys, got %d", len(layout.DimKeys))
	}
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, path)
	if err != nil {
		return nil, errs.WrapConfig(err, "cannot read control file %s", path)
	}
	return &ControlFile{
		path:   path,
		file:   file,
		layout: layout,
	}, nil
}

// Path returns the path the control file was read from.
func (c *ControlFile) Path() string {
	return c.path
}

// NumBlocks implements Source.
func (c *ControlFile) NumBlocks() (int, error) {
	v, err := c.intValue(c.layout.ControlSection, c.layout.NBlockKey)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("[%s] %s is negative: %d",
			c.layout.ControlSection, c.layout.NBlockKey, v)
	}
	if v > math.MaxInt32 {
		return 0, fmt.Errorf("[%s] %s is too large: %d",
			c.layout.ControlSection, c.layout.NBlockKey, v)
	}
	return int(v), nil
}

// BlockDims implements Source. Every missing or malformed key of the
// block is reported.
func (c *ControlFile) BlockDims(i int) (Dims, error) {
	section := c.layout.BlockSectionPrefix + strconv.Itoa(i)
	var merr error
	values := make([]int64, len(c.layout.DimKeys))
	for k, key := range c.layout.DimKeys {
		v, err := c.intValue(section, key)
		merr = multierr.Append(merr, err)
		values[k] = v
	}
	if merr != nil {
		return Dims{}, merr
	}
	return Dims{NI: values[0], NJ: values[1], NK: values[2]}, nil
}

func (c *ControlFile) intValue(section, key string) (int64, error) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return 0, errors.Errorf("no section [%s]", section)
	}
	k, err := sec.GetKey(key)
	if err != nil {
		return 0, errors.Errorf("no key %s in section [%s]", key, section)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(k.String()), 10, 64)
	if err != nil {
		return 0, errors.Errorf("[%s] %s is not an integer: %q", section, key, k.String())
	}
	return v, nil
}
