// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataframe

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

// Axis identifies which physical axis of a table holds the time labels.
// AxisIndex means time runs down the rows (Vals[period][item]); AxisColumns
// means time runs across the columns (Vals[item][period]). The opposite axis
// always holds the item labels.
type Axis int

const (
	AxisIndex   Axis = 0
	AxisColumns Axis = 1
)

var ErrInvalidAxis = errors.New("axis must be one of 0, 1, 'index' or 'columns'")

// ParseAxis normalizes the two accepted axis encodings, integer {0, 1} and
// symbolic {"index", "columns"}, to an Axis value.
func ParseAxis(v interface{}) (Axis, error) {
	if axis, ok := v.(Axis); ok {
		if axis != AxisIndex && axis != AxisColumns {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidAxis, int(axis))
		}
		return axis, nil
	}

	if s, err := cast.ToStringE(v); err == nil {
		switch s {
		case "index", "0":
			return AxisIndex, nil
		case "columns", "1":
			return AxisColumns, nil
		}
	}

	if n, err := cast.ToIntE(v); err == nil {
		switch n {
		case 0:
			return AxisIndex, nil
		case 1:
			return AxisColumns, nil
		}
	}

	return 0, fmt.Errorf("%w: got %v", ErrInvalidAxis, v)
}

// Flip returns the opposite axis.
func (a Axis) Flip() Axis {
	if a == AxisIndex {
		return AxisColumns
	}
	return AxisIndex
}

func (a Axis) String() string {
	if a == AxisIndex {
		return "index"
	}
	return "columns"
}
