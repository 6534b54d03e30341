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
	"time"
)

// Table stores a labeled table of values with a time axis (Dates) and an
// item axis (ColNames). Missing observations are math.NaN(). The physical
// layout of Vals depends on the axis the caller works with:
//
//	AxisIndex:   Vals[period][item]
//	AxisColumns: Vals[item][period]
//
// Operations never mutate their receiver; they return new tables.
type Table struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// Series is a single time series of values.
type Series struct {
	Dates []time.Time
	Vals  []float64
}

// Mask is a boolean table with the same labeling and orientation rules as
// Table.
type Mask struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]bool
}

// Frequency of a time axis.
type Frequency string

const (
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
)

var (
	ErrDateIndexNotAligned   = errors.New("date index does not align")
	ErrLabelsNotAligned      = errors.New("item labels cannot be aligned")
	ErrCannotDetectFrequency = errors.New(
		"the frequency of the time axis cannot be determined: check that the series is a monthly or quarterly time series")
)
