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

// Package chaining converts fixed-base unchained index series into continuous
// chain-linked series and back, with single or double annual chain links.
package chaining

import (
	"math"
	"time"

	"github.com/statdex/priceindex/dataframe"
)

// Chain links an unchained index table into a continuous series. The default
// single annual link resets at January (first quarter for quarterly series);
// doubleLink adds December (last quarter); explicit basePeriods override
// both. A zero-division gap in the result becomes 0, not NaN, so downstream
// consumers see an explicit "no index" sentinel.
func Chain(t *dataframe.Table, doubleLink bool, basePeriods []int, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	isBase, freq, err := basePeriodMask(t.Dates, doubleLink, basePeriods)
	if err != nil {
		return nil, err
	}

	// The comparison base keeps the raw values, so dividing by its shift
	// yields period-on-period growth except across a base-period reset.
	base := t.Copy()
	indices := t.Copy()

	// An index that does not open at 100 gets its first base-year start
	// pinned to 100 so the chain has an anchor.
	if !firstPeriodIs100(indices, axis) {
		setFirstBasePeriod(indices, freq, axis)
	}

	for p := 0; p < base.Len(); p++ {
		if !isBase[p] {
			continue
		}
		for i := 0; i < base.ColCount(); i++ {
			base.Set(axis, p, i, 100)
		}
	}

	base = base.Shift(axis, 1).Bfill(axis)

	chained := indices.Div(axis, base).CumprodTime(axis).MulScalar(axis, 100)
	return chained.FillNaN(axis, 0), nil
}

// Unchain recovers the fixed-base series from a chained index: the chained
// values at the base-period positions, shifted forward and filled, form the
// comparison base each period is divided by.
func Unchain(t *dataframe.Table, doubleLink bool, basePeriods []int, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	isBase, _, err := basePeriodMask(t.Dates, doubleLink, basePeriods)
	if err != nil {
		return nil, err
	}

	base := dataframe.New(axis, t.Dates, t.ColNames)
	for p := 0; p < t.Len(); p++ {
		if !isBase[p] {
			continue
		}
		for i := 0; i < t.ColCount(); i++ {
			base.Set(axis, p, i, t.At(axis, p, i))
		}
	}

	base = base.Shift(axis, 1).Ffill(axis).Bfill(axis)

	unchained := t.Div(axis, base).MulScalar(axis, 100)
	return unchained.FillNaN(axis, 0), nil
}

// ChainSeries chains a single unchained index series.
func ChainSeries(s *dataframe.Series, doubleLink bool, basePeriods []int) (*dataframe.Series, error) {
	t, err := Chain(s.Table(dataframe.AxisIndex, "index"), doubleLink, basePeriods, dataframe.AxisIndex)
	if err != nil {
		return nil, err
	}
	return t.ColSeries(dataframe.AxisIndex, "index"), nil
}

// UnchainSeries unchains a single chained index series.
func UnchainSeries(s *dataframe.Series, doubleLink bool, basePeriods []int) (*dataframe.Series, error) {
	t, err := Unchain(s.Table(dataframe.AxisIndex, "index"), doubleLink, basePeriods, dataframe.AxisIndex)
	if err != nil {
		return nil, err
	}
	return t.ColSeries(dataframe.AxisIndex, "index"), nil
}

// basePeriodMask flags the time positions that act as chain links. Defaults
// are the first calendar period of the year, plus the last when doubleLink is
// set; explicit periods are validated against the detected cadence.
func basePeriodMask(dates []time.Time, doubleLink bool, basePeriods []int) ([]bool, dataframe.Frequency, error) {
	freq, err := dataframe.DetectFrequency(dates)
	if err != nil {
		return nil, "", err
	}

	if len(basePeriods) == 0 {
		basePeriods = []int{1}
		if doubleLink {
			if freq == dataframe.Quarterly {
				basePeriods = append(basePeriods, 4)
			} else {
				basePeriods = append(basePeriods, 12)
			}
		}
	}
	if err := dataframe.ValidateBasePeriods(basePeriods, freq); err != nil {
		return nil, "", err
	}

	isBase := make([]bool, len(dates))
	for p, pos := range dataframe.PeriodPositions(dates, freq) {
		for _, bp := range basePeriods {
			if pos == bp {
				isBase[p] = true
				break
			}
		}
	}
	return isBase, freq, nil
}

func firstPeriodIs100(t *dataframe.Table, axis dataframe.Axis) bool {
	for i := 0; i < t.ColCount(); i++ {
		if t.At(axis, 0, i) != 100 {
			return false
		}
	}
	return true
}

// setFirstBasePeriod pins each item's opening chain anchor to 100: the first
// calendar period of the first year the item has data, when that period is on
// the time axis. An all-zero item stays untouched.
func setFirstBasePeriod(t *dataframe.Table, freq dataframe.Frequency, axis dataframe.Axis) {
	positions := dataframe.PeriodPositions(t.Dates, freq)

	for i := 0; i < t.ColCount(); i++ {
		firstYear, allZero := 0, true
		for p := 0; p < t.Len(); p++ {
			v := t.At(axis, p, i)
			if !math.IsNaN(v) && firstYear == 0 {
				firstYear = t.Dates[p].Year()
			}
			if v != 0 && !math.IsNaN(v) {
				allZero = false
			}
		}
		if allZero || firstYear == 0 {
			continue
		}

		for p := 0; p < t.Len(); p++ {
			if t.Dates[p].Year() == firstYear && positions[p] == 1 {
				t.Set(axis, p, i, 100)
				break
			}
		}
	}
}
