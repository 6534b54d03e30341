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

// Package rounding rounds published weights without changing their total.
package rounding

import (
	"math"
	"sort"

	"github.com/statdex/priceindex/dataframe"
)

// RoundAndAdjust rounds every value to the given number of decimals while
// preserving each period's sum across items. The values that lost the most to
// plain rounding are nudged by a half step first, ties breaking on item
// order, until the rounded sum matches the unrounded one.
func RoundAndAdjust(t *dataframe.Table, decimals int, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	t2 := t.Copy()
	vals := make([]float64, t.ColCount())
	for p := 0; p < t.Len(); p++ {
		for i := range vals {
			vals[i] = t.At(axis, p, i)
		}
		adjustVector(vals, decimals)
		for i, v := range vals {
			t2.Set(axis, p, i, v)
		}
	}
	return t2, nil
}

// RoundAndAdjustSeries rounds a single vector of values, preserving its sum.
func RoundAndAdjustSeries(s *dataframe.Series, decimals int) *dataframe.Series {
	s2 := s.Copy()
	adjustVector(s2.Vals, decimals)
	return s2
}

// adjustVector rounds vals in place to the given decimals, first spreading
// half-step adjustments over the entries with the largest rounding error so
// the rounded sum equals the rounded unrounded sum.
func adjustVector(vals []float64, decimals int) {
	factor := math.Pow(10, float64(decimals))
	half := 0.5 / factor

	// The total rounding error, in units of the last retained decimal,
	// gives the number of entries that need a half-step nudge.
	errs := 0.0
	for _, v := range vals {
		if !math.IsNaN(v) {
			errs += v - roundTo(v, factor)
		}
	}
	n := int(math.Round(errs * factor))

	if n != 0 {
		sign := 1.0
		if n < 0 {
			sign = -1.0
		}

		order := make([]int, 0, len(vals))
		for i, v := range vals {
			if !math.IsNaN(v) {
				order = append(order, i)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			diffA := vals[order[a]] - roundTo(vals[order[a]], factor)
			diffB := vals[order[b]] - roundTo(vals[order[b]], factor)
			if sign < 0 {
				return diffA < diffB
			}
			return diffA > diffB
		})

		count := n
		if count < 0 {
			count = -count
		}
		if count > len(order) {
			count = len(order)
		}
		for _, i := range order[:count] {
			vals[i] += half * sign
		}
	}

	for i, v := range vals {
		if !math.IsNaN(v) {
			vals[i] = roundTo(v, factor)
		}
	}
}

func roundTo(v, factor float64) float64 {
	return math.Round(v*factor) / factor
}
