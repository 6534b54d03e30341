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

// Package baseprices selects the reference prices each item is compared
// against and imputes them where quotes are missing or not comparable.
package baseprices

import (
	"math"

	"github.com/statdex/priceindex/dataframe"
)

// GetBasePrices selects the prices observed in the base periods, in the same
// shape as prices. The very first period's values are always kept so the
// series can bootstrap even when it does not start in a base period.
//
// With fill, base prices are forward-filled within each calendar year only,
// so an item that stops reporting does not inherit a stale base price into a
// later year. With shift, the filled base prices move one period forward
// (the base price established in a base period applies from the following
// period), and the vacated leading positions are refilled from the unshifted
// selection.
func GetBasePrices(prices *dataframe.Table, basePeriods []int, axis dataframe.Axis, fill, shift bool) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	// A single cross-section has no cadence to detect; its one period is
	// the bootstrap base.
	if prices.Len() <= 1 {
		return prices.Copy(), nil
	}

	freq, err := dataframe.DetectFrequency(prices.Dates)
	if err != nil {
		return nil, err
	}

	if len(basePeriods) == 0 {
		basePeriods = []int{1}
	}
	if err := dataframe.ValidateBasePeriods(basePeriods, freq); err != nil {
		return nil, err
	}

	positions := dataframe.PeriodPositions(prices.Dates, freq)
	isBase := make(map[int]bool, len(basePeriods))
	for _, bp := range basePeriods {
		isBase[bp] = true
	}

	basePrices := prices.Copy()
	for p := 0; p < prices.Len(); p++ {
		if p == 0 || isBase[positions[p]] {
			continue
		}
		for i := 0; i < prices.ColCount(); i++ {
			basePrices.Set(axis, p, i, math.NaN())
		}
	}

	if !fill && !shift {
		return basePrices, nil
	}

	selected := basePrices
	if fill {
		basePrices = basePrices.FfillWithinYears(axis)
	}
	if shift {
		basePrices = basePrices.Shift(axis, 1).FillWith(axis, selected)
	}

	return basePrices, nil
}

// QualityAdjustedPrices scales base prices by the cumulative adjustment
// factor prices/(prices-adjustments), changing the effective base price of a
// quality-adjusted item.
func QualityAdjustedPrices(prices, basePrices, adjustments *dataframe.Table, axis dataframe.Axis) *dataframe.Table {
	factor := prices.Div(axis, prices.Sub(axis, adjustments)).CumprodTime(axis)
	return basePrices.Mul(axis, factor)
}

// AnnualMaxCount returns the largest number of periods flagged in the mask
// within any single calendar year, counting a period once when any item is
// flagged.
func AnnualMaxCount(m *dataframe.Mask, axis dataframe.Axis) int {
	flagged := m.Any(axis)

	max := 0
	for _, seg := range dataframe.YearSegments(m.Dates) {
		count := 0
		for p := seg[0]; p < seg[1]; p++ {
			if flagged[p] {
				count++
			}
		}
		if count > max {
			max = count
		}
	}
	return max
}
