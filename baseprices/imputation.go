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

package baseprices

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/indexmethods"
	"github.com/statdex/priceindex/weights"
)

// ImputeOptions carries the optional inputs of ImputeBasePrices.
type ImputeOptions struct {
	// ShiftImputedValues moves the finished base prices one period
	// forward, mirroring the shift convention of GetBasePrices.
	ShiftImputedValues bool

	// BasePeriods selects the calendar periods base prices are taken
	// from; defaults to the first period of the year.
	BasePeriods []int

	// Weights enable the weighted index methods. Items being imputed are
	// weighted out of the imputation index.
	Weights *dataframe.Table

	// Adjustments hold quality-adjustment amounts; zero means no
	// adjustment for that quote.
	Adjustments *dataframe.Table
}

// ImputeBasePrices derives base prices where the mask flags a quote as
// missing or not comparable. Each flagged position is overwritten with
// prices/index*100, where the index is computed over the remaining valid
// items with the given method. The overwrite passes repeat up to the largest
// number of flagged periods in any calendar year, because an index needed to
// impute one period may depend on a value imputed in an earlier pass of the
// same year.
//
// A year whose flagged positions never obtain a valid comparison index keeps
// NaN base prices there; no error is raised.
func ImputeBasePrices(prices *dataframe.Table, toImpute *dataframe.Mask, method indexmethods.Method, axis dataframe.Axis, opts ImputeOptions) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	// Imputed items must not contribute to the index that imputes them.
	w := opts.Weights
	if w != nil {
		w, err = weights.ReshapeTo(w, prices, axis)
		if err != nil {
			return nil, err
		}
		w = w.MaskWith(axis, toImpute, 0)
	}

	startPrices, err := GetBasePrices(prices, opts.BasePeriods, axis, false, false)
	if err != nil {
		return nil, err
	}
	basePrices := startPrices.Copy()

	if !opts.ShiftImputedValues {
		// Base prices apply from the period after their base period.
		// When imputed values are shifted too, the shift happens after
		// the imputation passes instead.
		basePrices = basePrices.Shift(axis, 1)
	}

	if opts.Adjustments != nil {
		adjusted := QualityAdjustedPrices(prices, basePrices.Ffill(axis), opts.Adjustments, axis)
		basePrices = dataframe.Select(axis, nonZeroMask(opts.Adjustments, axis), adjusted, basePrices)
	}

	passes := AnnualMaxCount(toImpute, axis)
	log.Debug().Int("Passes", passes).Str("Method", method.String()).
		Msg("imputing base prices")

	for n := 0; n < passes; n++ {
		filled := basePrices.Ffill(axis)

		// Without weights the imputed positions are excluded from the
		// comparison index by blanking their base prices; with weights
		// they were already weighted out above.
		if w == nil {
			filled = filled.MaskWith(axis, toImpute, math.NaN())
		}

		index, err := indexmethods.CalculateIndex(prices, filled, method, w, axis)
		if err != nil {
			return nil, err
		}

		imputed := prices.DivSeries(axis, index).MulScalar(axis, 100)
		basePrices = dataframe.Select(axis, toImpute, imputed, basePrices)
	}

	// Filling within calendar years keeps discontinued quotes from
	// carrying a base price into a year they no longer report.
	basePrices = basePrices.FfillWithinYears(axis)

	if opts.ShiftImputedValues {
		basePrices = basePrices.Shift(axis, 1)
	}

	// Backfill the leading gap so the first period has a usable base.
	return basePrices.FillWith(axis, startPrices), nil
}

func nonZeroMask(t *dataframe.Table, axis dataframe.Axis) *dataframe.Mask {
	m := dataframe.NewMask(axis, t.Dates, t.ColNames)
	for p := 0; p < t.Len(); p++ {
		for i := 0; i < t.ColCount(); i++ {
			v := t.At(axis, p, i)
			m.Set(axis, p, i, v != 0 && !math.IsNaN(v))
		}
	}
	return m
}
