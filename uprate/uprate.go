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

// Package uprate scales expenditure totals forward using price indices.
package uprate

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/statdex/priceindex/dataframe"
)

// ErrInvalidBaseMonth limits uprating to the two supported bases.
var ErrInvalidBaseMonth = errors.New("base month must be 1 (January) or 12 (December)")

// UpratingFactor derives annual uprating factors from monthly price indices:
// the base-month value of each year divided by the annual mean index two
// years earlier. December bases count toward the following year. The result
// has one row per calendar year, labeled at the year start; with fill, the
// leading NaN years are backfilled.
func UpratingFactor(indices *dataframe.Table, baseMonth int, fill bool, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}
	if baseMonth != 1 && baseMonth != 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBaseMonth, baseMonth)
	}

	segments := dataframe.YearSegments(indices.Dates)
	annualDates := make([]time.Time, len(segments))
	for idx, seg := range segments {
		annualDates[idx] = time.Date(indices.Dates[seg[0]].Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	annualMean := dataframe.New(axis, annualDates, indices.ColNames)
	monthValues := dataframe.New(axis, annualDates, indices.ColNames)

	for idx, seg := range segments {
		for i := range indices.ColNames {
			sum, cnt := 0.0, 0
			for p := seg[0]; p < seg[1]; p++ {
				v := indices.At(axis, p, i)
				if math.IsNaN(v) {
					continue
				}
				sum += v
				cnt++

				if int(indices.Dates[p].Month()) == baseMonth {
					// A December base uprates the following year.
					slot := idx
					if baseMonth == 12 {
						slot++
					}
					if slot < len(annualDates) {
						monthValues.Set(axis, slot, i, v)
					}
				}
			}
			if cnt > 0 {
				annualMean.Set(axis, idx, i, sum/float64(cnt))
			}
		}
	}

	factor := monthValues.Div(axis, annualMean.Shift(axis, 2))
	if fill {
		factor = factor.Bfill(axis)
	}
	return factor, nil
}

// Uprate multiplies annual expenditure totals by the uprating factors for
// the given base month.
func Uprate(expenditures, indices *dataframe.Table, baseMonth int, fill bool, axis dataframe.Axis) (*dataframe.Table, error) {
	factor, err := UpratingFactor(indices, baseMonth, fill, axis)
	if err != nil {
		return nil, err
	}
	return expenditures.Mul(axis, factor.ReindexDates(axis, expenditures.Dates)), nil
}
