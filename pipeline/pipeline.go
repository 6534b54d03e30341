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

// Package pipeline wires prices, weights, adjustments and imputation masks
// into a single index calculation.
package pipeline

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/statdex/priceindex/baseprices"
	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/indexmethods"
	"github.com/statdex/priceindex/weights"
)

var ErrExclusionsRequireWeights = errors.New("exclusions need weights to zero out")

// Options carries the optional inputs of IndexCalculator.
type Options struct {
	// ToImpute flags price quotes whose base prices are derived from the
	// index over the remaining items.
	ToImpute *dataframe.Mask

	// ShiftImputedValues moves imputed base prices one period forward.
	ShiftImputedValues bool

	// Weights feed the weighted index methods.
	Weights *dataframe.Table

	// Adjustments hold quality-adjustment amounts, zero meaning none.
	Adjustments *dataframe.Table

	// Exclusions flags quotes to weight out of the final index.
	Exclusions *dataframe.Mask

	// BasePeriods selects the calendar periods base prices come from;
	// defaults to the first period of the year.
	BasePeriods []int
}

// IndexCalculator computes an index series from raw price quotes. It only
// wires parameters: exclusions are zeroed out of the weights, base prices
// come from imputation when a mask is given and from plain base-period
// selection otherwise, and the chosen elementary method does the rest.
func IndexCalculator(prices *dataframe.Table, method indexmethods.Method, axis dataframe.Axis, opts Options) (*dataframe.Series, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	w := opts.Weights
	if opts.Exclusions != nil {
		if w == nil {
			return nil, ErrExclusionsRequireWeights
		}
		if w, err = weights.ReshapeTo(w, prices, axis); err != nil {
			return nil, err
		}
		w = w.MaskWith(axis, opts.Exclusions, 0)
	}

	var basePrices *dataframe.Table
	if opts.ToImpute != nil {
		basePrices, err = baseprices.ImputeBasePrices(prices, opts.ToImpute, method, axis, baseprices.ImputeOptions{
			ShiftImputedValues: opts.ShiftImputedValues,
			BasePeriods:        opts.BasePeriods,
			Weights:            w,
			Adjustments:        opts.Adjustments,
		})
		if err != nil {
			return nil, err
		}
	} else {
		basePrices, err = baseprices.GetBasePrices(prices, opts.BasePeriods, axis, true, true)
		if err != nil {
			return nil, err
		}
		if opts.Adjustments != nil {
			basePrices = baseprices.QualityAdjustedPrices(prices, basePrices, opts.Adjustments, axis)
		}
	}

	log.Debug().Str("Method", method.String()).Bool("Imputed", opts.ToImpute != nil).
		Msg("calculating index")

	return indexmethods.CalculateIndex(prices, basePrices, method, w, axis)
}
