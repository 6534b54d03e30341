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

// Package indexmethods implements the classical elementary price index
// formulas over current and base prices.
package indexmethods

import (
	"errors"
	"fmt"
	"math"

	"github.com/statdex/priceindex/aggregation"
	"github.com/statdex/priceindex/dataframe"
)

// Method selects the elementary index formula.
type Method int

const (
	Jevons Method = iota
	Carli
	Dutot
	Laspeyres
	GeometricLaspeyres
)

var (
	ErrUnknownMethod = errors.New(
		"index method must be one of 'jevons', 'carli', 'dutot', 'laspeyres' or 'geometric_laspeyres'")
	ErrWeightsRequired = errors.New("weights are required for the laspeyres and geometric_laspeyres methods")
)

// ParseMethod maps the symbolic method names to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "jevons":
		return Jevons, nil
	case "carli":
		return Carli, nil
	case "dutot":
		return Dutot, nil
	case "laspeyres":
		return Laspeyres, nil
	case "geometric_laspeyres":
		return GeometricLaspeyres, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrUnknownMethod, s)
}

func (m Method) String() string {
	switch m {
	case Jevons:
		return "jevons"
	case Carli:
		return "carli"
	case Dutot:
		return "dutot"
	case Laspeyres:
		return "laspeyres"
	case GeometricLaspeyres:
		return "geometric_laspeyres"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Weighted reports whether the method needs weights.
func (m Method) Weighted() bool {
	return m == Laspeyres || m == GeometricLaspeyres
}

// CalculateIndex computes the index series for the given prices and base
// prices with the selected method, scaled so the base period equals 100.
// Weights are only consulted by the weighted methods, which fail without
// them.
func CalculateIndex(prices, basePrices *dataframe.Table, method Method, w *dataframe.Table, axis dataframe.Axis) (*dataframe.Series, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	if method.Weighted() && w == nil {
		return nil, fmt.Errorf("%w: %s", ErrWeightsRequired, method)
	}

	var index *dataframe.Series
	switch method {
	case Jevons:
		index = jevonsIndex(prices, basePrices, axis)
	case Carli:
		index = carliIndex(prices, basePrices, axis)
	case Dutot:
		index = dutotIndex(prices, basePrices, axis)
	case Laspeyres:
		index, err = laspeyresIndex(prices, basePrices, w, axis)
	case GeometricLaspeyres:
		index, err = geometricLaspeyresIndex(prices, basePrices, w, axis)
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnknownMethod, int(method))
	}
	if err != nil {
		return nil, err
	}

	return index.MulScalar(100), nil
}

// jevonsIndex takes the geometric mean of the price relatives.
func jevonsIndex(prices, basePrices *dataframe.Table, axis dataframe.Axis) *dataframe.Series {
	return GeoMean(prices.Div(axis, basePrices), axis)
}

// carliIndex takes the arithmetic mean of the price relatives.
func carliIndex(prices, basePrices *dataframe.Table, axis dataframe.Axis) *dataframe.Series {
	return prices.Div(axis, basePrices).MeanItems(axis)
}

// dutotIndex divides the mean of the prices by the mean of the base prices.
func dutotIndex(prices, basePrices *dataframe.Table, axis dataframe.Axis) *dataframe.Series {
	return prices.MeanItems(axis).Div(basePrices.MeanItems(axis))
}

// laspeyresIndex takes the weighted arithmetic mean of the price relatives.
func laspeyresIndex(prices, basePrices, w *dataframe.Table, axis dataframe.Axis) (*dataframe.Series, error) {
	return aggregation.Aggregate(prices.Div(axis, basePrices), w, aggregation.Mean, axis)
}

// geometricLaspeyresIndex takes the weighted geometric mean of the price
// relatives.
func geometricLaspeyresIndex(prices, basePrices, w *dataframe.Table, axis dataframe.Axis) (*dataframe.Series, error) {
	return aggregation.Aggregate(prices.Div(axis, basePrices), w, aggregation.GeoMean, axis)
}

// GeoMean computes the geometric mean across the item axis per period. The
// product is divided by the count of present values only, so a period with
// fewer observed items is not penalized.
func GeoMean(t *dataframe.Table, axis dataframe.Axis) *dataframe.Series {
	prod := t.ProdItems(axis)
	counts := t.CountPresent(axis)

	for idx := range prod.Vals {
		prod.Vals[idx] = math.Exp(math.Log(prod.Vals[idx]) / float64(counts[idx]))
	}
	return prod
}
