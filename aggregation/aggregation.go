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

// Package aggregation combines component indices and weights into parent
// indices using weighted arithmetic or geometric means.
package aggregation

import (
	"errors"
	"fmt"
	"math"

	"github.com/statdex/priceindex/dataframe"
	"github.com/statdex/priceindex/weights"
)

// Method selects the weighted mean used to aggregate components.
type Method int

const (
	Mean Method = iota
	GeoMean
)

var ErrUnknownMethod = errors.New("aggregation method must be one of 'mean' or 'geomean'")

// ParseMethod maps the symbolic method names to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "mean":
		return Mean, nil
	case "geomean":
		return GeoMean, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrUnknownMethod, s)
}

func (m Method) String() string {
	if m == Mean {
		return "mean"
	}
	return "geomean"
}

// Aggregate combines component indices and weights into a single parent
// index series. Weights are reshaped onto the components' time axis and
// zeroed wherever the component value is missing, zero or infinite so that
// invalid components never contribute. A period in which every component is
// invalid aggregates to NaN rather than zero.
func Aggregate(components, w *dataframe.Table, method Method, axis dataframe.Axis) (*dataframe.Series, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	if method != Mean && method != GeoMean {
		return nil, fmt.Errorf("%w: got %d", ErrUnknownMethod, int(method))
	}

	w, err = weights.ReshapeTo(w, components, axis)
	if err != nil {
		return nil, err
	}

	masked := maskInvalid(components, w, axis)

	shares, err := weights.ToWeightShares(masked, axis)
	if err != nil {
		return nil, err
	}

	switch method {
	case GeoMean:
		return geoMeanAggregate(components, shares, axis), nil
	default:
		return meanAggregate(components, shares, axis), nil
	}
}

// maskInvalid zeroes the weight of every missing, zero or infinite
// component. When a whole period is invalid the weights become NaN instead,
// so the weight shares (and therefore the aggregate) come out missing.
func maskInvalid(components, w *dataframe.Table, axis dataframe.Axis) *dataframe.Table {
	masked := w.Copy()

	for p := 0; p < components.Len(); p++ {
		allInvalid := true
		for i := 0; i < components.ColCount(); i++ {
			v := components.At(axis, p, i)
			if math.IsNaN(v) || v == 0 || math.IsInf(v, 0) {
				masked.Set(axis, p, i, 0)
			} else {
				allInvalid = false
			}
		}
		if allInvalid {
			for i := 0; i < components.ColCount(); i++ {
				masked.Set(axis, p, i, math.NaN())
			}
		}
	}

	return masked
}

// meanAggregate takes the weighted sum of components and shares per period,
// requiring at least one contributing value.
func meanAggregate(components, shares *dataframe.Table, axis dataframe.Axis) *dataframe.Series {
	return components.Mul(axis, shares).SumItems(axis, 1)
}

// geoMeanAggregate exponentiates the weighted sum of the natural logs of the
// components. The log of a non-positive component is NaN and propagates as
// missing.
func geoMeanAggregate(components, shares *dataframe.Table, axis dataframe.Axis) *dataframe.Series {
	logs := components.Copy()
	for p := 0; p < components.Len(); p++ {
		for i := 0; i < components.ColCount(); i++ {
			logs.Set(axis, p, i, math.Log(components.At(axis, p, i)))
		}
	}

	summed := logs.Mul(axis, shares).SumItems(axis, 1)
	for idx, v := range summed.Vals {
		summed.Vals[idx] = math.Exp(v)
	}
	return summed
}

// SubstituteIndices replaces the named component series and returns the new
// component table. Substitute series must share the components' time axis.
func SubstituteIndices(components *dataframe.Table, subs map[string]*dataframe.Series, axis dataframe.Axis) *dataframe.Table {
	t2 := components.Copy()
	for name, sub := range subs {
		colIdx := t2.ColIndex(name)
		if colIdx == -1 {
			continue
		}
		for p := 0; p < t2.Len(); p++ {
			t2.Set(axis, p, colIdx, sub.Vals[p])
		}
	}
	return t2
}

// Reaggregate substitutes component series and aggregates the result.
func Reaggregate(components, w *dataframe.Table, subs map[string]*dataframe.Series, axis dataframe.Axis) (*dataframe.Series, error) {
	return Aggregate(SubstituteIndices(components, subs, axis), w, Mean, axis)
}

// ErrColumnsNotInHeaders reports an expansion onto a header set that does not
// cover the table's items.
var ErrColumnsNotInHeaders = errors.New("not all items of the given table are in headers")

// ExpandFullStructure reindexes the item axis onto the full classification
// header set, filling items with no values with zeros. The table's items
// must be a subset of the headers.
func ExpandFullStructure(t *dataframe.Table, headers []string, axis dataframe.Axis) (*dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	for _, name := range t.ColNames {
		if !known[name] {
			return nil, fmt.Errorf("%w: %q", ErrColumnsNotInHeaders, name)
		}
	}

	return t.ReindexItems(axis, headers).FillNaN(axis, 0), nil
}

// CreateSpecialAggregation aggregates the named items into a single special
// component and sums their weights, returning the new component and weight
// tables with the special column in place of the originals.
func CreateSpecialAggregation(components, w *dataframe.Table, name string, aggCols []string, axis dataframe.Axis) (*dataframe.Table, *dataframe.Table, error) {
	axis, err := dataframe.ParseAxis(axis)
	if err != nil {
		return nil, nil, err
	}

	special, err := Aggregate(subsetItems(components, aggCols, axis), subsetItems(w, aggCols, axis), Mean, axis)
	if err != nil {
		return nil, nil, err
	}

	inAgg := make(map[string]bool, len(aggCols))
	for _, c := range aggCols {
		inAgg[c] = true
	}
	keep := make([]string, 0, components.ColCount())
	for _, c := range components.ColNames {
		if !inAgg[c] {
			keep = append(keep, c)
		}
	}

	newComponents := appendSeriesColumn(subsetItems(components, keep, axis), name, special, axis)

	keptW := subsetItems(w, keep, axis)
	summedW := subsetItems(w, aggCols, axis).SumItems(axis, 1)
	newWeights := appendSeriesColumn(keptW, name, summedW, axis)

	return newComponents, newWeights, nil
}

func subsetItems(t *dataframe.Table, names []string, axis dataframe.Axis) *dataframe.Table {
	return t.ReindexItems(axis, names)
}

func appendSeriesColumn(t *dataframe.Table, name string, s *dataframe.Series, axis dataframe.Axis) *dataframe.Table {
	t2 := dataframe.New(axis, t.Dates, append(append([]string{}, t.ColNames...), name))
	for p := 0; p < t.Len(); p++ {
		for i := 0; i < t.ColCount(); i++ {
			t2.Set(axis, p, i, t.At(axis, p, i))
		}
		t2.Set(axis, p, t.ColCount(), s.Vals[p])
	}
	return t2
}
